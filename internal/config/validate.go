package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *ResolverConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.MarketAPI.BaseURL == "" {
		return errors.New("market_api.base_url is required")
	}
	if c.MarketAPI.PageSize < 1 {
		return errors.New("market_api.page_size must be >= 1")
	}
	if c.MarketAPI.ResultCap < 1 {
		return errors.New("market_api.result_cap must be >= 1")
	}

	if c.Scrape.BaseURL == "" {
		return errors.New("scrape.base_url is required")
	}
	if c.Scrape.Cooldown <= 0 {
		return errors.New("scrape.cooldown must be > 0")
	}
	if c.Scrape.Timeout <= 0 {
		return errors.New("scrape.timeout must be > 0")
	}

	if err := c.Database.Postgres.validate("database.postgres"); err != nil {
		return err
	}

	if c.Resolver.LookbackDays < 1 {
		return errors.New("resolver.lookback_days must be >= 1")
	}

	if c.Watcher.Concurrency < 1 {
		return errors.New("watcher.concurrency must be >= 1")
	}
	for i, w := range c.Watcher.Watchlist {
		if w.Commodity == "" || w.District == "" {
			return fmt.Errorf("watcher.watchlist[%d] needs commodity and district", i)
		}
		if w.Target <= 0 {
			return fmt.Errorf("watcher.watchlist[%d].target must be > 0", i)
		}
		if w.Direction != "above" && w.Direction != "below" {
			return fmt.Errorf("watcher.watchlist[%d].direction must be \"above\" or \"below\", got %q", i, w.Direction)
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
