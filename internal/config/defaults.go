package config

import "time"

// Default values for optional configuration fields.
const (
	// DefaultAPIBaseURL is the data.gov.in daily mandi price resource.
	DefaultAPIBaseURL = "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"

	// DefaultAPIDemoKey is the documented public sample key for the
	// resource above, used when no key is configured.
	DefaultAPIDemoKey = "579b464db66ec23bdd000001cdd3946e44ce4aad7209ff7b23ac571b"

	DefaultAPITimeout   = 10 * time.Second
	DefaultAPIPageSize  = 100
	DefaultAPIResultCap = 20

	DefaultScrapeBaseURL   = "https://agmarknet.gov.in"
	DefaultScrapePath      = "/PriceAndArrivals/CommodityDailyStateWise.aspx"
	DefaultScrapeUserAgent = "mandi-data-resolver/1.0 (+https://github.com/krishimitra/mandi-data)"
	DefaultScrapeCooldown  = 2 * time.Second
	DefaultScrapeTimeout   = 15 * time.Second

	DefaultDBPort    = 5432
	DefaultDBSSLMode = "prefer"
	DefaultMaxConns  = 10
	DefaultMinConns  = 2

	DefaultState        = "Maharashtra"
	DefaultLookbackDays = 30

	DefaultWatchInterval    = 30 * time.Minute
	DefaultWatchConcurrency = 4
)

func (c *ResolverConfig) applyDefaults() {
	// Market API defaults
	if c.MarketAPI.BaseURL == "" {
		c.MarketAPI.BaseURL = DefaultAPIBaseURL
	}
	if c.MarketAPI.APIKey == "" {
		c.MarketAPI.APIKey = DefaultAPIDemoKey
	}
	if c.MarketAPI.Timeout == 0 {
		c.MarketAPI.Timeout = DefaultAPITimeout
	}
	if c.MarketAPI.PageSize == 0 {
		c.MarketAPI.PageSize = DefaultAPIPageSize
	}
	if c.MarketAPI.ResultCap == 0 {
		c.MarketAPI.ResultCap = DefaultAPIResultCap
	}

	// Scrape defaults
	if c.Scrape.BaseURL == "" {
		c.Scrape.BaseURL = DefaultScrapeBaseURL
	}
	if c.Scrape.Path == "" {
		c.Scrape.Path = DefaultScrapePath
	}
	if c.Scrape.UserAgent == "" {
		c.Scrape.UserAgent = DefaultScrapeUserAgent
	}
	if c.Scrape.Cooldown == 0 {
		c.Scrape.Cooldown = DefaultScrapeCooldown
	}
	if c.Scrape.Timeout == 0 {
		c.Scrape.Timeout = DefaultScrapeTimeout
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)

	// Resolver defaults
	if c.Resolver.State == "" {
		c.Resolver.State = DefaultState
	}
	if c.Resolver.LookbackDays == 0 {
		c.Resolver.LookbackDays = DefaultLookbackDays
	}

	// Watcher defaults
	if c.Watcher.Interval == 0 {
		c.Watcher.Interval = DefaultWatchInterval
	}
	if c.Watcher.Concurrency == 0 {
		c.Watcher.Concurrency = DefaultWatchConcurrency
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
