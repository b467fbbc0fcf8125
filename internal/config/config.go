package config

import "time"

// ResolverConfig is the root configuration for a resolver instance.
type ResolverConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	MarketAPI MarketAPIConfig `yaml:"market_api"`
	Scrape    ScrapeConfig    `yaml:"scrape"`
	Database  DatabaseConfig  `yaml:"database"`
	Resolver  ResolverSection `yaml:"resolver"`
	Watcher   WatcherConfig   `yaml:"watcher"`
}

// InstanceConfig identifies this resolver instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// MarketAPIConfig holds data.gov.in market API settings.
type MarketAPIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"` // falls back to the public demo key when empty
	Timeout   time.Duration `yaml:"timeout"`
	PageSize  int           `yaml:"page_size"`  // records requested per call
	ResultCap int           `yaml:"result_cap"` // quotes returned after filtering
}

// ScrapeConfig holds statistics-portal scrape settings.
type ScrapeConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Path      string        `yaml:"path"`
	UserAgent string        `yaml:"user_agent"`
	Cooldown  time.Duration `yaml:"cooldown"` // minimum inter-request delay, process-wide
	Timeout   time.Duration `yaml:"timeout"`
}

// DatabaseConfig holds the Postgres connection for the curated store.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ResolverSection holds resolution policy settings.
type ResolverSection struct {
	State        string `yaml:"state"`         // state passed to the market API
	LookbackDays int    `yaml:"lookback_days"` // curated-store query window
}

// WatcherConfig holds the background alert watcher settings.
type WatcherConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
	Watchlist   []WatchEntry  `yaml:"watchlist"`
}

// WatchEntry is one commodity/district pair to re-resolve periodically,
// with its alert threshold.
type WatchEntry struct {
	Commodity string  `yaml:"commodity"`
	District  string  `yaml:"district"`
	Target    float64 `yaml:"target"`    // rupees per quintal
	Direction string  `yaml:"direction"` // "above" or "below"
}
