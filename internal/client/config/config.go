package config

import "time"

// Config holds runtime settings for the field-sales CLI.
//
// Units: all intervals are time.Duration values.
type Config struct {
	// ServerBaseURL is the base URL of the ordering backend, e.g.
	// "https://orders.example.com".
	ServerBaseURL string

	// DatabasePath is the SQLite DSN of the local store.
	DatabasePath string

	// OnlineCheckInterval is how often the client probes server reachability.
	OnlineCheckInterval time.Duration

	// StockSyncInterval is how often a lightweight stock-only sync runs while
	// online. Zero disables the periodic stock sync.
	StockSyncInterval time.Duration

	// ReconnectSettleDelay is how long to wait after connectivity returns
	// before starting the automatic full sync, so a flapping link does not
	// trigger a storm of passes.
	ReconnectSettleDelay time.Duration

	// StalenessThreshold is the catalog age beyond which the client suggests
	// a sync at startup.
	StalenessThreshold time.Duration

	// ImageBatchSize and ImageBatchDelay shape the image prefetch: images are
	// fetched in batches of ImageBatchSize with ImageBatchDelay between
	// batches.
	ImageBatchSize  int
	ImageBatchDelay time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "file:fieldsales.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.StockSyncInterval = 15 * time.Minute
	c.ReconnectSettleDelay = 2 * time.Second
	c.StalenessThreshold = 24 * time.Hour
	c.ImageBatchSize = 5
	c.ImageBatchDelay = time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including an optional .env file), a JSON file (if present)
// and command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
