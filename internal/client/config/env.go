package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables recognized by parseEnv. A .env file in the working
// directory is loaded first; real environment variables win over it.
const (
	envServerBaseURL       = "FIELDSALES_SERVER_URL"
	envDatabasePath        = "FIELDSALES_DB"
	envOnlineCheckInterval = "FIELDSALES_ONLINE_CHECK_INTERVAL"
	envStockSyncInterval   = "FIELDSALES_STOCK_SYNC_INTERVAL"
)

// parseEnv overlays Config with values from the environment. Durations use
// time.ParseDuration syntax ("3s", "15m"); unparsable values are ignored.
func parseEnv(cfg *Config) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	if v := os.Getenv(envServerBaseURL); v != "" {
		cfg.ServerBaseURL = v
	}
	if v := os.Getenv(envDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(envOnlineCheckInterval); v != "" {
		if d, err := parseDurationOrSeconds(v); err == nil {
			cfg.OnlineCheckInterval = d
		}
	}
	if v := os.Getenv(envStockSyncInterval); v != "" {
		if d, err := parseDurationOrSeconds(v); err == nil {
			cfg.StockSyncInterval = d
		}
	}
}

// parseDurationOrSeconds accepts "90s" style durations and bare integers
// meaning seconds.
func parseDurationOrSeconds(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
