// Package config loads runtime configuration for the field-sales CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, with an optional .env file (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the ordering backend
//	-d string   SQLite DSN of the local store
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "https://orders.example.com",
//	  "database_path": "file:fieldsales.db",
//	  "online_check_interval": "3s",
//	  "stock_sync_interval": "15m",
//	  "reconnect_settle_delay": "2s",
//	  "staleness_threshold": "24h",
//	  "image_batch_size": 5,
//	  "image_batch_delay": "1s"
//	}
//
// Primary API
//
//   - type Config                     — all runtime settings
//   - func LoadConfig() *Config       — defaults, then env, JSON, flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
