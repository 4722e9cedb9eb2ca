package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/fieldsales/internal/flagx"
	"github.com/dmitrijs2005/fieldsales/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s" or
// as integer nanoseconds. After parsing, values are copied into the runtime
// Config (which uses time.Duration).
type JsonConfig struct {
	ServerBaseURL        string         `json:"server_base_url"`
	DatabasePath         string         `json:"database_path"`
	OnlineCheckInterval  timex.Duration `json:"online_check_interval"`
	StockSyncInterval    timex.Duration `json:"stock_sync_interval"`
	ReconnectSettleDelay timex.Duration `json:"reconnect_settle_delay"`
	StalenessThreshold   timex.Duration `json:"staleness_threshold"`
	ImageBatchSize       int            `json:"image_batch_size"`
	ImageBatchDelay      timex.Duration `json:"image_batch_delay"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags via flagx.JsonConfigFlags; when no
// path is given, nothing is loaded. Only fields present in the file override
// the current values. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.StockSyncInterval.Duration > 0 {
		cfg.StockSyncInterval = time.Duration(jc.StockSyncInterval.Duration)
	}
	if jc.ReconnectSettleDelay.Duration > 0 {
		cfg.ReconnectSettleDelay = time.Duration(jc.ReconnectSettleDelay.Duration)
	}
	if jc.StalenessThreshold.Duration > 0 {
		cfg.StalenessThreshold = time.Duration(jc.StalenessThreshold.Duration)
	}
	if jc.ImageBatchSize > 0 {
		cfg.ImageBatchSize = jc.ImageBatchSize
	}
	if jc.ImageBatchDelay.Duration > 0 {
		cfg.ImageBatchDelay = time.Duration(jc.ImageBatchDelay.Duration)
	}
}
