package config

import (
	"encoding/json"
	"os"
	"time"

	"relay/internal/flagx"
	"relay/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It uses
// timex.Duration so durations can be strings like "30m" or integer
// nanoseconds. After parsing, values are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags via
// flagx.JsonConfigFlags(); when empty, no JSON is loaded. Read and
// unmarshal errors panic; the intended usage is defaults -> parseJson ->
// parseFlags, where later stages override earlier ones.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
}
