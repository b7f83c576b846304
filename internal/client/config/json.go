package config

import (
	"encoding/json"
	"os"

	"relay/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. After
// parsing, values are copied into the runtime Config.
type JsonConfig struct {
	DirectoryAddr  string `json:"directory_addr"`
	KeystorePath   string `json:"keystore_path"`
	S3AccessKey    string `json:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
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

	config.DirectoryAddr = c.DirectoryAddr
	config.KeystorePath = c.KeystorePath
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
