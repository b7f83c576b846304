// Package config handles configuration for the client CLI, including
// defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the client.
//
// Fields:
//   - DirectoryAddr: base URL of the directory service REST endpoint.
//   - KeystorePath: path to the local SQLite identity database.
//   - S3AccessKey / S3SecretKey: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
type Config struct {
	DirectoryAddr  string
	KeystorePath   string
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// LoadDefaults populates c with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.DirectoryAddr = "http://127.0.0.1:8080"
	c.KeystorePath = "relay.db"
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Bucket = "relay-docs"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
