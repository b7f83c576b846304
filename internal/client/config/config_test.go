package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.DirectoryAddr)
	assert.Equal(t, "relay.db", c.KeystorePath)
	assert.Equal(t, "relay-docs", c.S3Bucket)
}

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"directory_addr": "http://directory.example:9000",
		"keystore_path":  "/tmp/keys.db",
		"s3_bucket":      "docs",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "http://directory.example:9000", cfg.DirectoryAddr)
		assert.Equal(t, "/tmp/keys.db", cfg.KeystorePath)
		assert.Equal(t, "docs", cfg.S3Bucket)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{DirectoryAddr: "defaults:1234"}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.DirectoryAddr)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-a", "http://other:8081", "-d", "/tmp/other.db"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "http://other:8081", cfg.DirectoryAddr)
	assert.Equal(t, "/tmp/other.db", cfg.KeystorePath)
	assert.Equal(t, "relay-docs", cfg.S3Bucket)
}
