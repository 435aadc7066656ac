package trecsearch

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "index.txt", cfg.IndexPath)
	assert.Equal(t, StemmerPorter, cfg.Stemmer)
	assert.True(t, cfg.RemoveStopwords)
	assert.Equal(t, SearchConfig{TopDocs: 150, SuggestedTerms: 5, PRFDocs: 1}, cfg.Search)
	assert.Equal(t, 5050, cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_NoFile(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_YAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlDoc := `
collectionPath: data/ap.xml
stemmer: snowball
search:
  topDocs: 10
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "data/ap.xml", cfg.CollectionPath)
	assert.Equal(t, StemmerSnowball, cfg.Stemmer)
	assert.Equal(t, 10, cfg.Search.TopDocs)
	assert.Equal(t, 5, cfg.Search.SuggestedTerms, "unset fields keep their default")
	assert.Equal(t, "index.txt", cfg.IndexPath)
	assert.Equal(t, LoggingConfig{Level: "debug", Format: "json"}, cfg.Logging)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TS_INDEX_PATH", "/tmp/other-index.txt")
	t.Setenv("TS_REMOVE_STOPWORDS", "false")
	t.Setenv("TS_SERVER_PORT", "8080")
	t.Setenv("TS_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other-index.txt", cfg.IndexPath)
	assert.False(t, cfg.RemoveStopwords)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfig_IgnoresUnparseableEnv(t *testing.T) {
	t.Setenv("TS_SERVER_PORT", "not-a-port")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 5050, cfg.Server.Port)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("search: [1, 2"), 0o600))
	_, err = LoadConfig(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("stemmer: lancaster\n"), 0o600))
	_, err = LoadConfig(invalid)
	assert.ErrorContains(t, err, "invalid config")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty collection", func(c *Config) { c.CollectionPath = "" }, "collectionPath is empty"},
		{"empty index", func(c *Config) { c.IndexPath = "" }, "indexPath is empty"},
		{"empty stopwords", func(c *Config) { c.StopwordPath = "" }, "stopwordPath is empty"},
		{"unknown stemmer", func(c *Config) { c.Stemmer = "krovetz" }, "unknown stemmer"},
		{"negative limit", func(c *Config) { c.Search.PRFDocs = -1 }, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", slog.Int("terms", 3))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "shown", record["msg"])
	assert.Equal(t, float64(3), record["terms"])
}

func TestNewLogger_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{}, &buf)

	logger.Debug("hidden")
	logger.Info("index loaded")

	assert.Contains(t, buf.String(), "msg=\"index loaded\"")
	assert.NotContains(t, buf.String(), "hidden")
}
