package trecsearch

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the engine configuration.
type Config struct {
	CollectionPath  string        `yaml:"collectionPath"`
	IndexPath       string        `yaml:"indexPath"`
	StopwordPath    string        `yaml:"stopwordPath"`
	Stemmer         string        `yaml:"stemmer"`
	RemoveStopwords bool          `yaml:"removeStopwords"`
	Search          SearchConfig  `yaml:"search"`
	Logging         LoggingConfig `yaml:"logging"`
	Server          ServerConfig  `yaml:"server"`
}

// SearchConfig holds the TF-IDF query defaults.
type SearchConfig struct {
	TopDocs        int `yaml:"topDocs"`
	SuggestedTerms int `yaml:"suggestedTerms"`
	PRFDocs        int `yaml:"prfDocs"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig holds the HTTP listener settings of the serving glue.
type ServerConfig struct {
	Port           int    `yaml:"port"`
	AllowedOrigin  string `yaml:"allowedOrigin"`
	MetricsEnabled bool   `yaml:"metricsEnabled"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() Config {
	return Config{
		CollectionPath:  "collections/trec.sample.xml",
		IndexPath:       "index.txt",
		StopwordPath:    "stop_words.txt",
		Stemmer:         StemmerPorter,
		RemoveStopwords: true,
		Search: SearchConfig{
			TopDocs:        150,
			SuggestedTerms: 5,
			PRFDocs:        1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Port:           5050,
			AllowedOrigin:  "http://localhost:3000",
			MetricsEnabled: true,
		},
	}
}

// LoadConfig reads a YAML config file (if path is not empty) over the
// defaults and applies TS_* environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with
func (c Config) Validate() error {
	var problems []string
	if c.CollectionPath == "" {
		problems = append(problems, "collectionPath is empty")
	}
	if c.IndexPath == "" {
		problems = append(problems, "indexPath is empty")
	}
	if c.StopwordPath == "" {
		problems = append(problems, "stopwordPath is empty")
	}
	if _, err := NewStemmer(c.Stemmer); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Search.TopDocs < 0 || c.Search.SuggestedTerms < 0 || c.Search.PRFDocs < 0 {
		problems = append(problems, "search limits must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// applyEnvOverrides reads TS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TS_COLLECTION_PATH"); v != "" {
		cfg.CollectionPath = v
	}
	if v := os.Getenv("TS_INDEX_PATH"); v != "" {
		cfg.IndexPath = v
	}
	if v := os.Getenv("TS_STOPWORD_PATH"); v != "" {
		cfg.StopwordPath = v
	}
	if v := os.Getenv("TS_STEMMER"); v != "" {
		cfg.Stemmer = v
	}
	if v := os.Getenv("TS_REMOVE_STOPWORDS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RemoveStopwords = b
		}
	}
	if v := os.Getenv("TS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("TS_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
}
