package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the studyrag service.
type Config struct {
	Corpus     CorpusConfig     `yaml:"corpus"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Retrieve   RetrieveConfig   `yaml:"retrieve"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	History    HistoryConfig    `yaml:"history"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CorpusConfig describes where documents live.
type CorpusConfig struct {
	Provider string   `yaml:"provider"` // "gcs" or "dir"
	Bucket   string   `yaml:"bucket"`   // GCS bucket name
	Prefix   string   `yaml:"prefix"`   // key prefix, e.g. "documents/"
	Dir      string   `yaml:"dir"`      // local directory for the "dir" provider
	Includes []string `yaml:"includes"` // glob patterns of keys to index
	Excludes []string `yaml:"excludes"`
}

// ChunkingConfig holds text windowing parameters.
type ChunkingConfig struct {
	Size    int `yaml:"size"`    // window size in characters
	Overlap int `yaml:"overlap"` // shared characters between consecutive windows
}

// RetrieveConfig holds retrieval parameters.
type RetrieveConfig struct {
	TopK int `yaml:"top_k"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"` // environment variable holding the API key
	BaseURL   string `yaml:"base_url"`    // empty means the provider default
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// GenerationConfig holds text-generation provider configuration.
type GenerationConfig struct {
	Model       string  `yaml:"model"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	BaseURL     string  `yaml:"base_url"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// HistoryConfig controls the question/answer history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Provider: "gcs",
			Includes: []string{"**/*.pdf", "**/*.txt", "**/*.md", "**/*.csv"},
			Excludes: []string{},
		},
		Chunking: ChunkingConfig{
			Size:    800,
			Overlap: 150,
		},
		Retrieve: RetrieveConfig{
			TopK: 5,
		},
		Embedding: EmbeddingConfig{
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
			BatchSize: 100,
		},
		Generation: GenerationConfig{
			Model:       "gpt-4o-mini",
			APIKeyEnv:   "OPENAI_API_KEY",
			MaxTokens:   512,
			Temperature: 0.2,
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    "history.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks cross-field constraints that yaml decoding cannot.
func (c *Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking.size must be positive")
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking.overlap must be in [0, chunking.size): got %d with size %d",
			c.Chunking.Overlap, c.Chunking.Size)
	}
	switch c.Corpus.Provider {
	case "gcs":
		if c.Corpus.Bucket == "" {
			return fmt.Errorf("corpus.bucket is required for the gcs provider")
		}
	case "dir":
		if c.Corpus.Dir == "" {
			return fmt.Errorf("corpus.dir is required for the dir provider")
		}
	default:
		return fmt.Errorf("unknown corpus.provider: %q", c.Corpus.Provider)
	}
	return nil
}

// Load loads configuration from a YAML file, starting from defaults.
// A missing file returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for studyrag.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "studyrag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
