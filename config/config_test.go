package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chunking.Size != 800 || cfg.Chunking.Overlap != 150 {
		t.Errorf("unexpected chunking defaults: %+v", cfg.Chunking)
	}
	if cfg.Retrieve.TopK != 5 {
		t.Errorf("unexpected top_k default: %d", cfg.Retrieve.TopK)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" || cfg.Embedding.Dimension != 1536 {
		t.Errorf("unexpected embedding defaults: %+v", cfg.Embedding)
	}
	if cfg.History.Enabled {
		t.Error("history should be disabled by default")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chunking.Size != 800 {
		t.Errorf("expected defaults, got %+v", cfg.Chunking)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studyrag.yaml")
	content := `
corpus:
  provider: dir
  dir: ./docs
chunking:
  size: 400
retrieve:
  top_k: 3
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Corpus.Provider != "dir" || cfg.Corpus.Dir != "./docs" {
		t.Errorf("corpus not overridden: %+v", cfg.Corpus)
	}
	if cfg.Chunking.Size != 400 {
		t.Errorf("chunking.size not overridden: %d", cfg.Chunking.Size)
	}
	if cfg.Chunking.Overlap != 150 {
		t.Errorf("unset field lost its default: %d", cfg.Chunking.Overlap)
	}
	if cfg.Retrieve.TopK != 3 {
		t.Errorf("top_k not overridden: %d", cfg.Retrieve.TopK)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("chunking: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studyrag.yaml")

	cfg := DefaultConfig()
	cfg.Corpus.Provider = "dir"
	cfg.Corpus.Dir = "/data/corpus"
	cfg.Chunking.Size = 600
	cfg.Chunking.Overlap = 100

	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Corpus.Dir != "/data/corpus" || loaded.Chunking.Size != 600 || loaded.Chunking.Overlap != 100 {
		t.Errorf("roundtrip mismatch: %+v", loaded)
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chunking.Size != 800 {
		t.Errorf("expected defaults for empty dir, got %+v", cfg.Chunking)
	}

	content := "retrieve:\n  top_k: 7\n"
	if err := os.WriteFile(filepath.Join(dir, "studyrag.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err = LoadFromDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Retrieve.TopK != 7 {
		t.Errorf("config file not picked up: %d", cfg.Retrieve.TopK)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Corpus.Provider = "dir"
		cfg.Corpus.Dir = "./docs"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg := valid()
	cfg.Chunking.Size = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero chunk size")
	}

	cfg = valid()
	cfg.Chunking.Overlap = cfg.Chunking.Size
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for overlap equal to size")
	}

	cfg = valid()
	cfg.Chunking.Overlap = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative overlap")
	}

	cfg = valid()
	cfg.Corpus.Provider = "gcs"
	cfg.Corpus.Bucket = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for gcs provider without bucket")
	}

	cfg = valid()
	cfg.Corpus.Provider = "s3"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown provider")
	}
}
