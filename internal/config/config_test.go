package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("debug: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Debug {
		t.Error("Debug not parsed")
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Retrieval.MaxReferences != 3 {
		t.Errorf("MaxReferences = %d, want 3", cfg.Retrieval.MaxReferences)
	}
	if cfg.Retrieval.Weights.VectorWeight != 0.40 || cfg.Retrieval.Weights.MinScore != 0.25 {
		t.Errorf("weights defaults = %+v", cfg.Retrieval.Weights)
	}
	if cfg.Generation.Model != "llama3" || cfg.Generation.APIKeyEnv != "ASKUNI_API_KEY" {
		t.Errorf("generation defaults = %+v", cfg.Generation)
	}
	if cfg.Validation.SemesterFees["cse"] != 70000 {
		t.Errorf("fee table default missing: %+v", cfg.Validation.SemesterFees)
	}

	// Relative "./" paths resolve against the config directory.
	if !strings.HasPrefix(cfg.Storage.DatasetDir, dir) {
		t.Errorf("DatasetDir = %q, want under %q", cfg.Storage.DatasetDir, dir)
	}
	if !strings.HasPrefix(cfg.Storage.LedgerPath, dir) {
		t.Errorf("LedgerPath = %q, want under %q", cfg.Storage.LedgerPath, dir)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: 0.0.0.0
  port: 9000
storage:
  dataset_dir: /var/lib/askuni/dataset
retrieval:
  max_references: 5
  weights:
    min_score: 0.3
generation:
  enabled: true
  base_url: http://localhost:11434/v1
  model: mistral
validation:
  semester_fees:
    cse: 72000
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9000 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Storage.DatasetDir != "/var/lib/askuni/dataset" {
		t.Errorf("absolute DatasetDir rewritten: %q", cfg.Storage.DatasetDir)
	}
	if cfg.Retrieval.MaxReferences != 5 {
		t.Errorf("MaxReferences = %d", cfg.Retrieval.MaxReferences)
	}
	if cfg.Retrieval.Weights.MinScore != 0.3 {
		t.Errorf("MinScore = %v", cfg.Retrieval.Weights.MinScore)
	}
	// Unset weights still default.
	if cfg.Retrieval.Weights.VectorWeight != 0.40 {
		t.Errorf("VectorWeight = %v, want default", cfg.Retrieval.Weights.VectorWeight)
	}
	if !cfg.Generation.Enabled || cfg.Generation.Model != "mistral" {
		t.Errorf("generation = %+v", cfg.Generation)
	}
	// An explicit fee table replaces the default wholesale.
	if cfg.Validation.SemesterFees["cse"] != 72000 {
		t.Errorf("fees = %+v", cfg.Validation.SemesterFees)
	}
	if _, ok := cfg.Validation.SemesterFees["eee"]; ok {
		t.Error("default fee table merged into explicit one")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
