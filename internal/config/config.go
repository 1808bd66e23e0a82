// Package config provides configuration loading and structs for the askuni server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/campushq/askuni/internal/ranking"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Generation GenerationConfig `yaml:"generation"`
	Validation ValidationConfig `yaml:"validation"`
	Watch      WatchConfig      `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the dataset directory, the instruction
// collection, and the feedback ledger database.
type StorageConfig struct {
	DatasetDir      string `yaml:"dataset_dir"`
	InstructionFile string `yaml:"instruction_file"`
	LedgerPath      string `yaml:"ledger_path"`
}

// RetrievalConfig holds scoring weights and result shaping.
type RetrievalConfig struct {
	Weights       ranking.Weights `yaml:"weights"`
	MaxReferences int             `yaml:"max_references"`
}

// GenerationConfig holds the text-completion fallback settings. BaseURL may
// point at any OpenAI-compatible endpoint (e.g. a local Ollama server); the
// API key is read from the named environment variable.
type GenerationConfig struct {
	Enabled   bool   `yaml:"enabled"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// ValidationConfig holds the known-correct per-semester fees (BDT) used by
// the calling layer's fee sanity check. Keys are program names as they
// appear in questions.
type ValidationConfig struct {
	SemesterFees map[string]int `yaml:"semester_fees"`
}

// WatchConfig holds dataset watch settings.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads and parses the config file at path, expands paths, and applies
// defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatasetDir = expandPath(cfg.Storage.DatasetDir, configDir)
	cfg.Storage.InstructionFile = expandPath(cfg.Storage.InstructionFile, configDir)
	cfg.Storage.LedgerPath = expandPath(cfg.Storage.LedgerPath, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" {
		return path
	}
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
