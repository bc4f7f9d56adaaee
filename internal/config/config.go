// Package config provides configuration loading and structs for the pdfqa server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Model   ModelConfig   `yaml:"model"`
	QA      QAConfig      `yaml:"qa"`
	Storage StorageConfig `yaml:"storage"`
	CLI     CLIConfig     `yaml:"cli"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ModelConfig holds the extractive question-answering model settings.
type ModelConfig struct {
	// Backend selects the engine: "onnx" (default) or "lexical".
	Backend           string `yaml:"backend"`
	Name              string `yaml:"name"`
	ModelPath         string `yaml:"model_path"`
	VocabPath         string `yaml:"vocab_path"`
	SharedLibraryPath string `yaml:"shared_library_path"`
	LowerCase         bool   `yaml:"lower_case"`
	MaxSeqLength      int    `yaml:"max_seq_length"`
	DocStride         int    `yaml:"doc_stride"`
	MaxQuestionTokens int    `yaml:"max_question_tokens"`
	MaxAnswerTokens   int    `yaml:"max_answer_tokens"`
	UseTokenTypeIDs   bool   `yaml:"use_token_type_ids"`
	// CacheSize is the number of inference results kept in memory; negative disables the cache.
	CacheSize int `yaml:"cache_size"`
}

// QAConfig holds answer service settings.
type QAConfig struct {
	MaxContextLength int `yaml:"max_context_length"`
}

// StorageConfig holds paths for uploads and the answer log.
type StorageConfig struct {
	UploadsDir   string `yaml:"uploads_dir"`
	DatabasePath string `yaml:"database_path"`
}

// CLIConfig holds interactive session settings.
type CLIConfig struct {
	DefaultPDFPath string `yaml:"default_pdf_path"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
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
	cfg.Model.ModelPath = expandPath(cfg.Model.ModelPath, configDir)
	cfg.Model.VocabPath = expandPath(cfg.Model.VocabPath, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	return &cfg, nil
}

// Default returns a config with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
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
