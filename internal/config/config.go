// Package config loads and saves the application configuration.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ModelConfig configures the chat completion client.
type ModelConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Name        string  `yaml:"name"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"` // tfidf or openai
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// OpenAIEmbedderConfig holds settings for the remote embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// IndexConfig configures textbook chunking.
type IndexConfig struct {
	ChunkSize int `yaml:"chunk_size"`
}

// RetrievalConfig configures top-k lookup.
type RetrievalConfig struct {
	TopK     int     `yaml:"top_k"`
	MinScore float64 `yaml:"min_score"`
}

// RunConfig configures the parallel runner.
type RunConfig struct {
	Workers       int     `yaml:"workers"`
	DelaySecs     float64 `yaml:"delay_secs"`
	MaxAttempts   int     `yaml:"max_attempts"`
	RetryBaseSecs float64 `yaml:"retry_base_secs"`
	RetryCapSecs  float64 `yaml:"retry_cap_secs"`
}

// EvalConfig configures answer tolerance.
type EvalConfig struct {
	EpsilonAbs float64 `yaml:"epsilon_abs"`
	EpsilonRel float64 `yaml:"epsilon_rel"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Model     ModelConfig     `yaml:"model"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Index     IndexConfig     `yaml:"index"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Run       RunConfig       `yaml:"run"`
	Eval      EvalConfig      `yaml:"eval"`
}

// Load reads a config from path. A missing file yields the defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./financeqa.yaml first, then
// ~/.config/financeqa/config.yaml. If neither exists, it writes the
// defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "financeqa.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "financeqa", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Model.APIKeyEnv == "" {
		cfg.Model.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = "gpt-4o"
	}
	if cfg.Model.Temperature == 0 {
		cfg.Model.Temperature = 0.1
	}
	if cfg.Model.MaxTokens == 0 {
		cfg.Model.MaxTokens = 1200
	}
	if cfg.Model.TimeoutSecs == 0 {
		cfg.Model.TimeoutSecs = 120
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIEmbedderConfig{}
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = cfg.Model.APIKeyEnv
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Index.ChunkSize == 0 {
		cfg.Index.ChunkSize = 1500
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 2
	}
	if cfg.Retrieval.MinScore == 0 {
		cfg.Retrieval.MinScore = 0.3
	}
	if cfg.Run.Workers == 0 {
		cfg.Run.Workers = 2
	}
	if cfg.Run.MaxAttempts == 0 {
		cfg.Run.MaxAttempts = 5
	}
	if cfg.Run.RetryBaseSecs == 0 {
		cfg.Run.RetryBaseSecs = 1
	}
	if cfg.Run.RetryCapSecs == 0 {
		cfg.Run.RetryCapSecs = 60
	}
	if cfg.Eval.EpsilonAbs == 0 {
		cfg.Eval.EpsilonAbs = 0.005
	}
	if cfg.Eval.EpsilonRel == 0 {
		cfg.Eval.EpsilonRel = 0.01
	}
}
