package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default model assignments per pipeline role. All are local Ollama models.
const (
	DefaultPlanningModel   = "qwen3:14b"
	DefaultCodegenModel    = "codellama:13b"
	DefaultValidationModel = "gemma3:latest"
)

// Config holds everything the generation pipeline needs to run.
type Config struct {
	PlanningModel   string `json:"planning_model"`
	CodegenModel    string `json:"codegen_model"`
	ValidationModel string `json:"validation_model"`

	WorkspaceDir     string  `json:"workspace_dir"`
	MaxAttempts      int     `json:"max_attempts"`
	Temperature      float64 `json:"temperature"`
	ToolchainTimeout int     `json:"toolchain_timeout_seconds"`
	LLMTimeout       int     `json:"llm_timeout_seconds"`

	// Internal use, not saved to config.
	Quiet bool `json:"-"`
}

// DefaultConfig returns a config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		PlanningModel:    DefaultPlanningModel,
		CodegenModel:     DefaultCodegenModel,
		ValidationModel:  DefaultValidationModel,
		WorkspaceDir:     "workspace",
		MaxAttempts:      3,
		Temperature:      0.2,
		ToolchainTimeout: 120,
		LLMTimeout:       600,
	}
}

// configPath returns the on-disk config location, ~/.curlgen/config.json.
func configPath() string {
	return filepath.Join(os.Getenv("HOME"), ".curlgen", "config.json")
}

// LoadOrInit loads the config file, writing defaults on first run so the file
// is there for the user to edit.
func LoadOrInit() (*Config, error) {
	path := configPath()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := DefaultConfig()
		// Still usable in-memory if the write fails, but say so.
		if saveErr := Save(cfg); saveErr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not write default config to %s: %v\n", path, saveErr)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to ~/.curlgen/config.json.
func Save(cfg *Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks invariants the pipeline depends on.
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.PlanningModel == "" || c.CodegenModel == "" || c.ValidationModel == "" {
		return fmt.Errorf("all three model roles must be configured")
	}
	if c.WorkspaceDir == "" {
		return fmt.Errorf("workspace_dir cannot be empty")
	}
	return nil
}

// ToolchainTimeoutDuration returns the toolchain timeout as a duration.
func (c *Config) ToolchainTimeoutDuration() time.Duration {
	return time.Duration(c.ToolchainTimeout) * time.Second
}

// LLMTimeoutDuration returns the completion timeout as a duration.
func (c *Config) LLMTimeoutDuration() time.Duration {
	return time.Duration(c.LLMTimeout) * time.Second
}
