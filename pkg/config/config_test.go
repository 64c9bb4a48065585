package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "defaults are valid",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "zero attempts rejected",
			mutate:      func(c *Config) { c.MaxAttempts = 0 },
			expectError: true,
			errorMsg:    "max_attempts must be at least 1",
		},
		{
			name:        "single attempt allowed",
			mutate:      func(c *Config) { c.MaxAttempts = 1 },
			expectError: false,
		},
		{
			name:        "missing model role rejected",
			mutate:      func(c *Config) { c.CodegenModel = "" },
			expectError: true,
			errorMsg:    "model roles must be configured",
		},
		{
			name:        "empty workspace rejected",
			mutate:      func(c *Config) { c.WorkspaceDir = "" },
			expectError: true,
			errorMsg:    "workspace_dir cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultConfigModels(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultPlanningModel, cfg.PlanningModel)
	assert.Equal(t, DefaultCodegenModel, cfg.CodegenModel)
	assert.Equal(t, DefaultValidationModel, cfg.ValidationModel)
	assert.Equal(t, 3, cfg.MaxAttempts)
}

func TestLoadOrInitWritesDefaultsOnFirstRun(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrInit()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, statErr := os.Stat(configPath())
	assert.NoError(t, statErr, "defaults should be persisted for the user to edit")
}

func TestLoadOrInitSurvivesUnwritableHome(t *testing.T) {
	// HOME pointing at a regular file makes the config directory uncreatable
	// for any uid; the run must still proceed with in-memory defaults.
	dir := t.TempDir()
	notADir := filepath.Join(dir, "home")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0644))
	t.Setenv("HOME", notADir)

	cfg, err := LoadOrInit()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
