package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/logvet/internal/config"
)

func TestConfigTemplate_MatchesDefaults(t *testing.T) {
	// Given: the embedded template written to disk
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(ConfigTemplate), 0644))

	// When: loading it
	cfg, err := config.Load(path)
	require.NoError(t, err)

	// Then: it describes the built-in defaults
	defaults := config.NewConfig()
	assert.Equal(t, 0, cfg.System.MaxWorkers)
	assert.Equal(t, defaults.System.Patterns, cfg.System.Patterns)
	assert.Equal(t, defaults.Validation, cfg.Validation)
	assert.Equal(t, defaults.Logging, cfg.Logging)
	assert.Equal(t, defaults.Network, cfg.Network)
}
