package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/codemon/internal/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		wantErr string
	}{
		{name: "json to stderr", cfg: config.LoggingConfig{Level: "info", Format: "json", Output: "stderr"}},
		{name: "console default output", cfg: config.LoggingConfig{Level: "debug", Format: "console"}},
		{name: "warn", cfg: config.LoggingConfig{Level: "warn", Format: "json"}},
		{name: "error", cfg: config.LoggingConfig{Level: "error", Format: "console"}},
		{name: "unknown level", cfg: config.LoggingConfig{Level: "trace", Format: "json"}, wantErr: "parsing log level"},
		{name: "unknown format", cfg: config.LoggingConfig{Level: "info", Format: "xml"}, wantErr: `unknown log format "xml"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNewLogger_FileOutputFiltersByLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codemon.log")
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Debug("random draw")
	logger.Info("battle started")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "battle started")
	assert.Contains(t, string(data), `"logger":"codemon"`)
	assert.NotContains(t, string(data), "random draw")
}
