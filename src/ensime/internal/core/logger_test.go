package core

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	uberconfig "go.uber.org/config"
	"go.uber.org/zap/zapcore"
)

func loggingProvider(t *testing.T, cfg LoggingConfig) uberconfig.Provider {
	provider, err := uberconfig.NewStaticProvider(map[string]interface{}{
		"logging": cfg,
	})
	require.NoError(t, err)
	return provider
}

func TestNewSugaredLogger(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "client.log")
	tests := []struct {
		name    string
		cfg     LoggingConfig
		wantErr bool
	}{
		{
			name: "json to file",
			cfg:  LoggingConfig{Level: "info", Encoding: "json", OutputPaths: []string{logFile}},
		},
		{
			name: "console development",
			cfg:  LoggingConfig{Level: "debug", Development: true, Encoding: "console", OutputPaths: []string{"stderr"}},
		},
		{
			name: "unwritable path degrades to stderr",
			cfg:  LoggingConfig{Level: "info", Encoding: "json", OutputPaths: []string{"/nonexistent/dir/client.log"}},
		},
		{
			name:    "bad level",
			cfg:     LoggingConfig{Level: "shouting", Encoding: "json"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewSugaredLogger(loggingProvider(t, tt.cfg))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			logger.Infow("probe", "key", "value")
			_ = logger.Sync()
		})
	}
}

func TestDebugEnvOverridesLevel(t *testing.T) {
	t.Setenv("ENSIME_DEBUG", "1")

	logger, err := NewSugaredLogger(loggingProvider(t, LoggingConfig{
		Level:       "error",
		Encoding:    "json",
		OutputPaths: []string{filepath.Join(t.TempDir(), "client.log")},
	}))
	require.NoError(t, err)
	assert.True(t, logger.Desugar().Core().Enabled(zapcore.DebugLevel))
}
