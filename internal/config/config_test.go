package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func validConfig() *Config {
	return &Config{
		LogLevel:   "info",
		SampleRate: 44100,
		BufferSize: "100ms",
		Charset:    "shift_jis",
		CacheSize:  16,
		Workers:    2,
	}
}

// TestLoadConfig tests the LoadConfig function.
func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		filename      string
		content       string
		expectError   bool
		expectedError string
	}{
		{
			name:     "valid config file",
			filename: "valid.yaml",
			content: `
log_level: debug
start_dir: /music
loop_playlist: true
auto_advance: false
sample_rate: 48000
buffer_size: 250ms
charset: windows-1252
workers: 8
`,
		},
		{
			name:          "non-existent explicit file",
			filename:      "missing.yaml",
			expectError:   true,
			expectedError: "failed to read config from file",
		},
		{
			name:          "invalid yaml",
			filename:      "invalid.yaml",
			content:       "invalid: yaml: content: [unclosed\n",
			expectError:   true,
			expectedError: "failed to read config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), tt.filename)
			if tt.content != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			}

			cfg, err := LoadConfig(path)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "debug", cfg.LogLevel)
			assert.Equal(t, "/music", cfg.StartDir)
			assert.True(t, cfg.LoopPlaylist)
			assert.False(t, cfg.AutoAdvance)
			assert.Equal(t, 48000, cfg.SampleRate)
			assert.Equal(t, 8, cfg.Workers)
			// Not in the file: default.
			assert.Equal(t, 256, cfg.CacheSize)

			require.NoError(t, ValidateConfig(cfg))
			assert.Equal(t, zapcore.DebugLevel, cfg.ParsedLogLevel)
			assert.Equal(t, 250*time.Millisecond, cfg.ParsedBufferSize)
			assert.NotNil(t, cfg.ParsedCharset)
		})
	}
}

// TestValidateConfig tests the ValidateConfig function.
func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, ErrUnknownLogLevel},
		{"sample rate too low", func(c *Config) { c.SampleRate = 100 }, ErrInvalidSampleRate},
		{"sample rate too high", func(c *Config) { c.SampleRate = 400000 }, ErrInvalidSampleRate},
		{"zero buffer", func(c *Config) { c.BufferSize = "0s" }, ErrInvalidBufferSize},
		{"unknown charset", func(c *Config) { c.Charset = "klingon" }, ErrUnknownCharset},
		{"zero cache", func(c *Config) { c.CacheSize = 0 }, ErrInvalidCacheSize},
		{"zero workers", func(c *Config) { c.Workers = 0 }, ErrInvalidWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, 100*time.Millisecond, cfg.ParsedBufferSize)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateConfigBadDuration(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.BufferSize = "soon"
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse buffer size")
}

func TestDefaultConfigPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultConfigFilename, filepath.Base(DefaultConfigPath()))
}
