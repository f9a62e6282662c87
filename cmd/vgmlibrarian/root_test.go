package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dewi-tim/vgmlibrarian/internal/config"
)

const testBaseConfigContent = `
log_level: "info"
log_file: "/config/vgmlibrarian.log"
temp_dir: "/config/tmp"
loop_playlist: false
auto_advance: true
sample_rate: 44100
buffer_size: "100ms"
charset: "shift_jis"
cache_size: 64
workers: 4
`

// TestFlagOverrides tests that command-line flags override configuration file values.
func TestFlagOverrides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		flags          map[string]string
		expectedConfig func(*testing.T, *config.Config)
	}{
		{
			name:  "no flags - use config values",
			flags: map[string]string{},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "/config/tmp", cfg.TempDir)
				assert.False(t, cfg.LoopPlaylist)
				assert.True(t, cfg.AutoAdvance)
				assert.Equal(t, 44100, cfg.SampleRate)
				assert.Equal(t, 100*time.Millisecond, cfg.ParsedBufferSize)
				assert.Equal(t, 4, cfg.Workers)
			},
		},
		{
			name: "loop flag only",
			flags: map[string]string{
				"loop": "true",
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.True(t, cfg.LoopPlaylist)
				assert.True(t, cfg.AutoAdvance)
				assert.Equal(t, "/config/tmp", cfg.TempDir)
			},
		},
		{
			name: "auto-advance explicit false",
			flags: map[string]string{
				"auto-advance": "false",
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.False(t, cfg.AutoAdvance)
			},
		},
		{
			name: "audio flags",
			flags: map[string]string{
				"sample-rate": "48000",
				"buffer-size": "250ms",
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, 48000, cfg.SampleRate)
				assert.Equal(t, 250*time.Millisecond, cfg.ParsedBufferSize)
			},
		},
		{
			name: "all flags - override everything",
			flags: map[string]string{
				"log-level":    "debug",
				"log-file":     "/flag/log",
				"temp-dir":     "/flag/tmp",
				"loop":         "true",
				"auto-advance": "false",
				"sample-rate":  "22050",
				"buffer-size":  "50ms",
				"charset":      "windows-1252",
				"cache-size":   "8",
				"workers":      "1",
			},
			expectedConfig: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "/flag/log", cfg.LogFile)
				assert.Equal(t, "/flag/tmp", cfg.TempDir)
				assert.True(t, cfg.LoopPlaylist)
				assert.False(t, cfg.AutoAdvance)
				assert.Equal(t, 22050, cfg.SampleRate)
				assert.Equal(t, 50*time.Millisecond, cfg.ParsedBufferSize)
				assert.Equal(t, "windows-1252", cfg.Charset)
				assert.Equal(t, 8, cfg.CacheSize)
				assert.Equal(t, 1, cfg.Workers)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			configPath := filepath.Join(t.TempDir(), "test-config.yaml")
			require.NoError(t, os.WriteFile(configPath, []byte(testBaseConfigContent), 0o644))

			cfg, err := config.LoadConfig(configPath)
			require.NoError(t, err)

			testCmd := &cobra.Command{Use: "test"}
			registerConfigFlags(testCmd.Flags())

			for name, value := range tt.flags {
				require.NoError(t, testCmd.Flags().Set(name, value), "failed to set flag %s", name)
			}

			require.NoError(t, bindFlagsToConfig(testCmd.Flags(), cfg))
			tt.expectedConfig(t, cfg)
		})
	}
}

func TestFlagOverridesValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flag  string
		value string
		err   error
	}{
		{name: "bad log level", flag: "log-level", value: "loud", err: config.ErrUnknownLogLevel},
		{name: "sample rate too low", flag: "sample-rate", value: "100", err: config.ErrInvalidSampleRate},
		{name: "negative buffer", flag: "buffer-size", value: "-5ms", err: config.ErrInvalidBufferSize},
		{name: "zero workers", flag: "workers", value: "0", err: config.ErrInvalidWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			configPath := filepath.Join(t.TempDir(), "test-config.yaml")
			require.NoError(t, os.WriteFile(configPath, []byte(testBaseConfigContent), 0o644))

			cfg, err := config.LoadConfig(configPath)
			require.NoError(t, err)

			testCmd := &cobra.Command{Use: "test"}
			registerConfigFlags(testCmd.Flags())
			require.NoError(t, testCmd.Flags().Set(tt.flag, tt.value))

			require.ErrorIs(t, bindFlagsToConfig(testCmd.Flags(), cfg), tt.err)
		})
	}
}

func TestCommandTree(t *testing.T) {
	t.Parallel()

	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "info")
	assert.Contains(t, names, "play")

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("loop"))
	assert.NotNil(t, infoCmd.Flags().Lookup("output"))
}
