// Package config loads vgmlibrarian settings from an optional YAML file,
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/encoding"

	"github.com/dewi-tim/vgmlibrarian/internal/logger"
	"github.com/dewi-tim/vgmlibrarian/internal/spc"
)

// Config holds all configuration settings.
type Config struct {
	// LogLevel is the logging verbosity.
	LogLevel string `mapstructure:"log_level"`
	// LogFile receives log output while the TUI owns the terminal.
	LogFile string `mapstructure:"log_file"`
	// StartDir is where the file browser opens.
	StartDir string `mapstructure:"start_dir"`
	// TempDir holds decompressed and extracted tracks during playback.
	// Empty means the system default.
	TempDir string `mapstructure:"temp_dir"`
	// LoopPlaylist re-appends every played track to the queue.
	LoopPlaylist bool `mapstructure:"loop_playlist"`
	// AutoAdvance starts the next queued track when one finishes.
	AutoAdvance bool `mapstructure:"auto_advance"`
	// SampleRate of the audio output in Hz.
	SampleRate int `mapstructure:"sample_rate"`
	// BufferSize of the audio output, as a duration such as "100ms".
	BufferSize string `mapstructure:"buffer_size"`
	// Charset of SPC tag text.
	Charset string `mapstructure:"charset"`
	// CacheSize is the number of metadata records kept in memory.
	CacheSize int `mapstructure:"cache_size"`
	// Workers bounds concurrent metadata extraction.
	Workers int `mapstructure:"workers"`

	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedBufferSize is the parsed output buffer duration.
	ParsedBufferSize time.Duration
	// ParsedCharset is the decoder for SPC tag text.
	ParsedCharset encoding.Encoding
}

const (
	// AppName names the config directory and environment prefix.
	AppName = "vgmlibrarian"
	// DefaultConfigFilename is the file looked up in the user config dir.
	DefaultConfigFilename = "config.yaml"

	minSampleRate = 8000
	maxSampleRate = 192000
)

// Static error definitions.
var (
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidSampleRate indicates a sample rate outside the supported range.
	ErrInvalidSampleRate = errors.New("invalid sample_rate")
	// ErrInvalidBufferSize indicates a non-positive buffer duration.
	ErrInvalidBufferSize = errors.New("buffer_size must be positive")
	// ErrUnknownCharset indicates a charset name that has no decoder.
	ErrUnknownCharset = errors.New("unknown charset")
	// ErrInvalidCacheSize indicates a non-positive cache size.
	ErrInvalidCacheSize = errors.New("cache_size must be a positive integer")
	// ErrInvalidWorkers indicates a non-positive worker count.
	ErrInvalidWorkers = errors.New("workers must be a positive integer")
)

// DefaultConfigPath returns the config file location under the user's
// config directory.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFilename
	}
	return filepath.Join(dir, AppName, DefaultConfigFilename)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", filepath.Join(os.TempDir(), AppName+".log"))
	v.SetDefault("start_dir", ".")
	v.SetDefault("temp_dir", "")
	v.SetDefault("loop_playlist", false)
	v.SetDefault("auto_advance", true)
	v.SetDefault("sample_rate", 44100)
	v.SetDefault("buffer_size", "100ms")
	v.SetDefault("charset", spc.DefaultCharset)
	v.SetDefault("cache_size", 256)
	v.SetDefault("workers", 4)
}

// LoadConfig reads configuration from filename, or from DefaultConfigPath
// when filename is empty. A missing default file is not an error; a missing
// explicit file is. VGMLIBRARIAN_* environment variables override the file.
func LoadConfig(filename string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(AppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := filename != ""
	if !explicit {
		filename = DefaultConfigPath()
	}
	v.SetConfigFile(filename)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
func ValidateConfig(cfg *Config) error {
	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}
	cfg.ParsedLogLevel = level

	if cfg.SampleRate < minSampleRate || cfg.SampleRate > maxSampleRate {
		return fmt.Errorf("%w: must be between %d and %d", ErrInvalidSampleRate, minSampleRate, maxSampleRate)
	}

	var err error
	cfg.ParsedBufferSize, err = time.ParseDuration(cfg.BufferSize)
	if err != nil {
		return fmt.Errorf("failed to parse buffer size: %w", err)
	}
	if cfg.ParsedBufferSize <= 0 {
		return ErrInvalidBufferSize
	}

	cfg.ParsedCharset, err = spc.Charset(cfg.Charset)
	if err != nil {
		return fmt.Errorf("%w: '%s'", ErrUnknownCharset, cfg.Charset)
	}

	if cfg.CacheSize <= 0 {
		return ErrInvalidCacheSize
	}
	if cfg.Workers <= 0 {
		return ErrInvalidWorkers
	}

	return nil
}
