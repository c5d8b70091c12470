package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every configuration key when it is read from
	// the environment.
	EnvPrefix = "DOCXTEXT"

	// EnvMaxFileBytes is the environment variable name for the input size limit.
	EnvMaxFileBytes = "DOCXTEXT_MAX_FILE_BYTES"

	// EnvMaxEntryBytes is the environment variable name for the limit on the
	// decompressed document body.
	EnvMaxEntryBytes = "DOCXTEXT_MAX_ENTRY_BYTES"

	// EnvFetchTimeout is the environment variable name for the HTTP fetch timeout.
	EnvFetchTimeout = "DOCXTEXT_FETCH_TIMEOUT"

	// EnvLogLevel is the environment variable name for the log level.
	EnvLogLevel = "DOCXTEXT_LOG_LEVEL"

	// DefaultMaxFileBytes is the default maximum accepted file size (50 MiB).
	DefaultMaxFileBytes int64 = 50 << 20

	// DefaultMaxEntryBytes is the default maximum size of word/document.xml
	// once decompressed (200 MiB).
	DefaultMaxEntryBytes int64 = 200 << 20

	// DefaultFetchTimeout bounds a single HTTP download.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultLogLevel is used when no valid level is configured.
	DefaultLogLevel = "info"
)

// viper keys; the env variable is EnvPrefix + "_" + upper-cased key.
const (
	keyMaxFileBytes  = "max_file_bytes"
	keyMaxEntryBytes = "max_entry_bytes"
	keyFetchTimeout  = "fetch_timeout"
	keyLogLevel      = "log_level"
)

// Config holds runtime configuration sourced from defaults, an optional YAML
// file and environment variables, in increasing order of precedence.
type Config struct {
	MaxFileSizeBytes int64
	MaxEntryBytes    int64
	FetchTimeout     time.Duration
	LogLevel         string
}

// MaxFileSizeMB returns the configured limit in whole megabytes.
func (c *Config) MaxFileSizeMB() int64 {
	return c.MaxFileSizeBytes >> 20
}

// SlogLevel maps LogLevel onto a slog.Level. Unknown names map to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads Config from environment variables, falling back to defaults for
// missing or invalid values.
func Load() *Config {
	return fromViper(newViper())
}

// LoadFile is like Load but first reads the YAML file at path. An empty path
// behaves exactly like Load. Environment variables override file values.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return fromViper(v), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(keyMaxFileBytes, DefaultMaxFileBytes)
	v.SetDefault(keyMaxEntryBytes, DefaultMaxEntryBytes)
	v.SetDefault(keyFetchTimeout, DefaultFetchTimeout.String())
	v.SetDefault(keyLogLevel, DefaultLogLevel)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		MaxFileSizeBytes: positiveInt(v.GetString(keyMaxFileBytes), DefaultMaxFileBytes),
		MaxEntryBytes:    positiveInt(v.GetString(keyMaxEntryBytes), DefaultMaxEntryBytes),
		FetchTimeout:     positiveDuration(v.GetString(keyFetchTimeout), DefaultFetchTimeout),
		LogLevel:         logLevel(v.GetString(keyLogLevel)),
	}
}

func positiveInt(s string, def int64) int64 {
	if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil && n > 0 {
		return n
	}
	return def
}

func positiveDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil && d > 0 {
		return d
	}
	return def
}

func logLevel(s string) string {
	switch l := strings.ToLower(strings.TrimSpace(s)); l {
	case "debug", "info", "warn", "warning", "error":
		return l
	default:
		return DefaultLogLevel
	}
}
