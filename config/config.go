// Package config loads the lloydd service configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then a
// .env file, then LLOYD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/lloyd"
	"github.com/hupe1980/lloyd/codec"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LLOYD_"

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Sessions SessionConfig `yaml:"sessions"`
	Limits   LimitsConfig  `yaml:"limits"`
	Log      LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	CORSOrigins     string        `yaml:"cors_origins"`
	BodyLimit       int           `yaml:"body_limit"`
	Codec           string        `yaml:"codec"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SessionConfig configures the step-session registry and request defaults.
type SessionConfig struct {
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	MaxIterations   int           `yaml:"max_iterations"`
	Tolerance       float64       `yaml:"tolerance"`
}

// LimitsConfig bounds request sizes and compute.
type LimitsConfig struct {
	MaxPoints         int     `yaml:"max_points"`
	MaxDim            int     `yaml:"max_dim"`
	MaxClusters       int     `yaml:"max_clusters"`
	MaxConcurrentFits int64   `yaml:"max_concurrent_fits"`
	MaxInflightBytes  int64   `yaml:"max_inflight_bytes"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":3000",
			CORSOrigins:     "*",
			BodyLimit:       10 << 20,
			Codec:           codec.Default.Name(),
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Sessions: SessionConfig{
			TTL:             30 * time.Minute,
			CleanupInterval: 5 * time.Minute,
			MaxIterations:   lloyd.DefaultMaxIterations,
			Tolerance:       lloyd.DefaultTolerance,
		},
		Limits: LimitsConfig{
			MaxPoints:         100_000,
			MaxDim:            1_024,
			MaxClusters:       1_000,
			MaxConcurrentFits: 4,
			MaxInflightBytes:  256 << 20,
			RequestsPerSecond: 50,
			Burst:             100,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), the given .env files (".env" if none; missing files are
// ignored) and the process environment. The result is validated.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides fields from LLOYD_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, parse func(string) error) {
		if v, ok := lookup(EnvPrefix + name); ok {
			if err := parse(v); err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
			}
		}
	}
	intVar := func(dst *int) func(string) error {
		return func(s string) (err error) {
			*dst, err = strconv.Atoi(s)
			return err
		}
	}
	int64Var := func(dst *int64) func(string) error {
		return func(s string) (err error) {
			*dst, err = strconv.ParseInt(s, 10, 64)
			return err
		}
	}
	floatVar := func(dst *float64) func(string) error {
		return func(s string) (err error) {
			*dst, err = strconv.ParseFloat(s, 64)
			return err
		}
	}
	durVar := func(dst *time.Duration) func(string) error {
		return func(s string) (err error) {
			*dst, err = time.ParseDuration(s)
			return err
		}
	}

	str("ADDR", &c.Server.Addr)
	str("CORS_ORIGINS", &c.Server.CORSOrigins)
	str("CODEC", &c.Server.Codec)
	num("BODY_LIMIT", intVar(&c.Server.BodyLimit))
	num("READ_TIMEOUT", durVar(&c.Server.ReadTimeout))
	num("WRITE_TIMEOUT", durVar(&c.Server.WriteTimeout))
	num("SHUTDOWN_TIMEOUT", durVar(&c.Server.ShutdownTimeout))

	num("SESSION_TTL", durVar(&c.Sessions.TTL))
	num("SESSION_CLEANUP_INTERVAL", durVar(&c.Sessions.CleanupInterval))
	num("MAX_ITERATIONS", intVar(&c.Sessions.MaxIterations))
	num("TOLERANCE", floatVar(&c.Sessions.Tolerance))

	num("MAX_POINTS", intVar(&c.Limits.MaxPoints))
	num("MAX_DIM", intVar(&c.Limits.MaxDim))
	num("MAX_CLUSTERS", intVar(&c.Limits.MaxClusters))
	num("MAX_CONCURRENT_FITS", int64Var(&c.Limits.MaxConcurrentFits))
	num("MAX_INFLIGHT_BYTES", int64Var(&c.Limits.MaxInflightBytes))
	num("REQUESTS_PER_SECOND", floatVar(&c.Limits.RequestsPerSecond))
	num("BURST", intVar(&c.Limits.Burst))

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	return errors.Join(errs...)
}

// Validate rejects unusable values.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Server.Addr != "", "server.addr must not be empty")
	check(c.Server.BodyLimit > 0, "server.body_limit must be positive, got %d", c.Server.BodyLimit)
	_, codecErr := codec.ByName(c.Server.Codec)
	check(codecErr == nil, "server.codec: %v", codecErr)
	check(c.Server.ShutdownTimeout >= 0, "server.shutdown_timeout must not be negative")

	check(c.Sessions.TTL > 0, "sessions.ttl must be positive, got %s", c.Sessions.TTL)
	check(c.Sessions.CleanupInterval >= 0, "sessions.cleanup_interval must not be negative")
	check(c.Sessions.MaxIterations >= 1, "sessions.max_iterations must be positive, got %d", c.Sessions.MaxIterations)
	check(c.Sessions.Tolerance > 0, "sessions.tolerance must be positive, got %v", c.Sessions.Tolerance)

	check(c.Limits.MaxPoints >= 1, "limits.max_points must be positive, got %d", c.Limits.MaxPoints)
	check(c.Limits.MaxDim >= 1, "limits.max_dim must be positive, got %d", c.Limits.MaxDim)
	check(c.Limits.MaxClusters >= 1, "limits.max_clusters must be positive, got %d", c.Limits.MaxClusters)
	check(c.Limits.MaxConcurrentFits >= 1, "limits.max_concurrent_fits must be positive, got %d", c.Limits.MaxConcurrentFits)
	check(c.Limits.MaxInflightBytes >= 0, "limits.max_inflight_bytes must not be negative")
	check(c.Limits.RequestsPerSecond >= 0, "limits.requests_per_second must not be negative")
	check(c.Limits.Burst >= 0, "limits.burst must not be negative")

	_, err := c.Log.SlogLevel()
	check(err == nil, "log.level: %v", err)
	check(slices.Contains([]string{"text", "json"}, c.Log.Format), "log.format must be text or json, got %q", c.Log.Format)

	return errors.Join(errs...)
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo, err
	}
	return l, nil
}

// NewLogger builds the service logger described by c.
func (c LogConfig) NewLogger() *lloyd.Logger {
	level, err := c.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	if c.Format == "json" {
		return lloyd.NewJSONLogger(level)
	}
	return lloyd.NewTextLogger(level)
}
