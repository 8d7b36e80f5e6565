// Package config handles imghash configuration.
//
// Values are layered: defaults, then a TOML file, then IMGHASH_* environment
// variables. Command-line flags are applied on top by the caller before
// Validate.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	apperrors "github.com/KevinGliewe/imghash/internal/errors"
	"github.com/KevinGliewe/imghash/pkg/imghash"
)

// Output formats.
const (
	FormatHex         = "hex"
	FormatGoImageHash = "goimagehash"
)

// Environment variables read by Load.
const (
	EnvWidth       = "IMGHASH_WIDTH"
	EnvHeight      = "IMGHASH_HEIGHT"
	EnvFilter      = "IMGHASH_RESIZE_FILTER"
	EnvAlgorithm   = "IMGHASH_HASH_ALG"
	EnvFormat      = "IMGHASH_FORMAT"
	EnvWorkers     = "IMGHASH_WORKERS"
	EnvMaxDistance = "IMGHASH_MAX_DISTANCE"
	EnvLogLevel    = "IMGHASH_LOG_LEVEL"
)

// Config holds the CLI settings after layering defaults, the TOML file and
// IMGHASH_* environment variables. Filter and Algorithm are names resolved by
// ParseFilter and ParseAlgorithm; flags are applied on top by the command.
type Config struct {
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	Filter      string `toml:"resize_filter"`
	Algorithm   string `toml:"hash_alg"`
	Format      string `toml:"format"`
	Workers     int    `toml:"workers"`
	MaxDistance int    `toml:"max_distance"`
	LogLevel    string `toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:       imghash.DefaultWidth,
		Height:      imghash.DefaultHeight,
		Filter:      imghash.DefaultFilter.String(),
		Algorithm:   imghash.DefaultAlg.String(),
		Format:      FormatHex,
		Workers:     runtime.GOMAXPROCS(0),
		MaxDistance: 10,
		LogLevel:    "info",
	}
}

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/imghash/config.toml")
}

// Load applies the configuration file and environment on top of the defaults.
// An explicit path must exist; without one the per-user file and then
// ./imghash.toml are tried. It returns the file that was read, or "" if none.
// The result is not validated.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", apperrors.Wrap(err, apperrors.CodeConfigInvalid, "open config").
				WithMetadata("path", resolved)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", apperrors.Wrap(err, apperrors.CodeConfigInvalid, "parse config").
				WithMetadata("path", resolved)
		}
	} else {
		resolved = ""
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", err
	}
	return &cfg, resolved, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, apperrors.Newf(apperrors.CodeConfigInvalid, "config file %s does not exist", expanded)
			}
			return "", false, apperrors.Wrap(err, apperrors.CodeConfigInvalid, "stat config")
		}
		return expanded, true, nil
	}

	candidates := []string{"imghash.toml"}
	if defaultPath, err := DefaultConfigPath(); err == nil {
		candidates = append([]string{defaultPath}, candidates...)
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true, nil
		}
	}
	return "", false, nil
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", apperrors.Wrap(err, apperrors.CodeConfigInvalid, "resolve home directory")
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}

func (c *Config) applyEnv() error {
	var err error
	if c.Width, err = getEnvInt(EnvWidth, c.Width, apperrors.CodeInvalidWidth); err != nil {
		return err
	}
	if c.Height, err = getEnvInt(EnvHeight, c.Height, apperrors.CodeInvalidHeight); err != nil {
		return err
	}
	if c.Workers, err = getEnvInt(EnvWorkers, c.Workers, apperrors.CodeConfigInvalid); err != nil {
		return err
	}
	if c.MaxDistance, err = getEnvInt(EnvMaxDistance, c.MaxDistance, apperrors.CodeConfigInvalid); err != nil {
		return err
	}
	c.Filter = getEnv(EnvFilter, c.Filter)
	c.Algorithm = getEnv(EnvAlgorithm, c.Algorithm)
	c.Format = getEnv(EnvFormat, c.Format)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
	return nil
}

// Validate checks every field and reports the first problem with the code
// the command line maps to its exit status.
func (c *Config) Validate() error {
	if c.Width <= 0 {
		return apperrors.Newf(apperrors.CodeInvalidWidth, "width must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		return apperrors.Newf(apperrors.CodeInvalidHeight, "height must be positive, got %d", c.Height)
	}
	if _, err := ParseFilter(c.Filter); err != nil {
		return err
	}
	if _, err := ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}
	switch strings.ToLower(c.Format) {
	case FormatHex, FormatGoImageHash:
	default:
		return apperrors.Newf(apperrors.CodeConfigInvalid, "unknown output format %q", c.Format)
	}
	if c.Workers < 1 {
		return apperrors.Newf(apperrors.CodeConfigInvalid, "workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxDistance < 0 {
		return apperrors.Newf(apperrors.CodeConfigInvalid, "max distance must not be negative, got %d", c.MaxDistance)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// HasherConfig converts the hash settings. The config must be valid.
func (c *Config) HasherConfig() (imghash.HasherConfig, error) {
	filter, err := ParseFilter(c.Filter)
	if err != nil {
		return imghash.HasherConfig{}, err
	}
	alg, err := ParseAlgorithm(c.Algorithm)
	if err != nil {
		return imghash.HasherConfig{}, err
	}
	return imghash.NewHasherConfig().
		HashSize(c.Width, c.Height).
		ResizeFilter(filter).
		HashAlg(alg), nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, apperrors.Wrapf(err, apperrors.CodeConfigInvalid, "unknown log level %q", c.LogLevel)
	}
	return level, nil
}

// ParseFilter resolves a filter name case-insensitively.
func ParseFilter(name string) (imghash.FilterType, error) {
	for _, f := range imghash.FilterTypes() {
		if strings.EqualFold(name, f.String()) {
			return f, nil
		}
	}
	return 0, apperrors.Newf(apperrors.CodeInvalidFilter, "unknown resize filter %q", name).
		WithMetadata("valid", joinNames(imghash.FilterTypes()))
}

// ParseAlgorithm resolves an algorithm name case-insensitively.
func ParseAlgorithm(name string) (imghash.HashAlg, error) {
	for _, a := range imghash.HashAlgs() {
		if strings.EqualFold(name, a.String()) {
			return a, nil
		}
	}
	return 0, apperrors.Newf(apperrors.CodeInvalidAlgorithm, "unknown hash algorithm %q", name).
		WithMetadata("valid", joinNames(imghash.HashAlgs()))
}

// ParseSize parses a hash dimension, reporting failures with code.
func ParseSize(s string, code apperrors.Code) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, apperrors.Wrapf(err, code, "invalid size %q", s)
	}
	if n <= 0 {
		return 0, apperrors.Newf(code, "size must be positive, got %d", n)
	}
	return n, nil
}

func joinNames[T interface{ String() string }](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.String()
	}
	return strings.Join(names, ",")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int, code apperrors.Code) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, apperrors.Wrapf(err, code, "invalid %s", key)
	}
	return i, nil
}
