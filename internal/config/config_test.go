package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	apperrors "github.com/KevinGliewe/imghash/internal/errors"
	"github.com/KevinGliewe/imghash/pkg/imghash"
)

var envVars = []string{
	EnvWidth, EnvHeight, EnvFilter, EnvAlgorithm,
	EnvFormat, EnvWorkers, EnvMaxDistance, EnvLogLevel,
}

// isolate points HOME and the working directory at empty temp dirs and clears
// the environment so no real config leaks into a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, path, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want none", path)
	}
	if cfg.Width != 8 || cfg.Height != 8 {
		t.Errorf("size = %dx%d, want 8x8", cfg.Width, cfg.Height)
	}
	if cfg.Filter != "Lanczos3" {
		t.Errorf("Filter = %q, want %q", cfg.Filter, "Lanczos3")
	}
	if cfg.Algorithm != "Gradient" {
		t.Errorf("Algorithm = %q, want %q", cfg.Algorithm, "Gradient")
	}
	if cfg.Format != FormatHex {
		t.Errorf("Format = %q, want %q", cfg.Format, FormatHex)
	}
	if cfg.Workers != runtime.GOMAXPROCS(0) {
		t.Errorf("Workers = %d, want %d", cfg.Workers, runtime.GOMAXPROCS(0))
	}
	if cfg.MaxDistance != 10 {
		t.Errorf("MaxDistance = %d, want 10", cfg.MaxDistance)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadWithEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvWidth, "16")
	t.Setenv(EnvHeight, "4")
	t.Setenv(EnvFilter, "nearest")
	t.Setenv(EnvAlgorithm, "BLOCKHASH")
	t.Setenv(EnvFormat, "goimagehash")
	t.Setenv(EnvWorkers, "3")
	t.Setenv(EnvMaxDistance, "0")
	t.Setenv(EnvLogLevel, "debug")

	cfg, _, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Width != 16 || cfg.Height != 4 || cfg.Workers != 3 || cfg.MaxDistance != 0 {
		t.Errorf("cfg = %+v", cfg)
	}
	hc, err := cfg.HasherConfig()
	if err != nil {
		t.Fatal(err)
	}
	if hc.Filter() != imghash.Nearest || hc.Algorithm() != imghash.Blockhash {
		t.Errorf("HasherConfig() = %s, want Blockhash/Nearest", hc)
	}
	if level, _ := cfg.SlogLevel(); level != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want DEBUG", level)
	}
}

func TestLoadEnvBadNumbers(t *testing.T) {
	tests := []struct {
		key  string
		code apperrors.Code
	}{
		{EnvWidth, apperrors.CodeInvalidWidth},
		{EnvHeight, apperrors.CodeInvalidHeight},
		{EnvWorkers, apperrors.CodeConfigInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, "lots")
			if _, _, err := Load(""); !apperrors.IsCode(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "width = 12\nhash_alg = \"mean\"\nmax_distance = 4\n")

	cfg, got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	if cfg.Width != 12 || cfg.Height != 8 || cfg.Algorithm != "mean" || cfg.MaxDistance != 4 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "width = 12\n")
	t.Setenv(EnvWidth, "20")

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 20 {
		t.Errorf("Width = %d, want 20", cfg.Width)
	}
}

func TestLoadSearchPaths(t *testing.T) {
	isolate(t)
	writeFile(t, "imghash.toml", "height = 5\n")

	cfg, path, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Height != 5 || path != "imghash.toml" {
		t.Errorf("Height = %d from %q, want 5 from imghash.toml", cfg.Height, path)
	}

	home, _ := os.UserHomeDir()
	userPath := filepath.Join(home, ".config", "imghash", "config.toml")
	writeFile(t, userPath, "height = 6\n")

	cfg, path, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Height != 6 || path != userPath {
		t.Errorf("Height = %d from %q, want 6 from %q", cfg.Height, path, userPath)
	}
}

func TestLoadFileErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	writeFile(t, bad, "width = \n")
	unknown := filepath.Join(dir, "unknown.toml")
	writeFile(t, unknown, "colour = \"red\"\n")

	for _, path := range []string{bad, unknown, filepath.Join(dir, "missing.toml")} {
		if _, _, err := Load(path); !apperrors.IsCode(err, apperrors.CodeConfigInvalid) {
			t.Errorf("Load(%s) error = %v, want CONFIG_INVALID", filepath.Base(path), err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   apperrors.Code
	}{
		{"width", func(c *Config) { c.Width = 0 }, apperrors.CodeInvalidWidth},
		{"height", func(c *Config) { c.Height = -1 }, apperrors.CodeInvalidHeight},
		{"filter", func(c *Config) { c.Filter = "bicubic" }, apperrors.CodeInvalidFilter},
		{"algorithm", func(c *Config) { c.Algorithm = "phash" }, apperrors.CodeInvalidAlgorithm},
		{"format", func(c *Config) { c.Format = "base64" }, apperrors.CodeConfigInvalid},
		{"workers", func(c *Config) { c.Workers = 0 }, apperrors.CodeConfigInvalid},
		{"max distance", func(c *Config) { c.MaxDistance = -1 }, apperrors.CodeConfigInvalid},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, apperrors.CodeConfigInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !apperrors.IsCode(err, tt.code) {
				t.Errorf("Validate() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestParseNamesCaseInsensitive(t *testing.T) {
	for _, f := range imghash.FilterTypes() {
		for _, name := range []string{f.String(), "  ", ""} {
			got, err := ParseFilter(name)
			if name == f.String() && (err != nil || got != f) {
				t.Errorf("ParseFilter(%q) = %v, %v", name, got, err)
			}
			if name != f.String() && err == nil {
				t.Errorf("ParseFilter(%q) succeeded", name)
			}
		}
	}
	if got, err := ParseFilter("catmullrom"); err != nil || got != imghash.CatmullRom {
		t.Errorf("ParseFilter(catmullrom) = %v, %v", got, err)
	}
	if got, err := ParseAlgorithm("doublegradient"); err != nil || got != imghash.DoubleGradient {
		t.Errorf("ParseAlgorithm(doublegradient) = %v, %v", got, err)
	}
	if got, err := ParseAlgorithm("vertGRADIENT"); err != nil || got != imghash.VertGradient {
		t.Errorf("ParseAlgorithm(vertGRADIENT) = %v, %v", got, err)
	}
}

func TestParseSize(t *testing.T) {
	if n, err := ParseSize(" 16 ", apperrors.CodeInvalidWidth); err != nil || n != 16 {
		t.Errorf("ParseSize(16) = %d, %v", n, err)
	}
	for _, s := range []string{"0", "-3", "eight"} {
		if _, err := ParseSize(s, apperrors.CodeInvalidHeight); !apperrors.IsCode(err, apperrors.CodeInvalidHeight) {
			t.Errorf("ParseSize(%q) error = %v, want INVALID_HEIGHT", s, err)
		}
	}
}
