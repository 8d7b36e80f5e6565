package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KevinGliewe/imghash/internal/config"
	apperrors "github.com/KevinGliewe/imghash/internal/errors"
	"github.com/KevinGliewe/imghash/pkg/imghash"
)

// flagValues holds raw flag input. Sizes stay strings so a malformed value is
// reported with the width or height exit code instead of cobra's generic one.
type flagValues struct {
	config      string
	width       string
	height      string
	filter      string
	algorithm   string
	format      string
	workers     int
	maxDistance int
	verbose     bool
}

type commandContext struct {
	stdout io.Writer
	stderr io.Writer
	flags  flagValues

	config *config.Config
	hasher *imghash.Hasher
}

func newCommandContext(stdout, stderr io.Writer) *commandContext {
	return &commandContext{stdout: stdout, stderr: stderr}
}

// prepare loads the layered configuration, applies changed flags on top,
// validates the result and installs the logger.
func (c *commandContext) prepare(cmd *cobra.Command) error {
	cfg, path, err := config.Load(strings.TrimSpace(c.flags.config))
	if err != nil {
		return err
	}
	if err := c.applyFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.SlogLevel()
	if c.flags.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: level})))
	if path != "" {
		slog.Debug("loaded config", "path", path)
	}

	hc, err := cfg.HasherConfig()
	if err != nil {
		return err
	}
	hasher, err := hc.ToHasher()
	if err != nil {
		return err
	}

	c.config = cfg
	c.hasher = hasher
	slog.Debug("hasher ready", "config", hc.String(), "bits", hasher.BitLen())
	return nil
}

func (c *commandContext) applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("width") {
		w, err := config.ParseSize(c.flags.width, apperrors.CodeInvalidWidth)
		if err != nil {
			return err
		}
		cfg.Width = w
	}
	if flags.Changed("height") {
		h, err := config.ParseSize(c.flags.height, apperrors.CodeInvalidHeight)
		if err != nil {
			return err
		}
		cfg.Height = h
	}
	if flags.Changed("resize_filter") {
		cfg.Filter = c.flags.filter
	}
	if flags.Changed("hash_alg") {
		cfg.Algorithm = c.flags.algorithm
	}
	if flags.Changed("format") {
		cfg.Format = c.flags.format
	}
	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		cfg.Workers = c.flags.workers
	}
	if flags.Lookup("max-distance") != nil && flags.Changed("max-distance") {
		cfg.MaxDistance = c.flags.maxDistance
	}
	return nil
}

// render formats a fingerprint in the configured output format.
func (c *commandContext) render(fp imghash.Fingerprint) string {
	if strings.EqualFold(c.config.Format, config.FormatGoImageHash) {
		return fp.ExtImageHash(c.hasher.Config().Algorithm().GoImageHashKind()).ToString()
	}
	return fp.Hex()
}
