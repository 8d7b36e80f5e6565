package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apperrors "github.com/KevinGliewe/imghash/internal/errors"
	"github.com/KevinGliewe/imghash/internal/imagesource"
	"github.com/KevinGliewe/imghash/internal/trace"
	"github.com/KevinGliewe/imghash/pkg/imghash"
)

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	ctx := newCommandContext(stdout, stderr)

	rootCmd := &cobra.Command{
		Use:   "imghash [flags] IMAGE [IMAGE_CMP]",
		Short: "Perceptual image hashing",
		Long: "Prints the perceptual hash of IMAGE as hex, or the Hamming distance\n" +
			"between the hashes of IMAGE and IMAGE_CMP.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(2),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.prepare(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(cmd.Context(), ctx, args)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	// -h belongs to --height, so help is declared without a shorthand.
	pf.Bool("help", false, "help for imghash")
	pf.StringVarP(&ctx.flags.width, "width", "w", "", "Hash width (default 8)")
	pf.StringVarP(&ctx.flags.height, "height", "h", "", "Hash height (default 8)")
	pf.StringVarP(&ctx.flags.filter, "resize_filter", "f", "", "Resize filter: Nearest, Triangle, CatmullRom, Gaussian, Lanczos3")
	pf.StringVarP(&ctx.flags.algorithm, "hash_alg", "a", "", "Hash algorithm: Mean, Gradient, VertGradient, DoubleGradient, Blockhash")
	pf.StringVar(&ctx.flags.format, "format", "", "Output format: hex or goimagehash")
	pf.StringVarP(&ctx.flags.config, "config", "c", "", "Configuration file path")
	pf.BoolVarP(&ctx.flags.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newBatchCommand(ctx))
	rootCmd.AddCommand(newDedupCommand(ctx))

	return rootCmd
}

func runHash(ctx context.Context, c *commandContext, args []string) error {
	if len(args) == 0 {
		return apperrors.New(apperrors.CodeMissingImage, "no image specified")
	}

	fp, err := hashFile(ctx, c, args[0], apperrors.ArgImage)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		fmt.Fprintln(c.stdout, c.render(fp))
		return nil
	}

	other, err := hashFile(ctx, c, args[1], apperrors.ArgCompareImage)
	if err != nil {
		return err
	}
	dist, err := fp.Distance(other)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, dist)
	return nil
}

func hashFile(ctx context.Context, c *commandContext, path, arg string) (imghash.Fingerprint, error) {
	ctx, span := trace.StartSpan(ctx, "hash_image")
	span.SetAttr("path", path)

	img, err := imagesource.Open(ctx, path, arg)
	if err != nil {
		span.Finish(ctx, err)
		return imghash.Fingerprint{}, err
	}
	fp, err := c.hasher.Hash(img)
	span.Finish(ctx, err)
	return fp, err
}
