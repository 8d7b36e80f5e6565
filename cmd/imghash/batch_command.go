package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/KevinGliewe/imghash/internal/batch"
	apperrors "github.com/KevinGliewe/imghash/internal/errors"
	"github.com/KevinGliewe/imghash/internal/imagesource"
)

func requireFiles(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return apperrors.New(apperrors.CodeMissingImage, "no image specified")
	}
	return nil
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch FILE...",
		Short: "Hash many images concurrently",
		Args:  requireFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := batch.NewRunner(ctx.hasher, imagesource.Open, ctx.config.Workers)
			results, err := runner.Run(cmd.Context(), args)
			if err != nil {
				return err
			}

			failed := 0
			if shouldRenderTable(ctx.stdout) {
				rows := make([][]string, 0, len(results))
				for _, res := range results {
					if res.Err != nil {
						failed++
						rows = append(rows, []string{res.Path, "error", res.Err.Error()})
						continue
					}
					rows = append(rows, []string{res.Path, ctx.render(res.Fingerprint), res.Duration.Round(time.Microsecond).String()})
				}
				fmt.Fprintln(ctx.stdout, renderTable([]string{"File", "Hash", "Time"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
			} else {
				for _, res := range results {
					if res.Err != nil {
						failed++
						fmt.Fprintf(ctx.stderr, "%s: %v\n", res.Path, res.Err)
						continue
					}
					fmt.Fprintf(ctx.stdout, "%s  %s\n", ctx.render(res.Fingerprint), res.Path)
				}
			}

			stats := runner.Stats()
			slog.Info("batch complete",
				"hashed", humanize.Comma(int64(stats.Hashed)),
				"failed", stats.Failed,
				"elapsed", stats.Elapsed.Round(time.Millisecond),
			)
			if failed > 0 {
				return apperrors.Newf(apperrors.CodeImageOpen, "%d of %d files failed", failed, len(results)).
					WithMetadata(apperrors.MetaArg, batch.ArgFile)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&ctx.flags.workers, "workers", 0, "Concurrent workers (default GOMAXPROCS)")
	return cmd
}
