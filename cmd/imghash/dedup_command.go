package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KevinGliewe/imghash/internal/batch"
	"github.com/KevinGliewe/imghash/internal/dedup"
	apperrors "github.com/KevinGliewe/imghash/internal/errors"
	"github.com/KevinGliewe/imghash/internal/imagesource"
	"github.com/KevinGliewe/imghash/internal/trace"
)

func newDedupCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedup FILE...",
		Short: "List frames that differ from the previously kept frame",
		Long: "Hashes FILEs in order and keeps a frame only if its distance to the\n" +
			"last kept frame exceeds --max-distance. Kept paths are printed.",
		Args: requireFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, span := trace.StartSpan(cmd.Context(), "dedup")
			span.SetAttr("frames", len(args))

			runner := batch.NewRunner(ctx.hasher, imagesource.Open, ctx.config.Workers)
			results, err := runner.Run(runCtx, args)
			if err != nil {
				span.Finish(runCtx, err)
				return err
			}

			filter := dedup.NewFilter(ctx.config.MaxDistance, ctx.hasher.Config().Algorithm())
			table := shouldRenderTable(ctx.stdout)
			var rows [][]string
			kept, failed := 0, 0
			for _, res := range results {
				if res.Err != nil {
					failed++
					fmt.Fprintf(ctx.stderr, "%s: %v\n", res.Path, res.Err)
					continue
				}
				d := filter.Offer(runCtx, res.Path, res.Fingerprint)
				if d.Kept {
					kept++
				}
				if table {
					rows = append(rows, decisionRow(d))
				} else if d.Kept {
					fmt.Fprintln(ctx.stdout, d.Path)
				}
			}
			if table {
				fmt.Fprintln(ctx.stdout, renderTable([]string{"File", "Kept", "Distance", "Reference"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}))
			}

			span.SetAttr("kept", kept)
			span.Finish(runCtx, nil)
			slog.Info("dedup complete", "frames", len(results), "kept", kept, "failed", failed)

			if failed > 0 {
				return apperrors.Newf(apperrors.CodeImageOpen, "%d of %d files failed", failed, len(results)).
					WithMetadata(apperrors.MetaArg, batch.ArgFile)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&ctx.flags.workers, "workers", 0, "Concurrent workers (default GOMAXPROCS)")
	cmd.Flags().IntVar(&ctx.flags.maxDistance, "max-distance", 0, "Largest distance at which a frame counts as a duplicate (default 10)")
	return cmd
}

func decisionRow(d dedup.Decision) []string {
	dist, ref := "-", "-"
	if d.Distance >= 0 {
		dist = strconv.Itoa(d.Distance)
		ref = d.Reference
	}
	kept := "no"
	if d.Kept {
		kept = "yes"
	}
	return []string{d.Path, kept, dist, ref}
}
