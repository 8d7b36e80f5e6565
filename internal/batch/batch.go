// Package batch hashes many image files concurrently.
package batch

import (
	"context"
	"image"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KevinGliewe/imghash/internal/syncx"
	"github.com/KevinGliewe/imghash/internal/trace"
	"github.com/KevinGliewe/imghash/pkg/imghash"
)

// ArgFile is the MetaArg value batch passes to the opener.
const ArgFile = "FILE"

// Opener decodes the image at path. arg names the argument the path came from.
type Opener func(ctx context.Context, path, arg string) (image.Image, error)

// Result is the outcome for one input file.
type Result struct {
	Path        string
	Fingerprint imghash.Fingerprint
	Err         error
	Duration    time.Duration
}

// Stats summarizes a run.
type Stats struct {
	Hashed  int
	Failed  int
	Elapsed time.Duration
}

// Runner hashes files with a bounded number of workers. A Runner may be
// reused; Stats accumulates across runs.
type Runner struct {
	hasher  *imghash.Hasher
	open    Opener
	workers int
	stats   *syncx.RWGuard[Stats]
}

// NewRunner creates a runner. workers below 1 is treated as 1.
func NewRunner(hasher *imghash.Hasher, open Opener, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		hasher:  hasher,
		open:    open,
		workers: workers,
		stats:   syncx.NewGuard(Stats{}),
	}
}

// Run hashes paths and returns one result per path in input order. A file
// that fails does not stop the others. The returned error is only set when
// ctx is cancelled, in which case unstarted files are left without a result
// fingerprint and carry the context error.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Result, error) {
	ctx, span := trace.StartSpan(ctx, "batch_hash")
	span.SetAttr("files", len(paths))
	span.SetAttr("workers", r.workers)
	start := time.Now()

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, path := range paths {
		results[i].Path = path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i] = r.hashFile(gctx, path)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	r.stats.Write(func(s *Stats) {
		s.Hashed += len(results) - failed
		s.Failed += failed
		s.Elapsed += time.Since(start)
	})

	err := ctx.Err()
	span.SetAttr("failed", failed)
	span.Finish(ctx, err)
	return results, err
}

func (r *Runner) hashFile(ctx context.Context, path string) Result {
	ctx, span := trace.StartSpan(ctx, "hash_image")
	span.SetAttr("path", path)

	res := Result{Path: path}
	img, err := r.open(ctx, path, ArgFile)
	if err == nil {
		res.Fingerprint, err = r.hasher.Hash(img)
	}
	res.Err = err

	span.Finish(ctx, err)
	res.Duration = span.Duration()
	return res
}

// Stats returns the totals of all runs so far.
func (r *Runner) Stats() Stats {
	return r.stats.Get()
}
