// Package dedup drops near-duplicate frames from an ordered sequence.
package dedup

import (
	"context"

	"github.com/corona10/goimagehash"

	"github.com/KevinGliewe/imghash/internal/syncx"
	"github.com/KevinGliewe/imghash/internal/trace"
	"github.com/KevinGliewe/imghash/pkg/imghash"
)

// Decision records what happened to one frame.
type Decision struct {
	Path string
	Kept bool
	// Distance to the reference frame, or -1 for the first frame.
	Distance  int
	Reference string
}

type reference struct {
	hash *goimagehash.ExtImageHash
	path string
}

// Filter compares each frame with the last kept frame. A frame within
// maxDistance of the reference is dropped; any other frame is kept and
// becomes the new reference.
type Filter struct {
	maxDistance int
	kind        goimagehash.Kind
	ref         *syncx.RWGuard[reference]
}

// NewFilter creates a filter for fingerprints of the given algorithm.
func NewFilter(maxDistance int, alg imghash.HashAlg) *Filter {
	return &Filter{
		maxDistance: maxDistance,
		kind:        alg.GoImageHashKind(),
		ref:         syncx.NewGuard(reference{}),
	}
}

// Offer decides whether the frame at path is kept. Fingerprints whose length
// differs from the reference are always kept and reset the reference.
func (f *Filter) Offer(ctx context.Context, path string, fp imghash.Fingerprint) Decision {
	hash := fp.ExtImageHash(f.kind)
	return syncx.Update(f.ref, func(ref *reference) Decision {
		if ref.hash == nil {
			*ref = reference{hash: hash, path: path}
			return Decision{Path: path, Kept: true, Distance: -1}
		}

		d := Decision{Path: path, Reference: ref.path}
		dist, err := ref.hash.Distance(hash)
		if err != nil {
			trace.Logger(ctx).Debug("resetting dedup reference", "path", path, "error", err)
			*ref = reference{hash: hash, path: path}
			d.Kept, d.Distance = true, -1
			return d
		}

		d.Distance = dist
		if dist <= f.maxDistance {
			trace.Logger(ctx).Debug("dropping similar frame", "path", path, "reference", ref.path, "distance", dist)
			return d
		}
		*ref = reference{hash: hash, path: path}
		d.Kept = true
		return d
	})
}

