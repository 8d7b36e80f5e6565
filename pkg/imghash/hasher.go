package imghash

import (
	"image"

	"github.com/disintegration/imaging"

	apperrors "github.com/KevinGliewe/imghash/internal/errors"
	"github.com/KevinGliewe/imghash/internal/grid"
	"github.com/KevinGliewe/imghash/internal/hashalg"
	"github.com/KevinGliewe/imghash/internal/resize"
)

// Grid is a row-major grid of luminance samples in [0, 1].
type Grid = grid.Grid

// NewGrid builds a grid from width*height row-major samples.
func NewGrid(width, height int, samples []float64) (Grid, error) {
	g, ok := grid.New(width, height, samples)
	if !ok {
		return Grid{}, apperrors.Newf(apperrors.CodeInvalidDimension,
			"%d samples do not form a %dx%d grid", len(samples), width, height)
	}
	return g, nil
}

// GridFromImage converts img to luminance samples.
func GridFromImage(img image.Image) Grid { return grid.FromImage(img) }

// Hasher computes fingerprints for one configuration. It holds no mutable
// state and is safe for concurrent use.
type Hasher struct {
	cfg    HasherConfig
	filter imaging.ResampleFilter
	alg    hashalg.Algorithm
}

// Config returns the configuration the hasher was built from.
func (h *Hasher) Config() HasherConfig { return h.cfg }

// BitLen returns the length of every fingerprint the hasher produces.
func (h *Hasher) BitLen() int { return h.alg.BitLen(h.cfg.width, h.cfg.height) }

// Hash converts img to luminance and hashes it.
func (h *Hasher) Hash(img image.Image) (Fingerprint, error) {
	return h.HashGrid(grid.FromImage(img))
}

// HashGrid hashes a luminance grid.
func (h *Hasher) HashGrid(g Grid) (Fingerprint, error) {
	if g.Empty() {
		return Fingerprint{}, apperrors.Newf(apperrors.CodeInvalidDimension,
			"cannot hash empty %dx%d image", g.Width(), g.Height())
	}

	w, ht := h.cfg.width, h.cfg.height
	if gw, gh, ok := h.alg.GridSize(w, ht); ok {
		resized, err := resize.Resize(g, gw, gh, h.filter)
		if err != nil {
			return Fingerprint{}, err
		}
		g = resized
	}

	bits, err := h.alg.Compute(g, w, ht)
	if err != nil {
		return Fingerprint{}, err
	}
	return pack(bits), nil
}
