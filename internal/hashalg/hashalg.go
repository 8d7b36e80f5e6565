// Package hashalg derives perceptual hash bits from luminance grids.
//
// Every algorithm compares 16-bit sample levels (see grid.Level) rather than
// raw floats, so rounding noise from resampling cannot flip a bit and results
// are reproducible bit for bit.
package hashalg

import (
	apperrors "github.com/KevinGliewe/imghash/internal/errors"
	"github.com/KevinGliewe/imghash/internal/grid"
)

// Algorithm turns a grid into an ordered bit sequence for a w x h hash.
type Algorithm interface {
	// GridSize returns the grid shape Compute expects. If resize is false the
	// algorithm works on the source grid as given.
	GridSize(w, h int) (gw, gh int, resize bool)

	// BitLen returns the number of bits Compute produces.
	BitLen(w, h int) int

	// Compute derives the bits, row-major.
	Compute(g grid.Grid, w, h int) ([]bool, error)
}

var (
	Mean           Algorithm = mean{}
	Gradient       Algorithm = gradient{}
	VertGradient   Algorithm = vertGradient{}
	DoubleGradient Algorithm = doubleGradient{}
	Blockhash      Algorithm = blockhash{}
)

func checkHashSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return apperrors.Newf(apperrors.CodeInvalidConfiguration, "hash size %dx%d must be positive", w, h)
	}
	return nil
}

func checkShape(a Algorithm, g grid.Grid, w, h int) error {
	if err := checkHashSize(w, h); err != nil {
		return err
	}
	gw, gh, _ := a.GridSize(w, h)
	if g.Width() != gw || g.Height() != gh {
		return apperrors.Newf(apperrors.CodeInvalidConfiguration,
			"grid is %dx%d, want %dx%d for a %dx%d hash", g.Width(), g.Height(), gw, gh, w, h)
	}
	return nil
}

type mean struct{}

func (mean) GridSize(w, h int) (int, int, bool) { return w, h, true }

func (mean) BitLen(w, h int) int { return w * h }

// Compute sets a bit for every sample at or above the grid mean. The
// comparison level >= sum/n is done as level*n >= sum to stay exact.
func (a mean) Compute(g grid.Grid, w, h int) ([]bool, error) {
	if err := checkShape(a, g, w, h); err != nil {
		return nil, err
	}
	levels := g.Levels()
	var sum int64
	for _, l := range levels {
		sum += l
	}
	n := int64(len(levels))
	bits := make([]bool, len(levels))
	for i, l := range levels {
		bits[i] = l*n >= sum
	}
	return bits, nil
}

type gradient struct{}

func (gradient) GridSize(w, h int) (int, int, bool) { return w + 1, h, true }

func (gradient) BitLen(w, h int) int { return w * h }

// Compute sets a bit where the right-hand neighbour is brighter.
func (a gradient) Compute(g grid.Grid, w, h int) ([]bool, error) {
	if err := checkShape(a, g, w, h); err != nil {
		return nil, err
	}
	return rowGradients(g.Levels(), w+1, w, h), nil
}

type vertGradient struct{}

func (vertGradient) GridSize(w, h int) (int, int, bool) { return w, h + 1, true }

func (vertGradient) BitLen(w, h int) int { return w * h }

// Compute sets a bit where the neighbour below is brighter.
func (a vertGradient) Compute(g grid.Grid, w, h int) ([]bool, error) {
	if err := checkShape(a, g, w, h); err != nil {
		return nil, err
	}
	return columnGradients(g.Levels(), w, w, h), nil
}

// doubleGradient emits two bits per cell on a (w+1) x (h+1) grid: all
// horizontal gradient bits first, then all vertical ones.
type doubleGradient struct{}

func (doubleGradient) GridSize(w, h int) (int, int, bool) { return w + 1, h + 1, true }

func (doubleGradient) BitLen(w, h int) int { return 2 * w * h }

func (a doubleGradient) Compute(g grid.Grid, w, h int) ([]bool, error) {
	if err := checkShape(a, g, w, h); err != nil {
		return nil, err
	}
	levels := g.Levels()
	bits := rowGradients(levels, w+1, w, h)
	return append(bits, columnGradients(levels, w+1, w, h)...), nil
}

// rowGradients compares each of the first w columns of the first h rows with
// its right neighbour. stride is the grid width.
func rowGradients(levels []int64, stride, w, h int) []bool {
	bits := make([]bool, 0, w*h)
	for y := 0; y < h; y++ {
		row := levels[y*stride:]
		for x := 0; x < w; x++ {
			bits = append(bits, row[x+1] > row[x])
		}
	}
	return bits
}

// columnGradients compares each cell of the first h rows and w columns with
// the cell below it. stride is the grid width.
func columnGradients(levels []int64, stride, w, h int) []bool {
	bits := make([]bool, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bits = append(bits, levels[(y+1)*stride+x] > levels[y*stride+x])
		}
	}
	return bits
}
