// Package grid holds the luminance sample grid the hashing pipeline works on.
package grid

import (
	"image"
	"image/color"
	"math"
)

// MaxLevel is the largest 16-bit level a sample in [0, 1] quantizes to.
const MaxLevel = 65535

// Grid is an immutable row-major grid of normalized luminance samples.
// A sample of 0 is black and 1 is white; interpolation may overshoot slightly.
type Grid struct {
	width  int
	height int
	pix    []float64
}

// New returns a grid over a copy of pix. It returns false if pix does not hold
// exactly width*height samples or a dimension is negative.
func New(width, height int, pix []float64) (Grid, bool) {
	if width < 0 || height < 0 || len(pix) != width*height {
		return Grid{}, false
	}
	cp := make([]float64, len(pix))
	copy(cp, pix)
	return Grid{width: width, height: height, pix: cp}, true
}

// Uniform returns a width x height grid with every sample set to v.
func Uniform(width, height int, v float64) Grid {
	pix := make([]float64, width*height)
	for i := range pix {
		pix[i] = v
	}
	return Grid{width: width, height: height, pix: pix}
}

// wrap adopts pix without copying. Only for use by constructors that own pix.
func wrap(width, height int, pix []float64) Grid {
	return Grid{width: width, height: height, pix: pix}
}

// Width returns the number of columns.
func (g Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g Grid) Height() int { return g.height }

// Empty reports whether the grid has no samples.
func (g Grid) Empty() bool { return g.width == 0 || g.height == 0 }

// At returns the sample at column x, row y.
func (g Grid) At(x, y int) float64 { return g.pix[y*g.width+x] }

// Row returns a copy of row y.
func (g Grid) Row(y int) []float64 {
	row := make([]float64, g.width)
	copy(row, g.pix[y*g.width:(y+1)*g.width])
	return row
}

// Samples returns a copy of all samples in row-major order.
func (g Grid) Samples() []float64 {
	cp := make([]float64, len(g.pix))
	copy(cp, g.pix)
	return cp
}

// Level quantizes v to a 16-bit level. Values outside [0, 1] map outside
// [0, MaxLevel] rather than being clamped.
func Level(v float64) int64 {
	return int64(math.Round(v * MaxLevel))
}

// Levels returns every sample quantized with Level, row-major.
func (g Grid) Levels() []int64 {
	levels := make([]int64, len(g.pix))
	for i, v := range g.pix {
		levels[i] = Level(v)
	}
	return levels
}

// FromImage converts img to luminance using the Rec. 601 luma weights of
// color.Gray16Model. Alpha is ignored beyond its premultiplication.
func FromImage(img image.Image) Grid {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]float64, w*h)

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			row := src.Pix[(y+b.Min.Y-src.Rect.Min.Y)*src.Stride+(b.Min.X-src.Rect.Min.X):]
			for x := 0; x < w; x++ {
				pix[y*w+x] = float64(row[x]) / 255
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				gray := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
				pix[y*w+x] = float64(gray.Y) / MaxLevel
			}
		}
	}

	return wrap(w, h, pix)
}

// Gray renders the grid as an 8-bit image. Samples outside [0, 1] are
// clamped.
func (g Grid) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.width, g.height))
	for i, v := range g.pix {
		img.Pix[i] = uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return img
}

// Builder fills a new grid sample by sample. The zero value is not usable.
type Builder struct {
	width  int
	height int
	pix    []float64
}

// NewBuilder allocates a width x height builder.
func NewBuilder(width, height int) *Builder {
	return &Builder{width: width, height: height, pix: make([]float64, width*height)}
}

// Set stores v at column x, row y.
func (b *Builder) Set(x, y int, v float64) { b.pix[y*b.width+x] = v }

// Grid returns the built grid. The builder must not be used afterwards.
func (b *Builder) Grid() Grid {
	g := wrap(b.width, b.height, b.pix)
	b.pix = nil
	return g
}
