package imghash

import (
	"fmt"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"

	apperrors "github.com/KevinGliewe/imghash/internal/errors"
	"github.com/KevinGliewe/imghash/internal/hashalg"
)

// FilterType selects the resampling filter used to shrink images.
type FilterType int

// Resize filters.
const (
	Nearest FilterType = iota
	Triangle
	CatmullRom
	Gaussian
	Lanczos3
)

// FilterTypes lists every filter in declaration order.
func FilterTypes() []FilterType {
	return []FilterType{Nearest, Triangle, CatmullRom, Gaussian, Lanczos3}
}

func (f FilterType) String() string {
	switch f {
	case Nearest:
		return "Nearest"
	case Triangle:
		return "Triangle"
	case CatmullRom:
		return "CatmullRom"
	case Gaussian:
		return "Gaussian"
	case Lanczos3:
		return "Lanczos3"
	default:
		return fmt.Sprintf("FilterType(%d)", int(f))
	}
}

func (f FilterType) resampleFilter() (imaging.ResampleFilter, bool) {
	switch f {
	case Nearest:
		return imaging.NearestNeighbor, true
	case Triangle:
		return imaging.Linear, true
	case CatmullRom:
		return imaging.CatmullRom, true
	case Gaussian:
		return imaging.Gaussian, true
	case Lanczos3:
		return imaging.Lanczos, true
	default:
		return imaging.ResampleFilter{}, false
	}
}

// HashAlg selects how bits are derived from the resized grid.
type HashAlg int

// Hash algorithms.
const (
	Mean HashAlg = iota
	Gradient
	VertGradient
	DoubleGradient
	Blockhash
)

// HashAlgs lists every algorithm in declaration order.
func HashAlgs() []HashAlg {
	return []HashAlg{Mean, Gradient, VertGradient, DoubleGradient, Blockhash}
}

func (a HashAlg) String() string {
	switch a {
	case Mean:
		return "Mean"
	case Gradient:
		return "Gradient"
	case VertGradient:
		return "VertGradient"
	case DoubleGradient:
		return "DoubleGradient"
	case Blockhash:
		return "Blockhash"
	default:
		return fmt.Sprintf("HashAlg(%d)", int(a))
	}
}

func (a HashAlg) algorithm() (hashalg.Algorithm, bool) {
	switch a {
	case Mean:
		return hashalg.Mean, true
	case Gradient:
		return hashalg.Gradient, true
	case VertGradient:
		return hashalg.VertGradient, true
	case DoubleGradient:
		return hashalg.DoubleGradient, true
	case Blockhash:
		return hashalg.Blockhash, true
	default:
		return nil, false
	}
}

// GoImageHashKind returns the goimagehash kind closest to a. Blockhash has no
// counterpart and maps to goimagehash.Unknown.
func (a HashAlg) GoImageHashKind() goimagehash.Kind {
	switch a {
	case Mean:
		return goimagehash.AHash
	case Gradient, VertGradient, DoubleGradient:
		return goimagehash.DHash
	default:
		return goimagehash.Unknown
	}
}

// Default configuration values.
const (
	DefaultWidth  = 8
	DefaultHeight = 8
	DefaultFilter = Lanczos3
	DefaultAlg    = Gradient
)

// MaxHashArea bounds width*height so that every fingerprint length,
// including DoubleGradient's 2*width*height bits, fits in an int.
const MaxHashArea = 1 << 24

// HasherConfig is an immutable hasher configuration. The setters return
// modified copies.
type HasherConfig struct {
	width  int
	height int
	filter FilterType
	alg    HashAlg
}

// NewHasherConfig returns the default configuration: an 8x8 Gradient hash
// resized with Lanczos3.
func NewHasherConfig() HasherConfig {
	return HasherConfig{
		width:  DefaultWidth,
		height: DefaultHeight,
		filter: DefaultFilter,
		alg:    DefaultAlg,
	}
}

// HashSize sets the hash width and height.
func (c HasherConfig) HashSize(width, height int) HasherConfig {
	c.width, c.height = width, height
	return c
}

// ResizeFilter sets the resampling filter.
func (c HasherConfig) ResizeFilter(f FilterType) HasherConfig {
	c.filter = f
	return c
}

// HashAlg sets the hash algorithm.
func (c HasherConfig) HashAlg(a HashAlg) HasherConfig {
	c.alg = a
	return c
}

// Width returns the configured hash width. It is not validated until
// Validate or ToHasher runs.
func (c HasherConfig) Width() int { return c.width }

// Height returns the configured hash height.
func (c HasherConfig) Height() int { return c.height }

// Filter returns the resize filter applied before hashing.
func (c HasherConfig) Filter() FilterType { return c.filter }

// Algorithm returns the hash algorithm.
func (c HasherConfig) Algorithm() HashAlg { return c.alg }

// BitLen returns the fingerprint length this configuration produces, or 0 if
// the configuration is invalid.
func (c HasherConfig) BitLen() int {
	if c.Validate() != nil {
		return 0
	}
	alg, _ := c.alg.algorithm()
	return alg.BitLen(c.width, c.height)
}

// Validate checks the hash size and the filter and algorithm values.
func (c HasherConfig) Validate() error {
	if c.width <= 0 || c.height <= 0 {
		return apperrors.Newf(apperrors.CodeInvalidDimension,
			"hash size %dx%d must be positive", c.width, c.height)
	}
	if c.width > MaxHashArea/c.height {
		return apperrors.Newf(apperrors.CodeInvalidDimension,
			"hash size %dx%d exceeds %d cells", c.width, c.height, MaxHashArea)
	}
	if _, ok := c.filter.resampleFilter(); !ok {
		return apperrors.Newf(apperrors.CodeInvalidConfiguration, "unknown resize filter %s", c.filter)
	}
	if _, ok := c.alg.algorithm(); !ok {
		return apperrors.Newf(apperrors.CodeInvalidConfiguration, "unknown hash algorithm %s", c.alg)
	}
	return nil
}

func (c HasherConfig) String() string {
	return fmt.Sprintf("%dx%d %s/%s", c.width, c.height, c.alg, c.filter)
}

// ToHasher validates c and returns a Hasher for it.
func (c HasherConfig) ToHasher() (*Hasher, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	filter, _ := c.filter.resampleFilter()
	alg, _ := c.alg.algorithm()
	return &Hasher{cfg: c, filter: filter, alg: alg}, nil
}
