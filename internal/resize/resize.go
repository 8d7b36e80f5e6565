// Package resize resamples luminance grids with the imaging library's
// separable filters.
package resize

import (
	"github.com/disintegration/imaging"

	apperrors "github.com/KevinGliewe/imghash/internal/errors"
	"github.com/KevinGliewe/imghash/internal/grid"
)

// Resize scales g to width x height with filter f. Samples are resampled at
// 8-bit precision; an axis that already has the target length is copied
// unchanged.
func Resize(g grid.Grid, width, height int, f imaging.ResampleFilter) (grid.Grid, error) {
	if width <= 0 || height <= 0 {
		return grid.Grid{}, apperrors.Newf(apperrors.CodeInvalidDimension,
			"resize target %dx%d must be positive", width, height)
	}
	if g.Empty() {
		return grid.Grid{}, apperrors.Newf(apperrors.CodeInvalidDimension,
			"cannot resize empty %dx%d grid", g.Width(), g.Height())
	}

	return grid.FromImage(imaging.Resize(g.Gray(), width, height, f)), nil
}
