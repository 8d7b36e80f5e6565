package hashalg

import (
	"math/big"

	apperrors "github.com/KevinGliewe/imghash/internal/errors"
	"github.com/KevinGliewe/imghash/internal/grid"
)

// blockhash partitions the unresized source into w x h blocks and sets a bit
// for every block whose mean level is at or above the mean of all block means.
//
// Block b on an axis of length n covers [floor(b*n/w), floor((b+1)*n/w)), so
// blocks differ in size by at most one sample per axis. Means and the
// threshold are exact rationals.
type blockhash struct{}

// GridSize reports the smallest source that leaves no block empty.
func (blockhash) GridSize(w, h int) (int, int, bool) { return w, h, false }

func (blockhash) BitLen(w, h int) int { return w * h }

func (blockhash) Compute(g grid.Grid, w, h int) ([]bool, error) {
	if err := checkHashSize(w, h); err != nil {
		return nil, err
	}
	if g.Width() < w || g.Height() < h {
		return nil, apperrors.Newf(apperrors.CodeInvalidConfiguration,
			"%dx%d source leaves empty blocks in a %dx%d blockhash", g.Width(), g.Height(), w, h)
	}

	xs := bounds(g.Width(), w)
	ys := bounds(g.Height(), h)
	levels := g.Levels()
	stride := g.Width()

	means := make([]*big.Rat, 0, w*h)
	total := new(big.Rat)
	for by := 0; by < h; by++ {
		for bx := 0; bx < w; bx++ {
			var sum int64
			for y := ys[by]; y < ys[by+1]; y++ {
				for x := xs[bx]; x < xs[bx+1]; x++ {
					sum += levels[y*stride+x]
				}
			}
			count := int64((xs[bx+1] - xs[bx]) * (ys[by+1] - ys[by]))
			m := big.NewRat(sum, count)
			means = append(means, m)
			total.Add(total, m)
		}
	}

	// mean >= total/blocks  <=>  mean*blocks >= total
	blocks := big.NewRat(int64(len(means)), 1)
	bits := make([]bool, len(means))
	scaled := new(big.Rat)
	for i, m := range means {
		bits[i] = scaled.Mul(m, blocks).Cmp(total) >= 0
	}
	return bits, nil
}

// bounds returns the n+1 block edges of an axis of length size split into n.
func bounds(size, n int) []int {
	edges := make([]int, n+1)
	for b := 0; b <= n; b++ {
		edges[b] = b * size / n
	}
	return edges
}
