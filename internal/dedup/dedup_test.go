package dedup

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/KevinGliewe/imghash/pkg/imghash"
)

// makePattern creates frames with distinct patterns for hashing.
func makePattern(pattern int) image.Image {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			var v uint8
			switch pattern {
			case 0:
				v = uint8(x * 4)
			case 1:
				v = uint8(255 - x*4)
			default:
				if (x/8+y/8)%2 == 0 {
					v = 255
				}
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func hash(t *testing.T, h *imghash.Hasher, img image.Image) imghash.Fingerprint {
	t.Helper()
	fp, err := h.Hash(img)
	if err != nil {
		t.Fatal(err)
	}
	return fp
}

func TestFilterDropsIdenticalFrames(t *testing.T) {
	h, _ := imghash.NewHasherConfig().ToHasher()
	f := NewFilter(0, imghash.Gradient)
	ctx := context.Background()

	frame := hash(t, h, makePattern(0))
	first := f.Offer(ctx, "0001.png", frame)
	if !first.Kept || first.Distance != -1 {
		t.Errorf("first frame = %+v, want kept with no reference", first)
	}
	second := f.Offer(ctx, "0002.png", frame)
	if second.Kept || second.Distance != 0 || second.Reference != "0001.png" {
		t.Errorf("duplicate frame = %+v, want dropped against 0001.png", second)
	}
}

func TestFilterKeepsDistinctFrames(t *testing.T) {
	h, _ := imghash.NewHasherConfig().ToHasher()
	f := NewFilter(5, imghash.Gradient)
	ctx := context.Background()

	f.Offer(ctx, "a", hash(t, h, makePattern(0)))
	d := f.Offer(ctx, "b", hash(t, h, makePattern(1)))
	if !d.Kept {
		t.Fatalf("inverted ramp = %+v, want kept", d)
	}
	if d.Distance <= 5 {
		t.Errorf("Distance = %d, want more than 5", d.Distance)
	}

	// b is now the reference.
	d = f.Offer(ctx, "c", hash(t, h, makePattern(1)))
	if d.Kept || d.Reference != "b" {
		t.Errorf("repeat of b = %+v, want dropped against b", d)
	}
}

func TestFilterLengthChangeResets(t *testing.T) {
	small, _ := imghash.NewHasherConfig().ToHasher()
	large, _ := imghash.NewHasherConfig().HashSize(16, 16).ToHasher()
	f := NewFilter(64, imghash.Gradient)
	ctx := context.Background()

	f.Offer(ctx, "a", hash(t, small, makePattern(2)))
	d := f.Offer(ctx, "b", hash(t, large, makePattern(2)))
	if !d.Kept || d.Distance != -1 {
		t.Errorf("Offer() = %+v, want kept after length change", d)
	}
}
