// Package imagesource opens and decodes image files.
package imagesource

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/dustin/go-humanize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	apperrors "github.com/KevinGliewe/imghash/internal/errors"
	"github.com/KevinGliewe/imghash/internal/trace"
)

// Open decodes the image at path. Failures carry CodeImageOpen with arg set
// to the positional argument the path came from, which decides the exit code.
func Open(ctx context.Context, path, arg string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(err, path, arg, "open image")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, openError(err, path, arg, "stat image")
	}

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, openError(err, path, arg, "decode image")
	}

	b := img.Bounds()
	trace.Logger(ctx).Debug("decoded image",
		"path", path,
		"format", format,
		"size", humanize.Bytes(uint64(info.Size())),
		"width", b.Dx(),
		"height", b.Dy(),
	)
	return img, nil
}

func openError(err error, path, arg, msg string) error {
	return apperrors.Wrap(err, apperrors.CodeImageOpen, msg).
		WithMetadata(apperrors.MetaArg, arg).
		WithMetadata("path", path)
}
