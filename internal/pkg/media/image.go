package media

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

var ErrUndecodableImage = errors.New("cannot decode image")

// ImageOptions bounds the stored image. Larger images are scaled down to
// fit, keeping the aspect ratio.
type ImageOptions struct {
	MaxWidth  int
	MaxHeight int
	Quality   float32
}

var DefaultImageOptions = ImageOptions{
	MaxWidth:  1600,
	MaxHeight: 1600,
	Quality:   80,
}

// ToWebP decodes a jpeg, png, gif or webp image, applies its EXIF
// orientation, downsizes it to opt and re-encodes it as lossy webp.
func ToWebP(data []byte, opt ImageOptions) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUndecodableImage, err)
	}

	b := img.Bounds()
	if (opt.MaxWidth > 0 && b.Dx() > opt.MaxWidth) || (opt.MaxHeight > 0 && b.Dy() > opt.MaxHeight) {
		maxW, maxH := opt.MaxWidth, opt.MaxHeight
		if maxW <= 0 {
			maxW = b.Dx()
		}
		if maxH <= 0 {
			maxH = b.Dy()
		}
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}

	quality := opt.Quality
	if quality <= 0 {
		quality = DefaultImageOptions.Quality
	}

	var buf bytes.Buffer
	if err = webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("webp.Encode -> %w", err)
	}

	return buf.Bytes(), nil
}
