package media

import (
	"bytes"
	"fmt"
	"image"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const (
	optimizedQuality = 85
	thumbQuality     = 80
	thumbMaxWidth    = 400
)

// derivedImage holds the re-encoded renditions produced from one source image.
type derivedImage struct {
	Optimized   []byte
	Thumb       []byte
	AspectRatio float64
}

// deriveImageVariants decodes the source bytes and produces the optimized
// full-size WebP plus the downscaled thumbnail WebP. The thumbnail never
// upscales: sources at or below the max width are re-encoded as-is.
func deriveImageVariants(source []byte) (*derivedImage, error) {
	img, err := imaging.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	optimized, err := encodeWebP(img, optimizedQuality)
	if err != nil {
		return nil, fmt.Errorf("encode optimized: %w", err)
	}

	thumbImg := img
	if width > thumbMaxWidth {
		thumbImg = imaging.Resize(img, thumbMaxWidth, 0, imaging.Lanczos)
	}
	thumb, err := encodeWebP(thumbImg, thumbQuality)
	if err != nil {
		return nil, fmt.Errorf("encode thumb: %w", err)
	}

	return &derivedImage{
		Optimized:   optimized,
		Thumb:       thumb,
		AspectRatio: float64(height) / float64(width),
	}, nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
