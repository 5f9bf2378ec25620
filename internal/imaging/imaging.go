package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 85

var ErrUnsupportedImage = errors.New("unsupported image format")

// Result is a normalised photo ready for storage.
type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Normalize checks that data is a decodable image. Images wider than
// maxWidth are downscaled and re-encoded as JPEG; smaller ones are kept
// byte for byte. A non-positive maxWidth disables resizing.
func Normalize(data []byte, maxWidth int) (Result, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	if maxWidth <= 0 || cfg.Width <= maxWidth {
		return Result{
			Data:        data,
			ContentType: "image/" + format,
			Width:       cfg.Width,
			Height:      cfg.Height,
		}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Result{}, fmt.Errorf("encode jpeg: %w", err)
	}

	return Result{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Width:       maxWidth,
		Height:      newH,
	}, nil
}
