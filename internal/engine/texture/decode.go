// Package texture decodes image files into RGBA pixel data ready for upload.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmpty is returned for zero-length image data.
var ErrEmpty = errors.New("texture: empty image data")

// Decode decodes PNG, JPEG, GIF, BMP, TIFF or WebP data into an RGBA image.
// The returned string is the detected format name.
func Decode(data []byte) (*image.RGBA, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmpty
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("texture: decode: %w", err)
	}
	return ToRGBA(img), format, nil
}

// ToRGBA returns img as an *image.RGBA with its origin at (0,0), converting
// only when necessary. Rows stay in file order (top row first).
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}
