// Package imageutil prepares images for text conversion: decoding,
// grayscale conversion, resizing to a cell grid and simple filtering.
// Every helper works on single-channel images.
package imageutil

import (
	"image"
	"image/color"
)

// GrayImage wraps image.Gray with convenience methods for pixel access.
type GrayImage struct {
	*image.Gray
}

// NewGrayImage creates a new GrayImage with the specified dimensions.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{
		Gray: image.NewGray(image.Rect(0, 0, width, height)),
	}
}

// Width returns the image width.
func (img *GrayImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *GrayImage) Height() int {
	return img.Bounds().Dy()
}

// GetGray returns the grayscale value at (x, y).
func (img *GrayImage) GetGray(x, y int) uint8 {
	return img.GrayAt(x, y).Y
}

// SetGrayValue sets the grayscale value at (x, y).
func (img *GrayImage) SetGrayValue(x, y int, v uint8) {
	img.Gray.SetGray(x, y, color.Gray{Y: v})
}

// Invert returns a copy with every value v replaced by 255-v, for dark
// glyphs on a light background.
func (img *GrayImage) Invert() *GrayImage {
	inv := img.Clone()
	for i, v := range inv.Pix {
		inv.Pix[i] = 255 - v
	}
	return inv
}

// Clone creates a deep copy of the image, rebased at the origin.
func (img *GrayImage) Clone() *GrayImage {
	clone := NewGrayImage(img.Width(), img.Height())
	b := img.Bounds()
	for y := 0; y < clone.Height(); y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(clone.Pix[y*clone.Stride:], img.Pix[off:off+clone.Width()])
	}
	return clone
}
