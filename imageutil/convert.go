package imageutil

import (
	"image"
	"image/color"
)

// ToGrayscale converts any image to grayscale using the BT.601 luminance
// formula Y = 0.299*R + 0.587*G + 0.114*B, in integer arithmetic. The
// result is rebased at the origin.
func ToGrayscale(img image.Image) *GrayImage {
	b := img.Bounds()
	gray := NewGrayImage(b.Dx(), b.Dy())

	if src, ok := img.(*image.Gray); ok {
		for y := 0; y < b.Dy(); y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(gray.Pix[y*gray.Stride:], src.Pix[off:off+b.Dx()])
		}
		return gray
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := gray.Pix[(y-b.Min.Y)*gray.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			row[x-b.Min.X] = luminance(img.At(x, y))
		}
	}
	return gray
}

// luminance returns the BT.601 luma of c. Colors are composited over
// black, so transparent pixels read dark.
func luminance(c color.Color) uint8 {
	r, g, b, _ := c.RGBA()
	lum := (299*(r>>8) + 587*(g>>8) + 114*(b>>8) + 500) / 1000
	if lum > 255 {
		lum = 255
	}
	return uint8(lum)
}
