package imageutil

import "math"

// Kernel represents a convolution kernel.
type Kernel struct {
	Values [][]float64
	Width  int
	Height int
}

// NewKernel creates a new kernel from a 2D slice.
func NewKernel(values [][]float64) *Kernel {
	height := len(values)
	width := 0
	if height > 0 {
		width = len(values[0])
	}
	return &Kernel{
		Values: values,
		Width:  width,
		Height: height,
	}
}

// SharpeningKernel returns a mild 3x3 sharpening kernel.
func SharpeningKernel() *Kernel {
	return NewKernel([][]float64{
		{0, -0.5, 0},
		{-0.5, 3, -0.5},
		{0, -0.5, 0},
	})
}

// GaussianKernel3x3 returns a 3x3 Gaussian blur kernel.
func GaussianKernel3x3() *Kernel {
	return NewKernel([][]float64{
		{1.0 / 16, 2.0 / 16, 1.0 / 16},
		{2.0 / 16, 4.0 / 16, 2.0 / 16},
		{1.0 / 16, 2.0 / 16, 1.0 / 16},
	})
}

// convolveAt returns the kernel response centred on (x, y). Border pixels
// are handled by replicating edge values.
func convolveAt(img *GrayImage, kernel *Kernel, x, y int) float64 {
	width, height := img.Width(), img.Height()
	halfKW, halfKH := kernel.Width/2, kernel.Height/2
	var sum float64
	for ky := 0; ky < kernel.Height; ky++ {
		sy := clampInt(y+ky-halfKH, 0, height-1)
		row := img.Pix[sy*img.Stride:]
		for kx := 0; kx < kernel.Width; kx++ {
			sx := clampInt(x+kx-halfKW, 0, width-1)
			sum += float64(row[sx]) * kernel.Values[ky][kx]
		}
	}
	return sum
}

// Convolve applies a convolution kernel to an origin-based grayscale image.
func Convolve(img *GrayImage, kernel *Kernel) *GrayImage {
	width, height := img.Width(), img.Height()
	dst := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dst.Pix[y*dst.Stride+x] = clampUint8(convolveAt(img, kernel, x, y))
		}
	}
	return dst
}

// Sharpen applies the mild sharpening filter.
func Sharpen(img *GrayImage) *GrayImage {
	return Convolve(img, SharpeningKernel())
}

// GaussianBlur applies a 3x3 Gaussian blur.
func GaussianBlur(img *GrayImage) *GrayImage {
	return Convolve(img, GaussianKernel3x3())
}

// SobelMagnitude returns the gradient magnitude of a lightly blurred copy
// of img, clamped to [0, 255]. Flat regions become black and outlines
// bright, which suits line-art glyph matching.
func SobelMagnitude(img *GrayImage) *GrayImage {
	gxKernel := NewKernel([][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	})
	gyKernel := NewKernel([][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	})
	blurred := GaussianBlur(img)
	width, height := img.Width(), img.Height()
	dst := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := convolveAt(blurred, gxKernel, x, y)
			gy := convolveAt(blurred, gyKernel, x, y)
			dst.Pix[y*dst.Stride+x] = clampUint8(math.Hypot(gx, gy))
		}
	}
	return dst
}

// clampInt clamps an integer to the given range.
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampUint8 clamps a float64 to [0, 255] and converts to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
