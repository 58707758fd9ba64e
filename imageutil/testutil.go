package imageutil

import (
	"math"
)

// CreateGradientImage creates a horizontal gradient test image.
func CreateGradientImage(width, height int) *GrayImage {
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Pix[y*img.Stride+x] = uint8(255 * x / max(width-1, 1))
		}
	}
	return img
}

// CreateVerticalGradientImage creates a vertical gradient test image.
func CreateVerticalGradientImage(width, height int) *GrayImage {
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		v := uint8(255 * y / max(height-1, 1))
		for x := 0; x < width; x++ {
			img.Pix[y*img.Stride+x] = v
		}
	}
	return img
}

// CreateCheckerboardImage creates a black and white checkerboard.
func CreateCheckerboardImage(width, height, squareSize int) *GrayImage {
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				img.Pix[y*img.Stride+x] = 255
			}
		}
	}
	return img
}

// CreateSolidImage creates an image filled with v.
func CreateSolidImage(width, height int, v uint8) *GrayImage {
	img := NewGrayImage(width, height)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// CreateEdgeImage creates a gray image with a white rectangle and a black
// diagonal, for filter tests.
func CreateEdgeImage(width, height int) *GrayImage {
	img := CreateSolidImage(width, height, 128)
	for y := height / 4; y < 3*height/4; y++ {
		for x := width / 4; x < 3*width/4; x++ {
			img.Pix[y*img.Stride+x] = 255
		}
	}
	for i := 0; i < min(width, height)/2; i++ {
		img.Pix[i*img.Stride+i] = 0
	}
	return img
}

// CalculateMSE calculates the mean squared error between two images.
func CalculateMSE(img1, img2 *GrayImage) float64 {
	if img1.Width() != img2.Width() || img1.Height() != img2.Height() {
		return math.MaxFloat64
	}

	width, height := img1.Width(), img1.Height()
	var sumSq float64
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := float64(img1.GetGray(x, y)) - float64(img2.GetGray(x, y))
			sumSq += d * d
		}
	}
	return sumSq / float64(width*height)
}
