package imageutil

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects the filtering applied by PrepareForGrid.
type Mode int

const (
	// ModePlain only resizes.
	ModePlain Mode = iota
	// ModeSharpen resizes, then applies mild sharpening.
	ModeSharpen
	// ModeEdges resizes, then replaces the image by its Sobel gradient
	// magnitude.
	ModeEdges
)

// ParseMode converts "plain", "sharpen" or "edges" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "plain":
		return ModePlain, nil
	case "sharpen":
		return ModeSharpen, nil
	case "edges":
		return ModeEdges, nil
	}
	return ModePlain, fmt.Errorf("unknown preparation mode %q (plain, sharpen, edges)", s)
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeSharpen:
		return "sharpen"
	case ModeEdges:
		return "edges"
	default:
		return "plain"
	}
}

// GridRows returns the number of text rows that keep the image's aspect
// ratio when it is drawn cols cells wide with cellW x cellH cells.
// scale stretches the result vertically, 1 keeping square pixels.
func GridRows(imgW, imgH, cols, cellW, cellH int, scale float64) int {
	if imgW <= 0 || imgH <= 0 || cols <= 0 {
		return 0
	}
	if scale <= 0 {
		scale = 1
	}
	pixelH := float64(cols*cellW) * float64(imgH) / float64(imgW) * scale
	rows := int(math.Round(pixelH / float64(cellH)))
	if rows < 1 {
		rows = 1
	}
	return rows
}

// PrepareForGrid resizes img to exactly cols*cellW x rows*cellH pixels so
// each text cell covers one glyph-sized block, then applies mode.
func PrepareForGrid(img *GrayImage, cols, rows, cellW, cellH int, mode Mode) *GrayImage {
	return Filter(ResizeGray(img, cols*cellW, rows*cellH, InterpolationArea), mode)
}

// Filter applies the filtering step of mode to an image already sized for
// the grid. ModePlain returns img itself.
func Filter(img *GrayImage, mode Mode) *GrayImage {
	switch mode {
	case ModeSharpen:
		return Sharpen(img)
	case ModeEdges:
		return SobelMagnitude(img)
	default:
		return img
	}
}
