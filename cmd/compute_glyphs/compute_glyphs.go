package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/wbrown/asciify"
)

// computeFontGlyphs rasterizes the selected character set of a font.
func computeFontGlyphs(fontPath string, width, height int, size float64, threshold int, blocks bool) (*asciify.Font, error) {
	symbols := asciify.PrintableASCII()
	if blocks {
		symbols = append(symbols, asciify.BlockElements()...)
	}
	if threshold < 0 || threshold > 255 {
		return nil, fmt.Errorf("threshold %d outside 0..255", threshold)
	}

	font, err := asciify.LoadTTF(fontPath,
		asciify.WithSymbols(symbols),
		asciify.WithCellSize(width, height),
		asciify.WithFontSize(size),
		asciify.WithThreshold(uint8(threshold)))
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	if font.GlyphCount() == 0 {
		return nil, asciify.ErrEmptyFont
	}
	return font, nil
}

func main() {
	inputFont := flag.String("font", "", "Path to the input font file (required)")
	outputFile := flag.String("output", "", "Path to save the output glyph data file (required)")
	width := flag.Int("width", 8, "Glyph cell width in pixels")
	height := flag.Int("height", 16, "Glyph cell height in pixels")
	size := flag.Float64("size", 0, "Font size in points at 72 DPI, 0 uses the cell height")
	threshold := flag.Int("threshold", 0, "Binarize coverage above this alpha, 0 keeps anti-aliasing")
	blocks := flag.Bool("blocks", false, "Include Unicode block elements")
	flag.Parse()

	if *inputFont == "" || *outputFile == "" {
		fmt.Println("Both -font and -output flags are required")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *width <= 0 || *height <= 0 {
		log.Fatalf("Invalid cell size %dx%d", *width, *height)
	}

	log.Printf("Computing %dx%d glyphs for font: %s", *width, *height, *inputFont)

	font, err := computeFontGlyphs(*inputFont, *width, *height, *size, *threshold, *blocks)
	if err != nil {
		log.Fatalf("Failed to compute glyphs: %v", err)
	}

	log.Printf("Computed %d glyphs", font.GlyphCount())

	if err := font.SaveFile(*outputFile); err != nil {
		log.Fatalf("Failed to save glyph data: %v", err)
	}

	// Report file size
	fileInfo, err := os.Stat(*outputFile)
	if err == nil {
		log.Printf("Saved glyph data to %s (%.2f KB)", *outputFile, float64(fileInfo.Size())/1024)
	}

	baseName := strings.TrimSuffix(filepath.Base(*inputFont), filepath.Ext(*inputFont))
	suggestedName := strings.ToLower(strings.ReplaceAll(baseName, " ", "_")) + ".glyphs"
	log.Printf("Use with: asciify -font %s", suggestedName)
}
