package asciify

// solidFont returns a 2x2 font with one glyph per symbol, every pixel of
// glyph i set to values[i].
func solidFont(symbols string, values ...uint8) *Font {
	f := NewFont("solid", 2, 2)
	for i, r := range symbols {
		v := values[i]
		f.AddBitmap(Symbol(r), []uint8{v, v, v, v})
	}
	return f
}

// patternFont returns a 2x2 font whose glyphs differ in brightness and in
// the shape of their lit area, so every policy can tell them apart.
func patternFont() *Font {
	return NewFontFromBitmaps("pattern", 2, 2,
		[]Symbol{' ', '.', ':', '#'},
		[][]uint8{
			{0, 0, 0, 0},
			{255, 0, 0, 0},
			{255, 255, 0, 0},
			{255, 255, 255, 0},
		})
}

// gradientSurface returns a width x height surface whose pixel values vary
// in both directions.
func gradientSurface(width, height int) Surface {
	pix := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pix[y*width+x] = uint8((x*7 + y*13 + (x*y)%31) % 256)
		}
	}
	return NewSurface(width, height, pix)
}

func allPolicies() []string {
	return []string{"sed", "md", "mi", "pca"}
}
