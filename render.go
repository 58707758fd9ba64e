package asciify

import (
	"image"
)

// RenderImage draws every cell of ts with its glyph from store, producing
// a grayscale preview of the text output. Symbols missing from the store
// are drawn black. scale repeats each glyph pixel scale x scale times.
func RenderImage(ts *TextSurface, store GlyphStore, scale int) *image.Gray {
	if scale < 1 {
		scale = 1
	}
	gw, gh := store.GlyphWidth(), store.GlyphHeight()
	cellW, cellH := gw*scale, gh*scale
	img := image.NewGray(image.Rect(0, 0, ts.Cols()*cellW, ts.Rows()*cellH))
	dst := NewMutableSurface(img.Rect.Dx(), img.Rect.Dy(), img.Pix, img.Stride)

	index := make(map[Symbol]int, store.GlyphCount())
	for i := store.GlyphCount() - 1; i >= 0; i-- {
		index[store.Symbol(i)] = i
	}

	for r := 0; r < ts.Rows(); r++ {
		for c, sym := range ts.Row(r) {
			i, ok := index[sym]
			if !ok {
				continue
			}
			renderGlyph(dst.Window(c*cellW, r*cellH, cellW, cellH), store.Glyph(i), scale)
		}
	}
	return img
}

// renderGlyph writes glyph into cell, magnified by scale.
func renderGlyph(cell MutableSurface, glyph Surface, scale int) {
	if scale == 1 {
		cell.CopyFrom(glyph)
		return
	}
	for y := 0; y < cell.Height(); y++ {
		src := glyph.Row(y / scale)
		row := cell.RowMut(y)
		for x := range row {
			row[x] = src[x/scale]
		}
	}
}
