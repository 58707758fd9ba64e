package asciify

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"errors"
	"path/filepath"
	"testing"
)

func TestFontAdd(t *testing.T) {
	f := patternFont()
	if f.GlyphCount() != 4 || f.GlyphWidth() != 2 || f.GlyphHeight() != 2 {
		t.Fatalf("Unexpected font %d glyphs of %dx%d",
			f.GlyphCount(), f.GlyphWidth(), f.GlyphHeight())
	}
	if f.Symbol(2) != ':' {
		t.Errorf("Expected ':' at index 2, got %q", f.Symbol(2))
	}
	g := f.Glyph(2)
	if g.At(1, 0) != 255 || g.At(0, 1) != 0 {
		t.Errorf("Glyph 2 has wrong pixels %v", g.Pix())
	}
	if i, ok := f.Index('#'); !ok || i != 3 {
		t.Errorf("Index('#') = %d, %v", i, ok)
	}
	if _, ok := f.Index('?'); ok {
		t.Error("Index should miss unknown symbols")
	}
}

func TestFontAddWrongSize(t *testing.T) {
	f := NewFont("test", 2, 2)
	mustPanic(t, "wrong size", func() { f.Add('a', AllocSurface(3, 2).Surface) })
	mustPanic(t, "bitmap count", func() {
		NewFontFromBitmaps("test", 2, 2, []Symbol{'a', 'b'}, [][]uint8{{0, 0, 0, 0}})
	})
}

func TestFontSaveRead(t *testing.T) {
	f := patternFont()
	var buf bytes.Buffer
	if err := f.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := ReadFont(&buf)
	if err != nil {
		t.Fatalf("ReadFont failed: %v", err)
	}
	if loaded.Name() != f.Name() || loaded.GlyphCount() != f.GlyphCount() {
		t.Fatalf("Loaded %q with %d glyphs", loaded.Name(), loaded.GlyphCount())
	}
	for i := 0; i < f.GlyphCount(); i++ {
		if loaded.Symbol(i) != f.Symbol(i) {
			t.Errorf("Symbol %d: %q, want %q", i, loaded.Symbol(i), f.Symbol(i))
		}
		if SquaredEuclidean(loaded.Glyph(i), f.Glyph(i)) != 0 {
			t.Errorf("Glyph %d differs after round trip", i)
		}
	}
}

func TestFontSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pattern.glyphs")
	if err := patternFont().SaveFile(path); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	f, err := OpenFont(path)
	if err != nil {
		t.Fatalf("OpenFont failed: %v", err)
	}
	if f.GlyphCount() != 4 {
		t.Errorf("Expected 4 glyphs, got %d", f.GlyphCount())
	}
}

func TestReadFontInvalid(t *testing.T) {
	encode := func(data fontData) *bytes.Buffer {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if err := gob.NewEncoder(gz).Encode(&data); err != nil {
			t.Fatalf("encode: %v", err)
		}
		gz.Close()
		return &buf
	}

	tests := []struct {
		name string
		in   *bytes.Buffer
	}{
		{"not gzip", bytes.NewBufferString("hello")},
		{"short pixels", encode(fontData{Name: "x", Width: 2, Height: 2,
			Symbols: []int32{'a', 'b'}, Pix: make([]byte, 6)})},
		{"zero size", encode(fontData{Name: "x", Width: 0, Height: 2})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFont(tt.in)
			if !errors.Is(err, ErrInvalidGlyphCache) {
				t.Errorf("Expected ErrInvalidGlyphCache, got %v", err)
			}
		})
	}
}

func TestBasicFont(t *testing.T) {
	f := BasicFont()
	if f.GlyphWidth() != 7 || f.GlyphHeight() != 13 {
		t.Fatalf("Expected 7x13 glyphs, got %dx%d", f.GlyphWidth(), f.GlyphHeight())
	}
	if f.GlyphCount() != len(PrintableASCII()) {
		t.Errorf("Expected %d glyphs, got %d", len(PrintableASCII()), f.GlyphCount())
	}
	space, _ := f.Index(' ')
	hash, _ := f.Index('#')
	if PixelSum(f.Glyph(space)) != 0 {
		t.Error("Space should be blank")
	}
	if PixelSum(f.Glyph(hash)) == 0 {
		t.Error("'#' should have ink")
	}
}

func TestOpenFontBasic(t *testing.T) {
	f, err := OpenFont("basic")
	if err != nil {
		t.Fatalf("OpenFont failed: %v", err)
	}
	if f.Name() != "basic7x13" {
		t.Errorf("Unexpected font %q", f.Name())
	}
	if _, err := OpenFont(filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Error("Expected an error for a missing font")
	}
}

func TestCoverageThreshold(t *testing.T) {
	f := BasicFont()
	hash, _ := f.Index('#')
	for _, v := range f.Glyph(hash).Pix() {
		if v != 0 && v != 255 {
			// basicfont is a bitmap face, coverage is already binary.
			t.Fatalf("Unexpected coverage %d", v)
		}
	}
}
