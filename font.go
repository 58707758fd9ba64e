package asciify

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrEmptyFont is returned when a matcher is requested for a glyph
	// store without glyphs.
	ErrEmptyFont = errors.New("asciify: font has no glyphs")

	// ErrInvalidGlyphCache is returned when a glyph cache cannot be decoded
	// into a well-formed font.
	ErrInvalidGlyphCache = errors.New("asciify: invalid glyph cache")
)

// GlyphStore is an indexed collection of same-sized glyph bitmaps. Index
// order must be stable: histograms and PCA bases are built positionally.
type GlyphStore interface {
	GlyphWidth() int
	GlyphHeight() int
	GlyphCount() int
	Glyph(i int) Surface
	Symbol(i int) Symbol
}

// Font is the in-memory GlyphStore. Glyph pixels are stored back to back,
// so every glyph surface is continuous.
type Font struct {
	name    string
	width   int
	height  int
	symbols []Symbol
	pix     []uint8
}

// NewFont creates an empty font whose glyphs are width x height pixels.
func NewFont(name string, width, height int) *Font {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("asciify: invalid glyph size %dx%d", width, height))
	}
	return &Font{name: name, width: width, height: height}
}

// Add appends a glyph for symbol. The bitmap must match the font's glyph
// size; a monospace store cannot hold glyphs of differing sizes.
func (f *Font) Add(symbol Symbol, bitmap Surface) {
	if bitmap.Width() != f.width || bitmap.Height() != f.height {
		panic(fmt.Sprintf("asciify: glyph %q is %dx%d, font %q is %dx%d",
			symbol, bitmap.Width(), bitmap.Height(), f.name, f.width, f.height))
	}
	f.symbols = append(f.symbols, symbol)
	for y := 0; y < f.height; y++ {
		f.pix = append(f.pix, bitmap.Row(y)...)
	}
}

// AddBitmap appends a glyph given as packed row-major pixels.
func (f *Font) AddBitmap(symbol Symbol, pix []uint8) {
	f.Add(symbol, NewSurface(f.width, f.height, pix))
}

// NewFontFromBitmaps builds a font from packed width x height bitmaps, one
// per symbol.
func NewFontFromBitmaps(name string, width, height int, symbols []Symbol, bitmaps [][]uint8) *Font {
	if len(symbols) != len(bitmaps) {
		panic(fmt.Sprintf("asciify: %d symbols for %d bitmaps", len(symbols), len(bitmaps)))
	}
	f := NewFont(name, width, height)
	for i, sym := range symbols {
		f.AddBitmap(sym, bitmaps[i])
	}
	return f
}

// Name returns the font name.
func (f *Font) Name() string { return f.name }

// GlyphWidth returns the width shared by all glyphs.
func (f *Font) GlyphWidth() int { return f.width }

// GlyphHeight returns the height shared by all glyphs.
func (f *Font) GlyphHeight() int { return f.height }

// GlyphCount returns the number of glyphs.
func (f *Font) GlyphCount() int { return len(f.symbols) }

// Glyph returns the bitmap of glyph i.
func (f *Font) Glyph(i int) Surface {
	n := f.width * f.height
	return NewSurface(f.width, f.height, f.pix[i*n:(i+1)*n])
}

// Symbol returns the symbol of glyph i.
func (f *Font) Symbol(i int) Symbol { return f.symbols[i] }

// Index returns the position of the first glyph for s.
func (f *Font) Index(s Symbol) (int, bool) {
	for i, sym := range f.symbols {
		if sym == s {
			return i, true
		}
	}
	return 0, false
}

// fontData is the serialized form of a Font.
type fontData struct {
	Name    string
	Width   int
	Height  int
	Symbols []int32
	Pix     []byte
}

// Save writes the font as a gzip-compressed gob glyph cache.
func (f *Font) Save(w io.Writer) error {
	data := fontData{
		Name:    f.name,
		Width:   f.width,
		Height:  f.height,
		Symbols: make([]int32, len(f.symbols)),
		Pix:     f.pix,
	}
	for i, s := range f.symbols {
		data.Symbols[i] = int32(s)
	}

	gz := gzip.NewWriter(w)
	if err := gob.NewEncoder(gz).Encode(&data); err != nil {
		gz.Close()
		return fmt.Errorf("failed to encode glyph cache: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to close gzip: %w", err)
	}
	return nil
}

// SaveFile writes the glyph cache to path.
func (f *Font) SaveFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := f.Save(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// ReadFont decodes a glyph cache written by Save.
func ReadFont(r io.Reader) (*Font, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidGlyphCache, err)
	}
	defer gz.Close()

	var data fontData
	if err := gob.NewDecoder(gz).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: failed to decode: %w", ErrInvalidGlyphCache, err)
	}
	if data.Width <= 0 || data.Height <= 0 {
		return nil, fmt.Errorf("%w: glyph size %dx%d", ErrInvalidGlyphCache,
			data.Width, data.Height)
	}
	if len(data.Pix) != len(data.Symbols)*data.Width*data.Height {
		return nil, fmt.Errorf("%w: %d bytes for %d glyphs of %dx%d",
			ErrInvalidGlyphCache, len(data.Pix), len(data.Symbols),
			data.Width, data.Height)
	}

	f := NewFont(data.Name, data.Width, data.Height)
	f.symbols = make([]Symbol, len(data.Symbols))
	for i, s := range data.Symbols {
		f.symbols[i] = Symbol(s)
	}
	f.pix = data.Pix
	return f, nil
}

// LoadFontFile reads a glyph cache from path.
func LoadFontFile(path string) (*Font, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer in.Close()
	return ReadFont(in)
}
