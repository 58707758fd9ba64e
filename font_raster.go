package asciify

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// fontConfig collects the rasterization settings for LoadTTF.
type fontConfig struct {
	symbols   []Symbol
	width     int
	height    int
	size      float64
	threshold uint8
}

// FontOption configures glyph rasterization.
type FontOption func(*fontConfig)

// WithSymbols sets the characters to rasterize, in store order.
func WithSymbols(runes []rune) FontOption {
	return func(c *fontConfig) {
		c.symbols = c.symbols[:0]
		for _, r := range runes {
			c.symbols = append(c.symbols, Symbol(r))
		}
	}
}

// WithCellSize sets the glyph bitmap size.
func WithCellSize(width, height int) FontOption {
	return func(c *fontConfig) {
		c.width, c.height = width, height
	}
}

// WithFontSize sets the point size at 72 DPI. Zero uses the cell height.
func WithFontSize(size float64) FontOption {
	return func(c *fontConfig) {
		c.size = size
	}
}

// WithThreshold binarizes glyphs: coverage above t becomes 255, the rest 0.
// Zero keeps the anti-aliased coverage as intensity.
func WithThreshold(t uint8) FontOption {
	return func(c *fontConfig) {
		c.threshold = t
	}
}

// PrintableASCII returns the runes from space to tilde.
func PrintableASCII() []rune {
	runes := make([]rune, 0, 95)
	for r := rune(32); r <= rune(126); r++ {
		runes = append(runes, r)
	}
	return runes
}

// BlockElements returns the Unicode block and shade characters.
func BlockElements() []rune {
	return []rune{
		'▀', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█',
		'▌', '▍', '▎', '▏', '▐', '░', '▒', '▓',
		'▔', '▕', '▖', '▗', '▘', '▙', '▚', '▛', '▜', '▝', '▞', '▟',
	}
}

func newFontConfig(opts []FontOption) *fontConfig {
	c := &fontConfig{width: 8, height: 16}
	WithSymbols(PrintableASCII())(c)
	for _, opt := range opts {
		opt(c)
	}
	if c.size <= 0 {
		c.size = float64(c.height)
	}
	return c
}

// LoadTTF rasterizes a TrueType font into a Font. Glyphs are drawn white
// on black, baseline placed from the face metrics so descenders fit.
func LoadTTF(path string, opts ...FontOption) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font %s: %w", path, err)
	}
	ttf, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}
	return RasterizeTTF(filepath.Base(path), ttf, opts...), nil
}

// OpenFont resolves a font argument: "basic" selects BasicFont, a .ttf or
// .otf path is rasterized with opts and anything else is read as a glyph
// cache written by Font.Save.
func OpenFont(name string, opts ...FontOption) (*Font, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf":
		return LoadTTF(name, opts...)
	}
	if name == "basic" {
		return BasicFont(), nil
	}
	return LoadFontFile(name)
}

// RasterizeTTF renders the configured symbols of ttf into a Font.
func RasterizeTTF(name string, ttf *truetype.Font, opts ...FontOption) *Font {
	cfg := newFontConfig(opts)

	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    cfg.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	baseline := (cfg.height + ascent - descent) / 2

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(cfg.size)
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingFull)

	f := NewFont(name, cfg.width, cfg.height)
	for _, sym := range cfg.symbols {
		img := image.NewAlpha(image.Rect(0, 0, cfg.width, cfg.height))
		ctx.SetClip(img.Bounds())
		ctx.SetDst(img)
		if _, err := ctx.DrawString(string(rune(sym)), freetype.Pt(0, baseline)); err != nil {
			Logger().Debug("skipping glyph", "font", name, "symbol", sym.String(), "err", err)
			continue
		}
		f.AddBitmap(sym, coverage(img, cfg.threshold))
	}
	Logger().Debug("rasterized font", "font", name, "glyphs", f.GlyphCount(),
		"cell", fmt.Sprintf("%dx%d", cfg.width, cfg.height))
	return f
}

// BasicFont returns the built-in 7x13 font covering printable ASCII.
func BasicFont() *Font {
	face := basicfont.Face7x13
	f := NewFont("basic7x13", face.Advance, face.Height)
	for _, r := range PrintableASCII() {
		img := image.NewAlpha(image.Rect(0, 0, face.Advance, face.Height))
		d := font.Drawer{
			Dst:  img,
			Src:  image.Opaque,
			Face: face,
			Dot:  fixed.P(0, face.Ascent),
		}
		d.DrawString(string(r))
		f.AddBitmap(Symbol(r), coverage(img, 0))
	}
	return f
}

// coverage converts an alpha mask into packed intensity pixels.
func coverage(img *image.Alpha, threshold uint8) []uint8 {
	b := img.Bounds()
	pix := make([]uint8, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := img.AlphaAt(x, y).A
			if threshold > 0 {
				if a > threshold {
					a = 255
				} else {
					a = 0
				}
			}
			pix = append(pix, a)
		}
	}
	return pix
}
