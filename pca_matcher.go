package asciify

import (
	"fmt"

	"github.com/wbrown/asciify/pca"
)

// pcaContext matches in the space spanned by the leading principal
// components of the glyph set.
type pcaContext struct {
	glyphTable
	model *pca.Model
}

// DefaultComponents returns the component count used when none is
// requested: one less than the glyph count, which keeps every direction
// along which the glyphs differ, bounded by the glyph size.
func DefaultComponents(store GlyphStore) int {
	k := store.GlyphCount() - 1
	if size := store.GlyphWidth() * store.GlyphHeight(); k > size {
		k = size
	}
	if k < 1 {
		k = 1
	}
	return k
}

// NewPCAContext analyses the glyphs of store and keeps k components.
func NewPCAContext(store GlyphStore, k int) (Context, error) {
	c := &pcaContext{glyphTable: newGlyphTable(store)}
	if len(c.glyphs) == 0 {
		return nil, ErrEmptyFont
	}
	samples := make([][]float64, len(c.glyphs))
	for i, g := range c.glyphs {
		samples[i] = flatten(g, make([]float64, c.width*c.height))
	}
	analyzer, err := pca.Analyze(samples)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze font: %w", err)
	}
	c.model = analyzer.Extract(k)
	Logger().Debug("pca basis extracted", "glyphs", len(c.glyphs),
		"dim", analyzer.Dim(), "k", c.model.K())
	return c, nil
}

func (c *pcaContext) Name() string { return "pca" }

// Model returns the reduced basis.
func (c *pcaContext) Model() *pca.Model { return c.model }

func (c *pcaContext) NewMatcher() Matcher {
	dim := c.width * c.height
	return &pcaMatcher{
		ctx:     c,
		vec:     make([]float64, dim),
		centred: make([]float64, dim),
		comps:   make([]float64, c.model.K()),
	}
}

type pcaMatcher struct {
	ctx     *pcaContext
	vec     []float64
	centred []float64
	comps   []float64
}

func (m *pcaMatcher) Match(block Surface) Symbol {
	if block.Width() > m.ctx.width || block.Height() > m.ctx.height {
		panic(fmt.Sprintf("asciify: block %dx%d larger than %dx%d cell",
			block.Width(), block.Height(), m.ctx.width, m.ctx.height))
	}
	for i := range m.vec {
		m.vec[i] = 0
	}
	if block.Width() == m.ctx.width && block.IsContinuous() {
		// Packed rows of full width line up with the glyph layout.
		for i, v := range block.Pix() {
			m.vec[i] = float64(v)
		}
	} else {
		for y := 0; y < block.Height(); y++ {
			row := m.vec[y*m.ctx.width:]
			for x, v := range block.Row(y) {
				row[x] = float64(v)
			}
		}
	}
	m.comps = m.ctx.model.Project(m.vec, m.comps, m.centred)
	return m.ctx.symbols[m.ctx.model.Closest(m.comps)]
}

// flatten copies s row-major into dst as floats.
func flatten(s Surface, dst []float64) []float64 {
	i := 0
	for y := 0; y < s.Height(); y++ {
		for _, v := range s.Row(y) {
			dst[i] = float64(v)
			i++
		}
	}
	return dst
}
