package asciify

import (
	"fmt"
	"math"
)

// Context holds the read-only state of one matching algorithm for one
// glyph store. It is shared by every worker and must not change after
// construction.
type Context interface {
	// Name returns the algorithm name the context was built for.
	Name() string
	// Store returns the glyph store matched against.
	Store() GlyphStore
	// CellWidth and CellHeight equal the glyph dimensions.
	CellWidth() int
	CellHeight() int
	// NewMatcher returns a fresh matcher with its own scratch buffers.
	NewMatcher() Matcher
}

// Matcher finds the glyph that best represents an image block. A Matcher
// owns mutable scratch space and must be used by one goroutine at a time.
type Matcher interface {
	// Match returns the symbol of the best glyph for block. The block may
	// be smaller than a cell; the missing area reads as black.
	Match(block Surface) Symbol
}

// glyphTable is the positional view of a store captured at context
// construction, so the hot loops avoid interface calls per glyph.
type glyphTable struct {
	store   GlyphStore
	width   int
	height  int
	glyphs  []Surface
	symbols []Symbol
}

func newGlyphTable(store GlyphStore) glyphTable {
	n := store.GlyphCount()
	t := glyphTable{
		store:   store,
		width:   store.GlyphWidth(),
		height:  store.GlyphHeight(),
		glyphs:  make([]Surface, n),
		symbols: make([]Symbol, n),
	}
	for i := 0; i < n; i++ {
		g := store.Glyph(i)
		if g.Width() != t.width || g.Height() != t.height {
			panic(fmt.Sprintf("asciify: glyph %d is %dx%d in a %dx%d store",
				i, g.Width(), g.Height(), t.width, t.height))
		}
		t.glyphs[i] = g
		t.symbols[i] = store.Symbol(i)
	}
	return t
}

func (t *glyphTable) Store() GlyphStore { return t.store }
func (t *glyphTable) CellWidth() int    { return t.width }
func (t *glyphTable) CellHeight() int   { return t.height }

// cellPadder turns blocks smaller than a cell into full cells by copying
// them onto a black scratch surface.
type cellPadder struct {
	cell MutableSurface
}

func newCellPadder(width, height int) cellPadder {
	return cellPadder{cell: AllocSurface(width, height)}
}

// pad returns block itself when it already has the cell's size.
func (p *cellPadder) pad(block Surface) Surface {
	if block.SameSize(p.cell.Surface) {
		return block
	}
	p.cell.Fill(0)
	p.cell.CopyFrom(block)
	return p.cell.Surface
}

// euclideanContext matches by squared Euclidean pixel distance.
type euclideanContext struct {
	glyphTable
}

// NewEuclideanContext returns a context matching by squared Euclidean
// distance.
func NewEuclideanContext(store GlyphStore) Context {
	return &euclideanContext{glyphTable: newGlyphTable(store)}
}

func (c *euclideanContext) Name() string { return "sed" }

func (c *euclideanContext) NewMatcher() Matcher {
	return &euclideanMatcher{ctx: c, padder: newCellPadder(c.width, c.height)}
}

type euclideanMatcher struct {
	ctx    *euclideanContext
	padder cellPadder
}

func (m *euclideanMatcher) Match(block Surface) Symbol {
	cell := m.padder.pad(block)
	best, bestDist := 0, math.Inf(1)
	for i, g := range m.ctx.glyphs {
		if d := SquaredEuclidean(cell, g); d < bestDist {
			best, bestDist = i, d
		}
	}
	return m.ctx.symbols[best]
}

// meansContext matches by difference of pixel sums. Glyph sums are
// computed once.
type meansContext struct {
	glyphTable
	sums []int64
}

// NewMeansContext returns a context matching by means distance.
func NewMeansContext(store GlyphStore) Context {
	c := &meansContext{glyphTable: newGlyphTable(store)}
	c.sums = make([]int64, len(c.glyphs))
	for i, g := range c.glyphs {
		c.sums[i] = PixelSum(g)
	}
	return c
}

func (c *meansContext) Name() string { return "md" }

func (c *meansContext) NewMatcher() Matcher {
	return &meansMatcher{ctx: c}
}

type meansMatcher struct {
	ctx *meansContext
}

// Match needs no padding: black padding adds nothing to the sum.
func (m *meansMatcher) Match(block Surface) Symbol {
	if block.Width() > m.ctx.width || block.Height() > m.ctx.height {
		panic(fmt.Sprintf("asciify: block %dx%d larger than %dx%d cell",
			block.Width(), block.Height(), m.ctx.width, m.ctx.height))
	}
	sum := PixelSum(block)
	best, bestDist := 0, int64(math.MaxInt64)
	for i, gs := range m.ctx.sums {
		d := sum - gs
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return m.ctx.symbols[best]
}

// mutualInfoContext matches by normalized mutual information of binned
// intensities. Binned glyph pixels and glyph entropies are precomputed.
type mutualInfoContext struct {
	glyphTable
	quant     *Quantizer
	binned    [][]uint8
	histos    []Histogram
	entropies []float64
}

// NewMutualInfoContext returns a context matching by normalized mutual
// information over the given number of intensity bins.
func NewMutualInfoContext(store GlyphStore, bins int) Context {
	c := &mutualInfoContext{
		glyphTable: newGlyphTable(store),
		quant:      NewQuantizer(bins),
	}
	size := c.width * c.height
	c.binned = make([][]uint8, len(c.glyphs))
	c.histos = make([]Histogram, len(c.glyphs))
	c.entropies = make([]float64, len(c.glyphs))
	for i, g := range c.glyphs {
		c.binned[i] = c.quant.Quantize(g, make([]uint8, 0, size))
		c.histos[i] = NewHistogram(c.binned[i], bins)
		c.entropies[i] = Entropy(c.histos[i], size)
	}
	return c
}

func (c *mutualInfoContext) Name() string { return "mi" }

// Bins returns the number of intensity bins.
func (c *mutualInfoContext) Bins() int { return c.quant.Bins() }

func (c *mutualInfoContext) NewMatcher() Matcher {
	size := c.width * c.height
	return &mutualInfoMatcher{
		ctx:    c,
		padder: newCellPadder(c.width, c.height),
		binned: make([]uint8, 0, size),
		hist:   make(Histogram, c.quant.Bins()),
		joint:  NewJointHistogram(c.quant.Bins()),
	}
}

type mutualInfoMatcher struct {
	ctx    *mutualInfoContext
	padder cellPadder
	binned []uint8
	hist   Histogram
	joint  *JointHistogram
}

func (m *mutualInfoMatcher) Match(block Surface) Symbol {
	cell := m.padder.pad(block)
	m.binned = m.ctx.quant.Quantize(cell, m.binned)
	size := len(m.binned)
	m.hist.Count(m.binned)
	ha := Entropy(m.hist, size)

	best, bestScore := 0, math.Inf(-1)
	for i, gb := range m.ctx.binned {
		m.joint.Accumulate(m.binned, gb)
		score := NormalizedMutualInformation(ha, m.ctx.entropies[i], m.joint.Entropy(size))
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return m.ctx.symbols[best]
}
