package asciify

import (
	"fmt"
	"image"
)

// Surface is a read-only rectangular view over a single-channel pixel
// buffer. Rows are Pitch bytes apart; a Surface never owns its memory, so
// windows taken from it alias the parent's pixels.
type Surface struct {
	width  int
	height int
	pitch  int
	pix    []uint8
}

// NewSurface creates a view of width x height pixels over pix. The pitch
// defaults to width (packed rows) when omitted.
func NewSurface(width, height int, pix []uint8, pitch ...int) Surface {
	p := width
	if len(pitch) > 0 {
		p = pitch[0]
	}
	if width < 0 || height < 0 || p < width {
		panic(fmt.Sprintf("asciify: invalid surface %dx%d pitch %d", width, height, p))
	}
	if need := extent(width, height, p); len(pix) < need {
		panic(fmt.Sprintf("asciify: surface %dx%d pitch %d needs %d bytes, have %d",
			width, height, p, need, len(pix)))
	}
	return Surface{width: width, height: height, pitch: p, pix: pix}
}

// FromGray returns a Surface sharing the pixels of img.
func FromGray(img *image.Gray) Surface {
	b := img.Bounds()
	off := img.PixOffset(b.Min.X, b.Min.Y)
	return NewSurface(b.Dx(), b.Dy(), img.Pix[off:], img.Stride)
}

// extent is the number of bytes a width x height view with the given pitch
// spans, the last row not being padded out to the pitch.
func extent(width, height, pitch int) int {
	if width == 0 || height == 0 {
		return 0
	}
	return (height-1)*pitch + width
}

// Width returns the surface width in pixels.
func (s Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s Surface) Height() int { return s.height }

// Pitch returns the distance in bytes between the starts of two rows.
func (s Surface) Pitch() int { return s.pitch }

// Size returns the number of pixels in the view.
func (s Surface) Size() int { return s.width * s.height }

// IsContinuous reports whether the rows are packed with no gap between
// them, in which case Pix holds exactly the surface's pixels.
func (s Surface) IsContinuous() bool { return s.pitch == s.width }

// At returns the pixel at column x, row y.
func (s Surface) At(x, y int) uint8 {
	return s.pix[y*s.pitch+x]
}

// Row returns the pixels of row y. The slice aliases the surface and must
// not be written through.
func (s Surface) Row(y int) []uint8 {
	off := y * s.pitch
	return s.pix[off : off+s.width : off+s.width]
}

// Pix returns the backing bytes covered by the view, including row padding.
func (s Surface) Pix() []uint8 {
	n := extent(s.width, s.height, s.pitch)
	return s.pix[:n:n]
}

// Window returns a view of the w x h sub-rectangle whose top-left corner is
// at (x, y). The rectangle must lie within the surface.
func (s Surface) Window(x, y, w, h int) Surface {
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > s.width || y+h > s.height {
		panic(fmt.Sprintf("asciify: window (%d,%d %dx%d) outside %dx%d surface",
			x, y, w, h, s.width, s.height))
	}
	if w == 0 || h == 0 {
		return Surface{width: w, height: h, pitch: s.pitch}
	}
	off := y*s.pitch + x
	return Surface{
		width:  w,
		height: h,
		pitch:  s.pitch,
		pix:    s.pix[off : off+extent(w, h, s.pitch)],
	}
}

// SameSize reports whether two surfaces have identical dimensions.
func (s Surface) SameSize(o Surface) bool {
	return s.width == o.width && s.height == o.height
}

// MutableSurface is a Surface that may be written.
type MutableSurface struct {
	Surface
}

// NewMutableSurface creates a writable view over pix, see NewSurface.
func NewMutableSurface(width, height int, pix []uint8, pitch ...int) MutableSurface {
	return MutableSurface{NewSurface(width, height, pix, pitch...)}
}

// AllocSurface allocates a packed, zeroed width x height surface.
func AllocSurface(width, height int) MutableSurface {
	return NewMutableSurface(width, height, make([]uint8, width*height))
}

// Set stores v at column x, row y.
func (m MutableSurface) Set(x, y int, v uint8) {
	m.pix[y*m.pitch+x] = v
}

// RowMut returns row y for writing.
func (m MutableSurface) RowMut(y int) []uint8 {
	off := y * m.pitch
	return m.pix[off : off+m.width : off+m.width]
}

// Window returns a writable view of a sub-rectangle.
func (m MutableSurface) Window(x, y, w, h int) MutableSurface {
	return MutableSurface{m.Surface.Window(x, y, w, h)}
}

// Fill sets every pixel in the view to v.
func (m MutableSurface) Fill(v uint8) {
	if m.IsContinuous() {
		p := m.Pix()
		for i := range p {
			p[i] = v
		}
		return
	}
	for y := 0; y < m.height; y++ {
		row := m.RowMut(y)
		for i := range row {
			row[i] = v
		}
	}
}

// CopyFrom copies src into the top-left corner of the view. src must fit.
func (m MutableSurface) CopyFrom(src Surface) {
	if src.width > m.width || src.height > m.height {
		panic(fmt.Sprintf("asciify: cannot copy %dx%d surface into %dx%d",
			src.width, src.height, m.width, m.height))
	}
	if src.SameSize(m.Surface) && src.IsContinuous() && m.IsContinuous() {
		copy(m.Pix(), src.Pix())
		return
	}
	for y := 0; y < src.height; y++ {
		copy(m.RowMut(y), src.Row(y))
	}
}
