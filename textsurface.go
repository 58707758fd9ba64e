package asciify

import (
	"fmt"
	"io"
	"strings"
)

// Symbol is the character a glyph stands for.
type Symbol rune

// Blank is the symbol a TextSurface is cleared to.
const Blank Symbol = ' '

// String returns the symbol as a one-character string.
func (s Symbol) String() string { return string(rune(s)) }

// Less orders symbols by code.
func (s Symbol) Less(o Symbol) bool { return s < o }

// TextSurface is a dense rows x cols grid of symbols stored row-major.
type TextSurface struct {
	rows  int
	cols  int
	cells []Symbol
}

// NewTextSurface allocates a grid of the given size cleared to Blank.
func NewTextSurface(rows, cols int) *TextSurface {
	ts := &TextSurface{}
	ts.Resize(rows, cols)
	return ts
}

// Rows returns the number of rows.
func (ts *TextSurface) Rows() int { return ts.rows }

// Cols returns the number of columns.
func (ts *TextSurface) Cols() int { return ts.cols }

// Resize reallocates the grid and clears every cell to Blank.
func (ts *TextSurface) Resize(rows, cols int) {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("asciify: invalid text surface size %dx%d", rows, cols))
	}
	ts.rows, ts.cols = rows, cols
	ts.cells = make([]Symbol, rows*cols)
	ts.Clear()
}

// Clear sets every cell to Blank.
func (ts *TextSurface) Clear() {
	for i := range ts.cells {
		ts.cells[i] = Blank
	}
}

func (ts *TextSurface) index(row, col int) int {
	if row < 0 || row >= ts.rows || col < 0 || col >= ts.cols {
		panic(fmt.Sprintf("asciify: cell (%d,%d) outside %dx%d text surface",
			row, col, ts.rows, ts.cols))
	}
	return row*ts.cols + col
}

// At returns the symbol at (row, col).
func (ts *TextSurface) At(row, col int) Symbol {
	return ts.cells[ts.index(row, col)]
}

// Set stores s at (row, col).
func (ts *TextSurface) Set(row, col int, s Symbol) {
	ts.cells[ts.index(row, col)] = s
}

// Row returns the cells of one row. Writes through the slice land in the
// grid; disjoint rows may be written concurrently.
func (ts *TextSurface) Row(row int) []Symbol {
	if row < 0 || row >= ts.rows {
		panic(fmt.Sprintf("asciify: row %d outside %d-row text surface", row, ts.rows))
	}
	off := row * ts.cols
	return ts.cells[off : off+ts.cols : off+ts.cols]
}

// String renders the grid as text, one line per row.
func (ts *TextSurface) String() string {
	var sb strings.Builder
	sb.Grow(ts.rows * (ts.cols + 1))
	for r := 0; r < ts.rows; r++ {
		for _, s := range ts.Row(r) {
			sb.WriteRune(rune(s))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteTo writes the text rendering of the grid to w.
func (ts *TextSurface) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, ts.String())
	return int64(n), err
}
