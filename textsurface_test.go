package asciify

import (
	"bytes"
	"testing"
)

func TestTextSurface(t *testing.T) {
	ts := NewTextSurface(2, 3)
	if ts.Rows() != 2 || ts.Cols() != 3 {
		t.Fatalf("Expected 2x3, got %dx%d", ts.Rows(), ts.Cols())
	}
	if ts.At(1, 2) != Blank {
		t.Errorf("New surface should be blank, got %q", ts.At(1, 2))
	}

	ts.Set(0, 1, 'x')
	ts.Row(1)[2] = 'y'
	if got := ts.String(); got != " x \n  y\n" {
		t.Errorf("Unexpected text %q", got)
	}

	var buf bytes.Buffer
	n, err := ts.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if n != int64(buf.Len()) || buf.String() != ts.String() {
		t.Errorf("WriteTo wrote %d bytes %q", n, buf.String())
	}

	ts.Resize(1, 1)
	if ts.String() != " \n" {
		t.Errorf("Resize should clear, got %q", ts.String())
	}
}

func TestTextSurfaceOutOfRange(t *testing.T) {
	ts := NewTextSurface(2, 2)
	mustPanic(t, "At", func() { ts.At(2, 0) })
	mustPanic(t, "Set", func() { ts.Set(0, -1, 'a') })
	mustPanic(t, "Row", func() { ts.Row(5) })
}

func TestSymbol(t *testing.T) {
	if Symbol('█').String() != "█" {
		t.Errorf("Unexpected string %q", Symbol('█').String())
	}
	if !Symbol('a').Less('b') || Symbol('b').Less('a') {
		t.Error("Symbols should order by code")
	}
}
