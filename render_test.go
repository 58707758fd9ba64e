package asciify

import (
	"testing"
)

func TestRenderImage(t *testing.T) {
	font := patternFont()
	ts := NewTextSurface(1, 2)
	ts.Set(0, 0, ':')
	ts.Set(0, 1, '?')

	img := RenderImage(ts, font, 1)
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 2 {
		t.Fatalf("Expected 4x2 image, got %v", img.Bounds())
	}
	want := []uint8{
		255, 255, 0, 0,
		0, 0, 0, 0,
	}
	for i, v := range img.Pix {
		if v != want[i] {
			t.Fatalf("Pixel %d = %d, want %d", i, v, want[i])
		}
	}
}

func TestRenderImageScaled(t *testing.T) {
	font := patternFont()
	ts := NewTextSurface(1, 1)
	ts.Set(0, 0, '.')

	img := RenderImage(ts, font, 3)
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 6 {
		t.Fatalf("Expected 6x6 image, got %v", img.Bounds())
	}
	if img.GrayAt(2, 2).Y != 255 || img.GrayAt(3, 2).Y != 0 || img.GrayAt(2, 3).Y != 0 {
		t.Error("Scaled glyph pixels are in the wrong place")
	}
}

func TestRenderRoundTrip(t *testing.T) {
	// Rendering a generated grid and generating again reproduces it.
	font := BasicFont()
	ctx := NewEuclideanContext(font)
	src := generate(NewSequential(ctx), gradientSurface(7*12, 13*4), 4, 12)

	img := RenderImage(src, font, 1)
	again := generate(NewSequential(ctx), FromGray(img), 4, 12)
	for r := 0; r < src.Rows(); r++ {
		for c := 0; c < src.Cols(); c++ {
			i, _ := font.Index(src.At(r, c))
			j, _ := font.Index(again.At(r, c))
			if SquaredEuclidean(font.Glyph(i), font.Glyph(j)) != 0 {
				t.Errorf("Cell (%d,%d): %q became %q", r, c, src.At(r, c), again.At(r, c))
			}
		}
	}
}
