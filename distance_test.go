package asciify

import (
	"math"
	"testing"
)

func TestSquaredEuclidean(t *testing.T) {
	a := NewSurface(2, 2, []uint8{0, 0, 0, 0})
	b := NewSurface(2, 2, []uint8{200, 200, 200, 200})
	c := NewSurface(2, 2, []uint8{255, 255, 255, 255})

	if d := SquaredEuclidean(a, b); d != 4*200*200 {
		t.Errorf("Expected %d, got %v", 4*200*200, d)
	}
	if d := SquaredEuclidean(c, b); d != 4*55*55 {
		t.Errorf("Expected %d, got %v", 4*55*55, d)
	}
	if d := SquaredEuclidean(b, b); d != 0 {
		t.Errorf("Expected 0, got %v", d)
	}
	mustPanic(t, "size mismatch", func() { SquaredEuclidean(a, AllocSurface(1, 4).Surface) })
}

func TestSquaredEuclideanWindows(t *testing.T) {
	s := gradientSurface(6, 6)
	w := s.Window(2, 2, 2, 2)
	packed := AllocSurface(2, 2)
	packed.CopyFrom(w)
	if d := SquaredEuclidean(w, packed.Surface); d != 0 {
		t.Errorf("Strided window and packed copy should match, got %v", d)
	}
}

func TestMeansDistance(t *testing.T) {
	a := NewSurface(2, 2, []uint8{255, 0, 0, 0})
	b := NewSurface(2, 2, []uint8{0, 0, 0, 255})
	if d := MeansDistance(a, b); d != 0 {
		t.Errorf("Equal sums should have zero distance, got %v", d)
	}
	c := NewSurface(2, 2, []uint8{10, 10, 10, 10})
	if d := MeansDistance(a, c); d != 215 {
		t.Errorf("Expected 215, got %v", d)
	}
}

func TestQuantizer(t *testing.T) {
	q := NewQuantizer(16)
	tests := []struct {
		v    uint8
		want uint8
	}{
		{0, 0}, {15, 0}, {16, 1}, {128, 8}, {255, 15},
	}
	for _, tt := range tests {
		if got := q.Bin(tt.v); got != tt.want {
			t.Errorf("Bin(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
	mustPanic(t, "zero bins", func() { NewQuantizer(0) })
	mustPanic(t, "too many bins", func() { NewQuantizer(257) })

	binned := q.Quantize(NewSurface(2, 2, []uint8{0, 64, 128, 255}), nil)
	want := []uint8{0, 4, 8, 15}
	for i := range want {
		if binned[i] != want[i] {
			t.Fatalf("Quantize = %v, want %v", binned, want)
		}
	}
}

func TestEntropy(t *testing.T) {
	tests := []struct {
		name   string
		counts []int32
		total  int
		want   float64
	}{
		{"constant", []int32{4, 0}, 4, 0},
		{"two equal bins", []int32{2, 2}, 4, math.Ln2},
		{"four equal bins", []int32{1, 1, 1, 1}, 4, 2 * math.Ln2},
		{"empty", []int32{0, 0}, 0, 0},
	}
	for _, tt := range tests {
		if got := Entropy(tt.counts, tt.total); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s: Entropy = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNormalizedMutualInformation(t *testing.T) {
	a := []uint8{0, 0, 1, 1}
	b := []uint8{1, 1, 0, 0}
	c := []uint8{0, 1, 0, 1}

	score := func(x, y []uint8) float64 {
		hx := Entropy(NewHistogram(x, 2), len(x))
		hy := Entropy(NewHistogram(y, 2), len(y))
		j := NewJointHistogram(2)
		j.Accumulate(x, y)
		return NormalizedMutualInformation(hx, hy, j.Entropy(len(x)))
	}

	if s := score(a, a); s != 2 {
		t.Errorf("Identical sequences should score 2, got %v", s)
	}
	if s := score(a, b); math.Abs(s-2) > 1e-12 {
		t.Errorf("Inverted sequences should score 2, got %v", s)
	}
	if s := score(a, c); math.Abs(s-1) > 1e-12 {
		t.Errorf("Independent sequences should score 1, got %v", s)
	}
	if s := NormalizedMutualInformation(0, 0, 0); s != 2 {
		t.Errorf("Constant pair should score 2, got %v", s)
	}
}
