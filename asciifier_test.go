package asciify

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func generate(a Asciifier, img Surface, rows, cols int) *TextSurface {
	out := NewTextSurface(rows, cols)
	a.Generate(img, out)
	return out
}

func TestSequentialParallelIdentical(t *testing.T) {
	font := BasicFont()
	img := gradientSurface(7*23+3, 13*11+5)
	rows, cols := 12, 24

	for _, algorithm := range allPolicies() {
		t.Run(algorithm, func(t *testing.T) {
			ctx := newTestContext(t, algorithm, font)
			seq := NewSequential(ctx)
			want := generate(seq, img, rows, cols).String()

			for _, threads := range []int{1, 2, 3, 8} {
				p := NewParallel(ctx, WithThreads(threads))
				got := generate(p, img, rows, cols).String()
				p.Close()
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("threads=%d output differs (-sequential +parallel):\n%s", threads, diff)
				}
			}
		})
	}
}

func TestGenerateConcreteScenario(t *testing.T) {
	font := solidFont(" #", 0, 255)
	ctx := NewEuclideanContext(font)
	img := NewSurface(2, 2, []uint8{200, 200, 200, 200})
	for _, a := range []Asciifier{NewSequential(ctx), NewParallel(ctx, WithThreads(2))} {
		out := generate(a, img, 1, 1)
		a.Close()
		if out.At(0, 0) != '#' {
			t.Errorf("%T: expected '#', got %q", a, out.At(0, 0))
		}
	}
}

func TestGenerateEdgePadding(t *testing.T) {
	font := patternFont()
	// One pixel larger than a single cell in both directions.
	img := NewSurface(3, 3, []uint8{
		255, 255, 255,
		255, 255, 255,
		255, 255, 255,
	})
	for _, algorithm := range allPolicies() {
		ctx := newTestContext(t, algorithm, font)
		for _, a := range []Asciifier{NewSequential(ctx), NewParallel(ctx, WithThreads(3))} {
			out := generate(a, img, 2, 2)
			a.Close()
			// The bottom-right cell holds a single lit pixel, the shape of '.'.
			if out.At(1, 1) != '.' {
				t.Errorf("%s %T: corner cell = %q, want '.'", algorithm, a, out.At(1, 1))
			}
		}
	}
}

func TestGenerateLeavesCellsBeyondImage(t *testing.T) {
	font := solidFont(" #", 0, 255)
	ctx := NewEuclideanContext(font)
	img := NewSurface(2, 2, []uint8{255, 255, 255, 255})

	out := NewTextSurface(2, 3)
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			out.Set(r, c, '?')
		}
	}
	NewSequential(ctx).Generate(img, out)
	if diff := cmp.Diff("#??\n???\n", out.String()); diff != "" {
		t.Errorf("Unexpected output (-want +got):\n%s", diff)
	}
}

func TestGenerateClipsToOutput(t *testing.T) {
	font := solidFont(" #", 0, 255)
	ctx := NewEuclideanContext(font)
	img := NewSurface(6, 2, []uint8{
		255, 255, 0, 0, 255, 255,
		255, 255, 0, 0, 255, 255,
	})
	out := generate(NewSequential(ctx), img, 1, 2)
	if diff := cmp.Diff("# \n", out.String()); diff != "" {
		t.Errorf("Unexpected output (-want +got):\n%s", diff)
	}
}

func TestParallelReuse(t *testing.T) {
	font := BasicFont()
	ctx := newTestContext(t, "sed", font)
	p := NewParallel(ctx, WithThreads(4))
	defer p.Close()

	img := gradientSurface(7*10, 13*6)
	first := generate(p, img, 6, 10).String()
	for i := 0; i < 5; i++ {
		if got := generate(p, img, 6, 10).String(); got != first {
			t.Fatalf("Run %d differs from the first run", i)
		}
	}
}

func TestParallelConcurrentGenerate(t *testing.T) {
	font := BasicFont()
	ctx := newTestContext(t, "md", font)
	p := NewParallel(ctx, WithThreads(3))
	defer p.Close()

	img := gradientSurface(7*8, 13*5)
	want := generate(NewSequential(ctx), img, 5, 8).String()

	var wg sync.WaitGroup
	results := make([]string, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = generate(p, img, 5, 8).String()
		}(i)
	}
	wg.Wait()
	for i, got := range results {
		if got != want {
			t.Errorf("Concurrent call %d differs", i)
		}
	}
}

func TestParallelCloseIdempotent(t *testing.T) {
	p := NewParallel(NewEuclideanContext(patternFont()), WithThreads(2))
	p.Close()
	p.Close()
	mustPanic(t, "generate after close", func() {
		p.Generate(gradientSurface(4, 4), NewTextSurface(2, 2))
	})
}

func TestThreadCount(t *testing.T) {
	ctx := NewEuclideanContext(patternFont())
	tests := []struct {
		name string
		a    Asciifier
		want int
	}{
		{"sequential", NewSequential(ctx), 1},
		{"new one thread", New(ctx, 1), 1},
		{"parallel", NewParallel(ctx, WithThreads(5)), 5},
		{"default", NewParallel(ctx), DefaultThreads()},
		{"new default", New(ctx, 0), DefaultThreads()},
	}
	for _, tt := range tests {
		if got := tt.a.ThreadCount(); got != tt.want {
			t.Errorf("%s: ThreadCount = %d, want %d", tt.name, got, tt.want)
		}
		if tt.a.Context() != ctx {
			t.Errorf("%s: unexpected context", tt.name)
		}
		tt.a.Close()
	}
	if _, ok := New(ctx, 1).(*Sequential); !ok {
		t.Error("New with one thread should be sequential")
	}
}

func TestDynamicSwitch(t *testing.T) {
	font := patternFont()
	img := NewSurface(2, 2, []uint8{10, 10, 240, 240})

	d := NewDynamic(New(NewEuclideanContext(font), 2))
	defer d.Close()

	// Pixel distance prefers the dark glyph for a mostly dark block.
	if got := generate(d, img, 1, 1).At(0, 0); got != ' ' {
		t.Errorf("sed: expected ' ', got %q", got)
	}
	if err := d.SwitchAlgorithm("mi", font, 3); err != nil {
		t.Fatalf("SwitchAlgorithm failed: %v", err)
	}
	if d.Context().Name() != "mi" || d.ThreadCount() != 3 {
		t.Errorf("Expected mi with 3 threads, got %s with %d", d.Context().Name(), d.ThreadCount())
	}
	if got := generate(d, img, 1, 1).At(0, 0); got != ':' {
		t.Errorf("mi: expected ':', got %q", got)
	}

	if err := d.SwitchAlgorithm("nope", font, 1); err == nil {
		t.Error("Expected an error for an unknown algorithm")
	}
	if d.Context().Name() != "mi" {
		t.Error("A failed switch should keep the current asciifier")
	}
}

func TestDynamicSwitchClosesPrevious(t *testing.T) {
	ctx := NewEuclideanContext(patternFont())
	prev := NewParallel(ctx, WithThreads(2))
	d := NewDynamic(prev)
	d.Switch(NewSequential(ctx))
	mustPanic(t, "previous closed", func() {
		prev.Generate(gradientSurface(2, 2), NewTextSurface(1, 1))
	})
	d.Close()
}
