package pca

import (
	"math/rand"
	"testing"
)

func randomSamples(rng *rand.Rand, n, dim int) [][]float64 {
	samples := make([][]float64, n)
	for i := range samples {
		s := make([]float64, dim)
		for j := range s {
			// Coarse values produce exact duplicates and distance ties.
			s[j] = float64(rng.Intn(4) * 64)
		}
		samples[i] = s
	}
	return samples
}

func TestKDTreeMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	samples := randomSamples(rng, 120, 16)
	a := mustAnalyze(t, samples)

	for _, k := range []int{1, 3, 8, kdMaxDims} {
		m := a.Extract(k)
		if m.tree == nil {
			t.Fatalf("k=%d: expected a KD-tree for %d samples", k, len(samples))
		}
		probe := make([]float64, a.Dim())
		for q := 0; q < 200; q++ {
			var comps []float64
			if q%4 == 0 {
				comps = m.Projected(rng.Intn(len(samples)))
			} else {
				for j := range probe {
					probe[j] = float64(rng.Intn(256))
				}
				comps = m.Project(probe, nil, nil)
			}
			if got, want := m.Closest(comps), m.closestLinear(comps); got != want {
				t.Fatalf("k=%d query %d: tree found %d, linear scan %d", k, q, got, want)
			}
		}
	}
}

func TestKDTreeDuplicatesPreferLowestIndex(t *testing.T) {
	samples := make([][]float64, kdMinSamples)
	for i := range samples {
		samples[i] = []float64{float64(i % 4), float64(i % 4 * 2)}
	}
	m := mustAnalyze(t, samples).Extract(2)
	if m.tree == nil {
		t.Fatal("expected a KD-tree")
	}
	for i := 0; i < 4; i++ {
		if got := m.Closest(m.Projected(i + 4)); got != i {
			t.Errorf("Duplicate of sample %d resolved to %d", i, got)
		}
	}
}

func TestKDTreeSkippedForLargeK(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a := mustAnalyze(t, randomSamples(rng, 64, kdMaxDims+4))
	if a.Extract(kdMaxDims+1).tree != nil {
		t.Error("expected a linear scan above kdMaxDims")
	}
	small := mustAnalyze(t, randomSamples(rng, kdMinSamples-1, 4))
	if small.Extract(2).tree != nil {
		t.Error("expected a linear scan below kdMinSamples")
	}
}
