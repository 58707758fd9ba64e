// Package pca computes principal components of a set of equally sized
// sample vectors and projects vectors into the reduced space they span.
package pca

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ErrNoConvergence is returned when the eigendecomposition of the
// covariance matrix fails.
var ErrNoConvergence = errors.New("pca: eigendecomposition did not converge")

// Analyzer holds the eigendecomposition of a sample set's covariance.
type Analyzer struct {
	dim     int
	mean    []float64
	centred *mat.Dense // dim x n, one centred sample per column
	values  []float64  // eigenvalues, descending, clamped at zero
	vectors *mat.Dense // dim x dim, column i belongs to values[i]
}

// Analyze computes mean, covariance and eigenpairs of samples. Every sample
// must have the same, non-zero length.
func Analyze(samples [][]float64) (*Analyzer, error) {
	n := len(samples)
	if n == 0 {
		return nil, errors.New("pca: no samples")
	}
	dim := len(samples[0])
	if dim == 0 {
		return nil, errors.New("pca: empty samples")
	}

	a := &Analyzer{dim: dim, mean: make([]float64, dim)}
	for i, s := range samples {
		if len(s) != dim {
			panic(fmt.Sprintf("pca: sample %d has length %d, want %d", i, len(s), dim))
		}
		for j, v := range s {
			a.mean[j] += v
		}
	}
	for j := range a.mean {
		a.mean[j] /= float64(n)
	}

	a.centred = mat.NewDense(dim, n, nil)
	for i, s := range samples {
		for j, v := range s {
			a.centred.Set(j, i, v-a.mean[j])
		}
	}

	// Covariance as a symmetric rank-n update, C = X Xᵀ / n.
	cov := mat.NewSymDense(dim, nil)
	cov.SymOuterK(1/float64(n), a.centred)

	var eig mat.EigenSym
	if ok := eig.Factorize(cov, true); !ok {
		return nil, ErrNoConvergence
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	order := make([]int, dim)
	for i := range order {
		order[i] = i
		if values[i] < 0 {
			values[i] = 0
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return values[order[i]] > values[order[j]]
	})

	a.values = make([]float64, dim)
	a.vectors = mat.NewDense(dim, dim, nil)
	col := make([]float64, dim)
	for i, src := range order {
		a.values[i] = values[src]
		mat.Col(col, src, &vectors)
		a.vectors.SetCol(i, col)
	}
	return a, nil
}

// Dim returns the sample length.
func (a *Analyzer) Dim() int { return a.dim }

// Samples returns the number of analysed samples.
func (a *Analyzer) Samples() int {
	_, n := a.centred.Dims()
	return n
}

// Mean returns the sample mean.
func (a *Analyzer) Mean() []float64 { return a.mean }

// Eigenvalues returns the covariance eigenvalues in descending order.
func (a *Analyzer) Eigenvalues() []float64 { return a.values }

// Extract keeps the k leading eigenvectors and projects every analysed
// sample into the reduced space. k is clamped into [1, Dim()].
func (a *Analyzer) Extract(k int) *Model {
	if k < 1 {
		k = 1
	}
	if k > a.dim {
		k = a.dim
	}

	m := &Model{
		dim:      a.dim,
		k:        k,
		mean:     a.mean,
		energies: make([]float64, k),
		features: mat.DenseCopyOf(a.vectors.Slice(0, a.dim, 0, k)),
	}

	// Reweight the retained energies to sum to k so each dimension
	// contributes on a comparable scale.
	var total float64
	for i := 0; i < k; i++ {
		total += a.values[i]
	}
	for i := range m.energies {
		if total > 0 {
			m.energies[i] = a.values[i] * float64(k) / total
		} else {
			m.energies[i] = 1
		}
	}

	n := a.Samples()
	m.projected = mat.NewDense(k, n, nil)
	sample := make([]float64, a.dim)
	comps := make([]float64, k)
	for j := 0; j < n; j++ {
		mat.Col(sample, j, a.centred)
		m.projectCentred(sample, comps)
		m.projected.SetCol(j, comps)
	}
	if k <= kdMaxDims && n >= kdMinSamples {
		m.tree = newKDTree(m.projected)
	}
	return m
}

// Model is a reduced basis together with the projections of the samples it
// was extracted from. A Model is read-only once extracted; callers pass
// their own buffers to Project and Combine, so it may be shared freely.
type Model struct {
	dim       int
	k         int
	mean      []float64
	energies  []float64
	features  *mat.Dense // dim x k, orthonormal columns
	projected *mat.Dense // k x samples
	tree      *kdTree    // nil when a linear scan is cheaper
}

// Dim returns the length of vectors in the original space.
func (m *Model) Dim() int { return m.dim }

// K returns the number of retained components.
func (m *Model) K() int { return m.k }

// Energies returns the weights applied to each component.
func (m *Model) Energies() []float64 { return m.energies }

// Projected returns the reduced coordinates of sample j.
func (m *Model) Projected(j int) []float64 {
	return mat.Col(nil, j, m.projected)
}

// Project writes the weighted components of v into dst and returns it.
// centred is scratch of length Dim(); it is overwritten.
func (m *Model) Project(v, dst, centred []float64) []float64 {
	if len(v) != m.dim {
		panic(fmt.Sprintf("pca: vector of length %d, model dimension %d", len(v), m.dim))
	}
	if len(dst) < m.k {
		dst = make([]float64, m.k)
	}
	dst = dst[:m.k]
	if len(centred) < m.dim {
		centred = make([]float64, m.dim)
	}
	centred = centred[:m.dim]
	for i, x := range v {
		centred[i] = x - m.mean[i]
	}
	m.projectCentred(centred, dst)
	return dst
}

func (m *Model) projectCentred(centred, dst []float64) {
	raw := m.features.RawMatrix()
	for c := 0; c < m.k; c++ {
		var dot float64
		for r, x := range centred {
			dot += raw.Data[r*raw.Stride+c] * x
		}
		dst[c] = dot * m.energies[c]
	}
}

// Combine reconstructs a vector in the original space from weighted
// components, writing it into dst. Components with zero energy carry no
// information and are skipped.
func (m *Model) Combine(comps, dst []float64) []float64 {
	if len(comps) != m.k {
		panic(fmt.Sprintf("pca: %d components, model keeps %d", len(comps), m.k))
	}
	if len(dst) < m.dim {
		dst = make([]float64, m.dim)
	}
	dst = dst[:m.dim]
	copy(dst, m.mean)
	raw := m.features.RawMatrix()
	for c, w := range comps {
		e := m.energies[c]
		if e == 0 {
			continue
		}
		w /= e
		for r := range dst {
			dst[r] += raw.Data[r*raw.Stride+c] * w
		}
	}
	return dst
}

// Closest returns the index of the sample whose projection is nearest to
// comps in squared Euclidean distance, the lowest index winning ties.
func (m *Model) Closest(comps []float64) int {
	if m.tree != nil {
		return m.tree.nearest(comps)
	}
	return m.closestLinear(comps)
}

func (m *Model) closestLinear(comps []float64) int {
	raw := m.projected.RawMatrix()
	best, bestDist := 0, math.Inf(1)
	for j := 0; j < raw.Cols; j++ {
		var d float64
		for c, x := range comps {
			diff := raw.Data[c*raw.Stride+j] - x
			d += diff * diff
		}
		if d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

// ReconstructionError returns the squared distance between v and its
// reconstruction through the model.
func (m *Model) ReconstructionError(v []float64) float64 {
	comps := m.Project(v, nil, nil)
	r := m.Combine(comps, nil)
	var e float64
	for i, x := range v {
		d := x - r[i]
		e += d * d
	}
	return e
}
