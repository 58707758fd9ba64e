package asciify

import (
	"fmt"
	"math"
)

// DefaultBins is the default number of intensity bins for mutual
// information matching.
const DefaultBins = 16

// Quantizer maps 8-bit intensities onto a fixed number of bins.
type Quantizer struct {
	bins  int
	table [256]uint8
}

// NewQuantizer creates a quantizer with bins equal-width bins. bins must be
// in [1, 256].
func NewQuantizer(bins int) *Quantizer {
	if bins < 1 || bins > 256 {
		panic(fmt.Sprintf("asciify: bin count %d outside [1,256]", bins))
	}
	q := &Quantizer{bins: bins}
	for v := range q.table {
		q.table[v] = uint8(v * bins / 256)
	}
	return q
}

// Bins returns the number of bins.
func (q *Quantizer) Bins() int { return q.bins }

// Bin returns the bin of intensity v.
func (q *Quantizer) Bin(v uint8) uint8 { return q.table[v] }

// Quantize writes the bin of every pixel of s into dst in row-major order
// and returns dst.
func (q *Quantizer) Quantize(s Surface, dst []uint8) []uint8 {
	dst = dst[:0]
	for y := 0; y < s.height; y++ {
		for _, v := range s.Row(y) {
			dst = append(dst, q.table[v])
		}
	}
	return dst
}

// Histogram counts quantized values.
type Histogram []int32

// NewHistogram counts the bins in binned, which holds values below bins.
func NewHistogram(binned []uint8, bins int) Histogram {
	h := make(Histogram, bins)
	h.Count(binned)
	return h
}

// Count resets h and counts the bins in binned.
func (h Histogram) Count(binned []uint8) {
	for i := range h {
		h[i] = 0
	}
	for _, b := range binned {
		h[b]++
	}
}

// Entropy returns -sum(p*ln p) over the nonzero bins of counts, with
// probabilities normalized by total.
func Entropy(counts []int32, total int) float64 {
	if total == 0 {
		return 0
	}
	inv := 1 / float64(total)
	var e float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) * inv
		e -= p * math.Log(p)
	}
	// Round-off can leave a tiny negative sum.
	if e < 0 {
		e = 0
	}
	return e
}

// JointHistogram accumulates co-occurrences of two equally long binned
// sequences into a bins x bins table.
type JointHistogram struct {
	bins   int
	counts []int32
}

// NewJointHistogram allocates a joint table for bins bins per axis.
func NewJointHistogram(bins int) *JointHistogram {
	return &JointHistogram{bins: bins, counts: make([]int32, bins*bins)}
}

// Accumulate resets the table and counts the pairs (a[i], b[i]).
func (j *JointHistogram) Accumulate(a, b []uint8) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("asciify: joint histogram of %d and %d samples", len(a), len(b)))
	}
	for i := range j.counts {
		j.counts[i] = 0
	}
	for i, va := range a {
		j.counts[int(va)*j.bins+int(b[i])]++
	}
}

// Entropy returns the joint entropy of the accumulated table.
func (j *JointHistogram) Entropy(total int) float64 {
	return Entropy(j.counts, total)
}

// NormalizedMutualInformation returns (H(a)+H(b))/H(a,b). The score lies
// in [1, 2]; when both sequences are constant the joint entropy is zero and
// the pair scores 2, as for identical distributions.
func NormalizedMutualInformation(ha, hb, hab float64) float64 {
	if hab <= 0 {
		return 2
	}
	return (ha + hb) / hab
}
