package pca

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// kdMaxDims bounds the component count for which Closest uses a KD-tree.
// Beyond it nearly every node is visited and the linear scan is faster.
const kdMaxDims = 12

// kdMinSamples is the smallest sample count worth building a tree for.
const kdMinSamples = 32

// kdNode is one sample in a KD-tree over projected samples, split along
// the axis of largest variance among the samples below it.
type kdNode struct {
	index       int
	left, right *kdNode
	axis        int
}

// kdTree indexes the columns of a k x n matrix of projected samples.
type kdTree struct {
	root   *kdNode
	data   []float64
	stride int
	k      int
}

func newKDTree(points *mat.Dense) *kdTree {
	k, n := points.Dims()
	raw := points.RawMatrix()
	t := &kdTree{data: raw.Data, stride: raw.Stride, k: k}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	t.root = t.build(indices)
	return t
}

func (t *kdTree) coord(j, axis int) float64 {
	return t.data[axis*t.stride+j]
}

// build constructs the subtree over indices, reordering them in place.
func (t *kdTree) build(indices []int) *kdNode {
	if len(indices) == 0 {
		return nil
	}
	axis := t.chooseSplitAxis(indices)
	sort.Slice(indices, func(a, b int) bool {
		return t.coord(indices[a], axis) < t.coord(indices[b], axis)
	})
	median := len(indices) / 2
	return &kdNode{
		index: indices[median],
		left:  t.build(indices[:median]),
		right: t.build(indices[median+1:]),
		axis:  axis,
	}
}

// chooseSplitAxis returns the axis with the largest variance over indices.
func (t *kdTree) chooseSplitAxis(indices []int) int {
	best, bestVar := 0, -1.0
	n := float64(len(indices))
	for axis := 0; axis < t.k; axis++ {
		var mean float64
		for _, j := range indices {
			mean += t.coord(j, axis)
		}
		mean /= n
		var v float64
		for _, j := range indices {
			d := t.coord(j, axis) - mean
			v += d * d
		}
		if v > bestVar {
			best, bestVar = axis, v
		}
	}
	return best
}

func (t *kdTree) distance(j int, target []float64) float64 {
	var d float64
	for c, x := range target {
		diff := t.coord(j, c) - x
		d += diff * diff
	}
	return d
}

// nearest returns the sample closest to target. Among equally close
// samples the lowest index wins, as in a linear scan.
func (t *kdTree) nearest(target []float64) int {
	best, bestDist := -1, 0.0
	var search func(node *kdNode)
	search = func(node *kdNode) {
		if node == nil {
			return
		}
		d := t.distance(node.index, target)
		if best < 0 || d < bestDist || (d == bestDist && node.index < best) {
			best, bestDist = node.index, d
		}

		axisDist := target[node.axis] - t.coord(node.index, node.axis)
		next, other := node.right, node.left
		if axisDist < 0 {
			next, other = node.left, node.right
		}
		search(next)
		// Equal distances on the far side may still hold a lower index.
		if axisDist*axisDist <= bestDist {
			search(other)
		}
	}
	search(t.root)
	return best
}
