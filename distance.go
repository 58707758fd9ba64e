package asciify

import "fmt"

// SquaredEuclidean returns the sum of squared pixel differences between two
// surfaces of identical size.
func SquaredEuclidean(a, b Surface) float64 {
	mustSameSize(a, b)
	var sum int64
	for y := 0; y < a.height; y++ {
		ra, rb := a.Row(y), b.Row(y)
		for x, va := range ra {
			d := int64(va) - int64(rb[x])
			sum += d * d
		}
	}
	return float64(sum)
}

// MeansDistance returns |sum(a) - sum(b)|, a coarse brightness comparison.
func MeansDistance(a, b Surface) float64 {
	mustSameSize(a, b)
	d := PixelSum(a) - PixelSum(b)
	if d < 0 {
		d = -d
	}
	return float64(d)
}

// PixelSum returns the sum of all pixel values of s.
func PixelSum(s Surface) int64 {
	var sum int64
	for y := 0; y < s.height; y++ {
		for _, v := range s.Row(y) {
			sum += int64(v)
		}
	}
	return sum
}

func mustSameSize(a, b Surface) {
	if !a.SameSize(b) {
		panic(fmt.Sprintf("asciify: surface size mismatch %dx%d vs %dx%d",
			a.width, a.height, b.width, b.height))
	}
}
