package featurize

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Vector is a sparse feature vector. Indices are strictly increasing.
type Vector struct {
	Indices []int
	Values  []float64
}

func (v Vector) Len() int { return len(v.Indices) }

// Dot returns the inner product with a dense weight vector.
func (v Vector) Dot(w []float64) float64 {
	var sum float64
	for k, i := range v.Indices {
		sum += w[i] * v.Values[k]
	}
	return sum
}

// AddScaledTo accumulates alpha*v into dst.
func (v Vector) AddScaledTo(dst []float64, alpha float64) {
	for k, i := range v.Indices {
		dst[i] += alpha * v.Values[k]
	}
}

func newVector(counts map[int]float64) Vector {
	v := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for i := range counts {
		v.Indices = append(v.Indices, i)
	}
	sort.Ints(v.Indices)
	for _, i := range v.Indices {
		v.Values = append(v.Values, counts[i])
	}
	if norm := floats.Norm(v.Values, 2); norm > 0 {
		floats.Scale(1/norm, v.Values)
	}
	return v
}
