package variation

import (
	"errors"
	"math/rand"
)

// ErrEmptySelection is returned when a TransformationSet is built from zero
// variations.
var ErrEmptySelection = errors.New("variation: transformation set is empty")

// TransformationSet is a non-empty ordered set of Variations plus their
// summed weight, used for weighted random draws during the chaos game.
type TransformationSet struct {
	items  []Variation
	wSum   float64
	prefix []float64
}

// NewTransformationSet builds a TransformationSet from a non-empty slice of
// Variations, precomputing prefix weights for weighted sampling.
func NewTransformationSet(items []Variation) (TransformationSet, error) {
	if len(items) == 0 {
		return TransformationSet{}, ErrEmptySelection
	}
	prefix := make([]float64, len(items))
	sum := 0.0
	for i, v := range items {
		sum += v.Weight
		prefix[i] = sum
	}
	return TransformationSet{items: items, wSum: sum, prefix: prefix}, nil
}

// Len returns the number of variations in the set.
func (ts TransformationSet) Len() int { return len(ts.items) }

// Sample performs a weighted draw over [0, W_sum) using r, returning the
// first variation whose cumulative prefix weight is >= the draw. Per the
// spec's tie-break rule, if the draw falls off the end due to floating-point
// rounding the last element is returned.
func (ts TransformationSet) Sample(r *rand.Rand) Variation {
	u := r.Float64() * ts.wSum
	for i, p := range ts.prefix {
		if p >= u {
			return ts.items[i]
		}
	}
	return ts.items[len(ts.items)-1]
}
