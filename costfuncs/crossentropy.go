package costfuncs

import (
	"math"
)

// Epsilon is the smallest probability the cross-entropy will take the log of, so that a
// distribution assigning zero to the true class gives a large but finite cost.
const Epsilon float64 = 1e-12

type crossEntropy int8

// CrossEntropy returns the cross-entropy cost against a one-hot target, given only by the index
// of the correct class.
func CrossEntropy() crossEntropy {
	return crossEntropy(0)
}

func (c crossEntropy) TypeString() string {
	return "cross-entropy"
}

// Cost returns -log(outs[label]), with outs[label] clamped to at least Epsilon.
func (c crossEntropy) Cost(outs []float64, label int) float64 {
	return -math.Log(math.Max(outs[label], Epsilon))
}

// Deriv stores in ds the derivative of the cost with respect to the raw scores that produced
// outs through a softmax. For softmax followed by cross-entropy this collapses to
// outs - onehot(label).
//
// Deriv panics if len(ds) != len(outs).
func (c crossEntropy) Deriv(outs []float64, label int, ds []float64) {
	if len(ds) != len(outs) {
		panic("costfuncs: cross-entropy length mismatch")
	}

	copy(ds, outs)
	ds[label] -= 1
}
