package operators

import (
	"math"
)

type tanh int8

// Tanh returns the element-wise tanh activation used by the hidden layer.
func Tanh() tanh {
	return tanh(0)
}

// TypeString is the name the activation is persisted under.
func (t tanh) TypeString() string {
	return "tanh"
}

// Evaluate replaces each of the given pre-activation sums with its tanh, in place.
func (t tanh) Evaluate(values []float64) {
	for i := range values {
		values[i] = math.Tanh(values[i])
	}
}

// Deriv multiplies each delta by the derivative of tanh at the matching value. Because the
// derivative of tanh(x) is 1 - tanh(x)^2, it only needs the already activated values, not x.
//
// Deriv panics if len(values) != len(deltas).
func (t tanh) Deriv(values, deltas []float64) {
	if len(values) != len(deltas) {
		panic("operators: tanh length mismatch")
	}

	for i, y := range values {
		deltas[i] *= 1 - y*y
	}
}
