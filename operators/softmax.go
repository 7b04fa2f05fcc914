package operators

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type softmax int8

// Softmax returns the softmax function, which turns the raw output scores into a probability
// distribution.
func Softmax() softmax {
	return softmax(0)
}

func (t softmax) TypeString() string {
	return "softmax"
}

// Evaluate converts values to a probability distribution in place. The maximum is subtracted
// before exponentiating, so large logits cannot overflow; every entry ends up in (0, 1] and the
// entries sum to 1.
func (t softmax) Evaluate(values []float64) {
	if len(values) == 0 {
		return
	}

	floats.AddConst(-floats.Max(values), values)
	for i := range values {
		values[i] = math.Exp(values[i])
	}

	floats.Scale(1/floats.Sum(values), values)
}
