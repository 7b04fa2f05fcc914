package costfuncs

import (
	"math"
	"testing"
)

func TestCrossEntropyCost(t *testing.T) {
	outs := []float64{0.25, 0.75, 0}

	if c := CrossEntropy().Cost(outs, 1); math.Abs(c+math.Log(0.75)) > 1e-15 {
		t.Errorf("Cost = %v, want %v", c, -math.Log(0.75))
	}
	if c := CrossEntropy().Cost(outs, 2); c != -math.Log(Epsilon) {
		t.Errorf("Cost of zero probability = %v, want %v", c, -math.Log(Epsilon))
	}
}

func TestCrossEntropyDeriv(t *testing.T) {
	outs := []float64{0.25, 0.75, 0}
	ds := make([]float64, 3)

	CrossEntropy().Deriv(outs, 1, ds)
	want := []float64{0.25, -0.25, 0}
	for i := range ds {
		if ds[i] != want[i] {
			t.Fatalf("Deriv = %v, want %v", ds, want)
		}
	}

	if outs[1] != 0.75 {
		t.Error("Deriv modified its input")
	}
}
