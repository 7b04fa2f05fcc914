package hyperparams

import (
	"testing"
)

func TestConstant(t *testing.T) {
	var h HyperParameter = Constant(0.3)
	for _, e := range []int{0, 1, 1000} {
		if h.Value(e) != 0.3 {
			t.Errorf("Value(%d) = %v", e, h.Value(e))
		}
	}
}

func TestStep(t *testing.T) {
	var h HyperParameter = Step(0.1).Add(100, 0.01).Add(10, 0.05)

	for _, c := range []struct {
		epoch int
		want  float64
	}{
		{0, 0.1}, {9, 0.1}, {10, 0.05}, {99, 0.05}, {100, 0.01}, {5000, 0.01},
	} {
		if got := h.Value(c.epoch); got != c.want {
			t.Errorf("Value(%d) = %v, want %v", c.epoch, got, c.want)
		}
	}
}
