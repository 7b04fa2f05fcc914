package digits

import (
	"github.com/pkg/errors"
)

// Sample is a single labeled image: Arch.Input values in [0, 1] and the index of the correct
// class. A Sample is never modified once it is handed to a Model or Trainer.
type Sample struct {
	Inputs []float64
	Label  int
}

// Fits indicates whether or not the Sample's dimensions match those of the Model, allowing it to
// be used for training or testing.
func (s Sample) Fits() bool {
	return len(s.Inputs) == Arch.Input && s.Label >= 0 && s.Label < Arch.Output
}

// Dataset is an ordered set of Samples. The order has no meaning beyond the order in which they
// are trained on.
type Dataset []Sample

// Zip pairs inputs with labels by index. It returns an error if there are not exactly as many
// labels as inputs; the contents of each are not checked until training.
func Zip(inputs [][]float64, labels []int) (Dataset, error) {
	if len(inputs) != len(labels) {
		return nil, errors.Errorf("Can't build dataset, %d inputs but %d labels", len(inputs), len(labels))
	}

	d := make(Dataset, len(inputs))
	for i := range inputs {
		d[i] = Sample{inputs[i], labels[i]}
	}

	return d, nil
}

// Clone returns a copy of the Dataset that can be reordered without affecting the original. The
// Samples' inputs are shared.
func (d Dataset) Clone() Dataset {
	c := make(Dataset, len(d))
	copy(c, d)
	return c
}
