package digits

import (
	"gonum.org/v1/gonum/mat"
)

// Architecture describes the number of neurons in each of the three layers of the network. The
// only Architecture a Model is ever built with is Arch; it exists as a value so that construction
// and validation read the sizes from the same place.
type Architecture struct {
	Input  int `json:"input"`
	Hidden int `json:"hidden"`
	Output int `json:"output"`
}

// Arch is the fixed 784 -> 128 -> 10 topology: 28x28 grayscale images in, ten digit classes out.
var Arch = Architecture{
	Input:  28 * 28,
	Hidden: 128,
	Output: 10,
}

// checkMatrix returns a *DimensionError if m is not rows x cols. A nil matrix is treated as 0x0.
func checkMatrix(name string, m *mat.Dense, rows, cols int) error {
	var r, c int
	if m != nil {
		r, c = m.Dims()
	}

	if r != rows || c != cols {
		return &DimensionError{Name: name, Rows: r, Cols: c, WantRows: rows, WantCols: cols}
	}

	return nil
}

func checkVector(name string, v *mat.VecDense, size int) error {
	var n int
	if v != nil {
		n = v.Len()
	}

	if n != size {
		return &DimensionError{Name: name, Rows: n, Cols: 1, WantRows: size, WantCols: 1}
	}

	return nil
}

// Check returns the first parameter whose shape disagrees with the Architecture, as a
// *DimensionError, or nil if all four match. Rows of a weight matrix are neurons of the
// destination layer; columns are neurons of the source layer.
func (a Architecture) Check(w1, w2 *mat.Dense, b1, b2 *mat.VecDense) error {
	if err := checkMatrix("W1", w1, a.Hidden, a.Input); err != nil {
		return err
	} else if err := checkVector("b1", b1, a.Hidden); err != nil {
		return err
	} else if err := checkMatrix("W2", w2, a.Output, a.Hidden); err != nil {
		return err
	}

	return checkVector("b2", b2, a.Output)
}
