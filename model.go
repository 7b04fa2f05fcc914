package digits

import (
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sharnoff/digits/costfuncs"
	"github.com/sharnoff/digits/initializers"
	"github.com/sharnoff/digits/operators"
	"github.com/sharnoff/digits/optimizers"
	"github.com/sharnoff/digits/utils"
)

// InitSeed seeds the random source used for weight initialization. It is fixed so that every
// freshly constructed Model starts from the same weights, and training runs can be repeated
// exactly. It is not used for shuffling; see Trainer.
const InitSeed int64 = 1

// DefaultLearningRate is the learning rate used by the command-line tools when none is given.
const DefaultLearningRate float64 = 0.01

// Logger receives the warnings the package produces. It can be replaced, or silenced with
// log.New(io.Discard, "", 0).
var Logger = log.New(os.Stderr, "digits: ", log.LstdFlags)

// Model is the 784 -> 128 -> 10 perceptron. Its state is exactly the parameters and the
// learning rate; everything computed from an input is returned to the caller instead of being
// kept on the Model.
//
// Methods that only read the parameters (Forward, Predict, Loss, Test) may run concurrently with
// each other. Backward and TrainSample modify the parameters in place and must not overlap with
// any other call.
type Model struct {
	// W1 is Hidden x Input, W2 is Output x Hidden.
	w1, w2 *mat.Dense
	b1, b2 *mat.VecDense

	learningRate float64
	opt          optimizers.Optimizer
}

// Activations are the values of the hidden and output layers for a single input. Output is a
// probability distribution over the classes.
type Activations struct {
	Hidden []float64
	Output []float64
}

func blank(learningRate float64) *Model {
	return &Model{
		w1:           mat.NewDense(Arch.Hidden, Arch.Input, nil),
		w2:           mat.NewDense(Arch.Output, Arch.Hidden, nil),
		b1:           mat.NewVecDense(Arch.Hidden, nil),
		b2:           mat.NewVecDense(Arch.Output, nil),
		learningRate: learningRate,
		opt:          optimizers.SGD(),
	}
}

// New returns a freshly initialized Model. Both weight matrices are set by the Xavier initializer
// from a single source seeded with InitSeed (W1 first, then W2), so any two Models returned by New
// are identical. Biases start at zero.
func New(learningRate float64) *Model {
	m := blank(learningRate)

	init := initializers.Xavier(rand.New(rand.NewSource(InitSeed)))
	init.Set(m.w1.RawMatrix().Data, Arch.Input, Arch.Hidden)
	init.Set(m.w2.RawMatrix().Data, Arch.Hidden, Arch.Output)

	return m
}

// LearningRate returns the learning rate used by Backward.
func (m *Model) LearningRate() float64 {
	return m.learningRate
}

// SetLearningRate changes the learning rate used by Backward.
func (m *Model) SetLearningRate(rate float64) {
	m.learningRate = rate
}

// Forward computes the activations of the network for the given input, which must have
// Arch.Input values. If it doesn't, Forward returns a *SizeMismatchError.
//
//	hidden = tanh(W1·input + b1)
//	output = softmax(W2·hidden + b2)
//
// Forward does not change the Model.
func (m *Model) Forward(input []float64) (Activations, error) {
	if len(input) != Arch.Input {
		return Activations{}, &SizeMismatchError{Arch.Input, len(input), "inputs"}
	}

	hidden := mat.NewVecDense(Arch.Hidden, nil)
	hidden.MulVec(m.w1, mat.NewVecDense(len(input), input))
	hidden.AddVec(hidden, m.b1)
	h := hidden.RawVector().Data
	operators.Tanh().Evaluate(h)

	output := mat.NewVecDense(Arch.Output, nil)
	output.MulVec(m.w2, hidden)
	output.AddVec(output, m.b2)
	o := output.RawVector().Data
	operators.Softmax().Evaluate(o)

	return Activations{Hidden: h, Output: o}, nil
}

// Predict runs Forward and returns the most probable class along with its probability. If more
// than one class has the highest probability, the lowest of them is returned.
func (m *Model) Predict(input []float64) (class int, confidence float64, err error) {
	acts, err := m.Forward(input)
	if err != nil {
		return 0, 0, err
	}

	class = Argmax(acts.Output)
	return class, acts.Output[class], nil
}

// Loss returns the cross-entropy of the given distribution against the correct label. The
// probability of the label is clamped to costfuncs.Epsilon, so the result is always finite.
//
// The label must be in [0, len(distribution)); the caller is expected to have checked it, as
// Sample.Fits does. Loss panics otherwise.
func (m *Model) Loss(distribution []float64, label int) float64 {
	if label < 0 || label >= len(distribution) {
		panic(fmt.Sprintf("digits: Loss given label %d for %d classes", label, len(distribution)))
	}

	return costfuncs.CrossEntropy().Cost(distribution, label)
}

// Backward performs one step of gradient descent on a single sample, updating all of the
// parameters in place. acts must be the result of Forward on the same input with the current
// parameters.
//
// The error of the hidden layer is found through W2 as it was before this step.
func (m *Model) Backward(input []float64, label int, acts Activations) error {
	if len(input) != Arch.Input {
		return &SizeMismatchError{Arch.Input, len(input), "inputs"}
	} else if len(acts.Hidden) != Arch.Hidden {
		return &SizeMismatchError{Arch.Hidden, len(acts.Hidden), "hidden activations"}
	} else if len(acts.Output) != Arch.Output {
		return &SizeMismatchError{Arch.Output, len(acts.Output), "output activations"}
	} else if label < 0 || label >= Arch.Output {
		return errors.Errorf("Can't train on label %d, must be in [0, %d)", label, Arch.Output)
	}

	deltaOut := make([]float64, Arch.Output)
	costfuncs.CrossEntropy().Deriv(acts.Output, label, deltaOut)

	deltaHidden := mat.NewVecDense(Arch.Hidden, nil)
	deltaHidden.MulVec(m.w2.T(), mat.NewVecDense(Arch.Output, deltaOut))
	dh := deltaHidden.RawVector().Data

	m.adjust(m.w2, m.b2, deltaOut, acts.Hidden)

	operators.Tanh().Deriv(acts.Hidden, dh)
	m.adjust(m.w1, m.b1, dh, input)

	return nil
}

// adjust runs the optimizer over one layer, where the gradient of w[r][c] is deltas[r]*ins[c]
// and the gradient of b[r] is deltas[r].
func (m *Model) adjust(w *mat.Dense, b *mat.VecDense, deltas, ins []float64) {
	ws := w.RawMatrix()
	cols := ws.Cols

	m.opt.Run(ws.Rows*cols, func(i int) float64 {
		return deltas[i/cols] * ins[i%cols]
	}, func(i int, v float64) {
		ws.Data[(i/cols)*ws.Stride+i%cols] += v
	}, m.learningRate)

	bs := b.RawVector()
	m.opt.Run(len(deltas), func(i int) float64 {
		return deltas[i]
	}, func(i int, v float64) {
		bs.Data[i*bs.Inc] += v
	}, m.learningRate)
}

// TrainSample is Forward, Loss and Backward on a single sample. It returns the loss from before
// the parameters were updated.
func (m *Model) TrainSample(input []float64, label int) (float64, error) {
	acts, err := m.Forward(input)
	if err != nil {
		return 0, err
	}

	if label < 0 || label >= Arch.Output {
		return 0, errors.Errorf("Can't train on label %d, must be in [0, %d)", label, Arch.Output)
	}

	loss := m.Loss(acts.Output, label)
	if err = m.Backward(input, label, acts); err != nil {
		return 0, err
	}

	return loss, nil
}

// the number of samples each goroutine takes at a time in Test
const testOpsPerThread int = 64

// Test returns the average loss over the given data and the fraction of it that is classified
// correctly, in [0, 1]. Samples are evaluated in parallel.
func (m *Model) Test(data Dataset) (cost, correct float64, err error) {
	if len(data) == 0 {
		return 0, 0, ErrEmptyDataset
	}

	for i := range data {
		if !data[i].Fits() {
			return 0, 0, errors.Errorf("Test sample %d does not fit the model (%d inputs, label %d)", i, len(data[i].Inputs), data[i].Label)
		}
	}

	costs := make([]float64, len(data))
	hits := make([]float64, len(data))
	errs := make([]error, len(data))

	utils.ForEach(len(data), testOpsPerThread, func(i int) {
		acts, err := m.Forward(data[i].Inputs)
		if err != nil {
			errs[i] = err
			return
		}

		costs[i] = m.Loss(acts.Output, data[i].Label)
		if Argmax(acts.Output) == data[i].Label {
			hits[i] = 1
		}
	})

	for i, err := range errs {
		if err != nil {
			return 0, 0, errors.Wrapf(err, "Failed to get model outputs with test sample %d\n", i)
		}
	}

	return stat.Mean(costs, nil), stat.Mean(hits, nil), nil
}
