package digits

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/sharnoff/digits/hyperparams"
)

const (
	// DefaultEpochs is the number of epochs the command-line tools train for.
	DefaultEpochs int = 3000

	// DefaultStatusEvery is the number of epochs between status reports of the command-line
	// tools.
	DefaultStatusEvery int = 1000
)

// Result is a wrapper for sending back the progress of training or testing.
type Result struct {
	// The (0-indexed) epoch the result describes
	Epoch int

	// Average cost per sample
	Cost float64

	// The fraction classified correctly, 0 → 1
	Correct float64

	// The result is either from a test or a status update. Status updates describe the epoch
	// as it was trained, with the outputs from before each sample's update.
	IsTest bool
}

// TrainArgs are the arguments to Trainer.Train. Only Epochs is required.
type TrainArgs struct {
	// Epochs is the number of full passes over the training data
	Epochs int

	// LearningRate, if not nil, sets the Model's learning rate at the start of every epoch.
	// If nil, the Model's rate is left as it is.
	LearningRate hyperparams.HyperParameter

	// SendStatus indicates whether or not to send back the average cost and fraction correct
	// of the given epoch, once it has finished. SendStatus can be left nil to represent an
	// unconditional false.
	SendStatus func(int) bool

	// TestData is the source of cross-validation data while training. This can be nil if
	// ShouldTest is also nil.
	TestData Dataset

	// ShouldTest indicates whether or not testing should be done after the given epoch.
	ShouldTest func(int) bool

	// Update is how testing and status updates are returned. If both ShouldTest and SendStatus
	// are nil, then Update can also be left nil.
	Update func(Result)

	// SavePath is where the Model is saved once every epoch has finished. If empty, the Model
	// is not saved.
	SavePath string
}

// Trainer runs the epoch loop over a Model. Each Trainer has its own random source for shuffling
// the training data, seeded from the clock and separate from InitSeed. The order of samples
// differs between runs even though the initial weights do not.
//
// Training is strictly sequential. The Model must not be used by anything else while Train is
// running.
type Trainer struct {
	Model *Model

	shuffle *rand.Rand
}

// NewTrainer returns a Trainer for the given Model.
func NewTrainer(m *Model) *Trainer {
	return &Trainer{
		Model:   m,
		shuffle: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed replaces the Trainer's shuffling source with one seeded by the given value, returning the
// Trainer. This is only useful to make a particular run repeatable.
func (t *Trainer) Seed(seed int64) *Trainer {
	t.shuffle = rand.New(rand.NewSource(seed))
	return t
}

// Train trains the Model on data for args.Epochs epochs. At the start of each epoch the Trainer's
// own copy of data is shuffled into a new order, then every sample is passed through Forward,
// Loss and Backward in turn. The data given is not reordered or modified.
//
// After the last epoch, the Model is saved to args.SavePath if it is set.
func (t *Trainer) Train(data Dataset, args TrainArgs) error {
	// handle error cases and set defaults
	{
		if t.Model == nil {
			return ErrNilModel
		} else if len(data) == 0 {
			return ErrEmptyDataset
		} else if args.Epochs < 0 {
			return errors.Errorf("Epochs must be >= 0 (%d)", args.Epochs)
		}

		if args.Update == nil {
			args.Update = func(r Result) {}
		}

		if args.SendStatus == nil {
			args.SendStatus = func(int) bool { return false }
		}

		if args.TestData == nil {
			if args.ShouldTest != nil {
				return errors.Errorf("TestData is nil but ShouldTest is not")
			}
			args.ShouldTest = func(int) bool { return false }
		} else if args.ShouldTest == nil {
			args.ShouldTest = func(int) bool { return false }
		}

		for i := range data {
			if !data[i].Fits() {
				return errors.Errorf("Training sample %d does not fit the model (%d inputs, label %d)", i, len(data[i].Inputs), data[i].Label)
			}
		}
	}

	if t.shuffle == nil {
		t.shuffle = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	order := data.Clone()
	size := float64(len(order))

	for epoch := 0; epoch < args.Epochs; epoch++ {
		if args.LearningRate != nil {
			t.Model.SetLearningRate(args.LearningRate.Value(epoch))
		}

		t.shuffle.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		var totalCost, totalCorrect float64
		for i := range order {
			s := order[i]

			acts, err := t.Model.Forward(s.Inputs)
			if err != nil {
				return errors.Wrapf(err, "Failed to get model outputs on epoch %d, sample %d\n", epoch, i)
			}

			totalCost += t.Model.Loss(acts.Output, s.Label)
			if CorrectHighest(acts.Output, s.Label) {
				totalCorrect++
			}

			if err = t.Model.Backward(s.Inputs, s.Label, acts); err != nil {
				return errors.Wrapf(err, "Failed to adjust model on epoch %d, sample %d\n", epoch, i)
			}
		}

		if args.SendStatus(epoch) {
			args.Update(Result{
				Epoch:   epoch,
				Cost:    totalCost / size,
				Correct: totalCorrect / size,
				IsTest:  false,
			})
		}

		if args.ShouldTest(epoch) {
			cost, correct, err := t.Model.Test(args.TestData)
			if err != nil {
				return errors.Wrapf(err, "Testing on epoch %d failed\n", epoch)
			}

			args.Update(Result{
				Epoch:   epoch,
				Cost:    cost,
				Correct: correct,
				IsTest:  true,
			})
		}
	}

	if args.SavePath != "" {
		if err := t.Model.SaveFile(args.SavePath); err != nil {
			return errors.Wrapf(err, "Finished training, but failed to save the model\n")
		}
	}

	return nil
}
