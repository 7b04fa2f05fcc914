// Package digits provides a small, fixed-shape neural network for recognizing handwritten digits:
// a multilayer perceptron with 784 inputs (a 28x28 grayscale image), one hidden layer of 128
// tanh neurons, and 10 softmax outputs, trained one sample at a time by stochastic gradient
// descent.
//
// Creating Models
//
// A new Model is created with a learning rate:
//
//		m := digits.New(0.01)
//
// Weights are initialized by the Xavier initializer from a fixed seed (InitSeed), so every call
// to New returns the same Model. Biases start at zero. The shape of the network is given by Arch
// and cannot be changed.
//
// Inference
//
// Inputs are slices of Arch.Input values in [0, 1]; the subpackage "imageprep" produces them from
// image files. Forward gives the activations of both layers, and Predict the most likely digit:
//
//		digit, confidence, err := m.Predict(input)
//
// Training
//
// Training is done by a Trainer over a Dataset of labeled Samples:
//
//		t := digits.NewTrainer(m)
//		err := t.Train(data, digits.TrainArgs{
//			Epochs:     3000,
//			SendStatus: digits.Every(1000),
//			Update:     update,
//			SavePath:   digits.DefaultModelPath,
//		})
//
// Each epoch the Trainer shuffles its copy of the data into a new random order, then runs
// Forward, Loss and Backward on every Sample. The order is random from run to run, unlike the
// initial weights. TrainSample does the same for a single Sample.
//
// Saving and Loading
//
// Models are saved as JSON with Save or SaveFile, and loaded with Load or LoadFile:
//
//		m, err := digits.LoadFile(digits.DefaultModelPath, digits.DefaultLearningRate)
//
// Loading is strict: a record that is missing a section, or whose tensors do not have exactly
// the shapes given by Arch, results in a *FormatError rather than a partially loaded Model.
//
// The subpackages initializers, operators, costfuncs, optimizers and hyperparams hold the pieces
// the Model is built from. The Model is not safe for concurrent training.
package digits
