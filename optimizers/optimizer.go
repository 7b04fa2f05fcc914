package optimizers

// Optimizer applies a single update to a set of weights, given their gradients.
type Optimizer interface {
	// Run is called to suggest changes to each weight, given: number of weights, gradient at
	// weight, function to add to weights, and a learning rate.
	//
	// add is not safe to call concurrently for the same index.
	Run(size int, grad func(int) float64, add func(int, float64), learningRate float64)

	// TypeString returns the string corresponding to the type of the Optimizer.
	TypeString() string
}
