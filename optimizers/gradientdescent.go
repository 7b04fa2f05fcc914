package optimizers

type gradientdescent int8

// GradientDescent returns plain stochastic gradient descent: each weight moves against its
// gradient, scaled by the learning rate. There is no momentum and no decay.
func GradientDescent() gradientdescent {
	return gradientdescent(0)
}

// SGD is the same as GradientDescent.
func SGD() gradientdescent {
	return GradientDescent()
}

func (g gradientdescent) TypeString() string {
	return "SGD"
}

func (g gradientdescent) Run(size int, grad func(int) float64, add func(int, float64), learningRate float64) {
	for i := 0; i < size; i++ {
		add(i, -learningRate*grad(i))
	}
}
