package hyperparams

type constant float64

// Constant returns a HyperParameter that has the same value for every epoch.
func Constant(value float64) *constant {
	c := constant(value)
	return &c
}

func (c constant) TypeString() string {
	return "constant"
}

func (c *constant) Value(epoch int) float64 {
	return float64(*c)
}
