package initializers

import (
	"math"
	"math/rand"
)

type xavier struct {
	src *rand.Rand
}

// Xavier returns the uniform Xavier (Glorot) initializer. Every weight of a layer with fanIn
// inputs and fanOut outputs is drawn independently from [-limit, limit], where
//
//	limit = sqrt(6 / (fanIn + fanOut))
//
// Weights are drawn in order from src; initializing several layers with the same Xavier
// continues the same random sequence.
func Xavier(src *rand.Rand) xavier {
	return xavier{src}
}

// Glorot is the same as Xavier.
func Glorot(src *rand.Rand) xavier {
	return Xavier(src)
}

// Limit returns the bound of the range that Xavier draws from.
func Limit(fanIn, fanOut int) float64 {
	return math.Sqrt(6 / float64(fanIn+fanOut))
}

// Set fills ws with weights for a layer of the given fan-in and fan-out. ws is usually the
// row-major backing data of a fanOut x fanIn matrix.
func (x xavier) Set(ws []float64, fanIn, fanOut int) {
	l := Limit(fanIn, fanOut)
	gen := Uniform(x.src).Bounds(-l, l)

	for i := range ws {
		ws[i] = gen.Gen()
	}
}
