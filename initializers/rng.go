package initializers

import "math/rand"

// RNG needs no explanation
type RNG interface {
	Gen() float64
}

type uniform struct {
	src          *rand.Rand
	lower, upper float64
}

// Uniform returns an RNG that gives values uniformly spread between its bounds, which default to
// [-1, 1) and can be set by Bounds. All values are drawn from src, so two Uniforms sharing a
// seeded source produce the same sequence on every run.
func Uniform(src *rand.Rand) *uniform {
	return &uniform{src, -1, 1}
}

// Bounds sets the range of a Uniform RNG, returning it. If lower > upper, the two are swapped.
func (u *uniform) Bounds(lower, upper float64) *uniform {
	if lower > upper {
		lower, upper = upper, lower
	}

	u.lower = lower
	u.upper = upper
	return u
}

// Gen is the implementation of RNG for Uniform. It returns a random number.
func (u *uniform) Gen() float64 {
	return u.src.Float64()*(u.upper-u.lower) + u.lower
}
