// Package hyperparams provides learning-rate schedules for training. A schedule is asked for its
// value once at the start of every epoch.
package hyperparams

// HyperParameter is a value that may change over the course of training.
type HyperParameter interface {
	// TypeString returns the name of the type of HyperParameter, e.g. "constant"
	TypeString() string

	// Value returns the value to use during the given (0-indexed) epoch.
	Value(epoch int) float64
}
