package digits

import (
	"fmt"
	"io"
	"time"
)

// Argmax returns the index of the largest value. Ties go to the lowest index, because the current
// best is only replaced by a strictly greater value. Argmax returns -1 for an empty slice.
func Argmax(values []float64) int {
	if len(values) == 0 {
		return -1
	}

	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}

	return best
}

// CorrectHighest returns whether or not the most probable class in outs is the label.
func CorrectHighest(outs []float64, label int) bool {
	return Argmax(outs) == label
}

// Every returns a function that satisfies TrainArgs.SendStatus and TrainArgs.ShouldTest: true on
// every epoch that is a multiple of frequency (including epoch 0). A frequency < 1 never fires.
func Every(frequency int) func(int) bool {
	return func(epoch int) bool {
		return frequency > 0 && epoch%frequency == 0
	}
}

// EveryAndLast is Every, but also true on the final epoch of a run of the given number of epochs,
// so that the last status is always reported.
func EveryAndLast(frequency, epochs int) func(int) bool {
	every := Every(frequency)
	return func(epoch int) bool {
		return every(epoch) || epoch == epochs-1
	}
}

// PrintResult returns a function to be used as TrainArgs.Update, which writes each Result to w,
// along with a function to call once training has finished, which writes the last results and
// the time taken.
func PrintResult(w io.Writer) (update func(Result), final func()) {
	start := time.Now()

	var last, lastTest *Result

	update = func(r Result) {
		r2 := r
		if r.IsTest {
			lastTest = &r2
			fmt.Fprintf(w, "Epoch %d: test error = %g, test correct = %.2f%%\n", r.Epoch, r.Cost, 100*r.Correct)
		} else {
			last = &r2
			fmt.Fprintf(w, "Epoch %d: mean error = %g, correct = %.2f%%\n", r.Epoch, r.Cost, 100*r.Correct)
		}
	}

	final = func() {
		if last != nil {
			fmt.Fprintf(w, "Last status (epoch %d): mean error = %g, correct = %.2f%%\n", last.Epoch, last.Cost, 100*last.Correct)
		}
		if lastTest != nil {
			fmt.Fprintf(w, "Last test (epoch %d): error = %g, correct = %.2f%%\n", lastTest.Epoch, lastTest.Cost, 100*lastTest.Correct)
		}
		fmt.Fprintf(w, "Done training! It took %v\n", time.Since(start).Round(time.Millisecond))
	}

	return
}
