// Implements the example filter: examples are retained or skipped based on
// whether the model's prediction on them is correct and which Mode is active.

package bench

import "fmt"

// Mode selects which evaluation examples the sweep retains.
type Mode string

const (
	// ModeOnlyCorrect retains only examples the model classifies correctly.
	ModeOnlyCorrect Mode = "only-correct"
	// ModeOnlyIncorrect retains only examples the model misclassifies.
	ModeOnlyIncorrect Mode = "only-incorrect"
)

// ParseMode validates a mode string before any model or dataset work begins.
// Anything other than the two recognized values is an error.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeOnlyCorrect, ModeOnlyIncorrect:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unrecognized mode %q (valid: %q, %q)", s, ModeOnlyCorrect, ModeOnlyIncorrect)
	}
}

// Retain reports whether an example with the given prediction correctness
// passes the filter. Skipping has no side effects on the sweep.
func (m Mode) Retain(correct bool) bool {
	return (m == ModeOnlyCorrect) == correct
}

func (m Mode) String() string {
	return string(m)
}
