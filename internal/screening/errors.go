package screening

import "fmt"

// Constraint names the rule a response set violated.
type Constraint string

const (
	ConstraintUnknownInstrument Constraint = "unknown_instrument"
	ConstraintLength            Constraint = "length"
	ConstraintRange             Constraint = "range"
)

// ValidationError reports a malformed response sequence.
type ValidationError struct {
	Instrument Instrument
	Constraint Constraint
	// Index is the offending item for range violations, -1 otherwise.
	Index int
	Got   int
	Want  string
}

func (e *ValidationError) Error() string {
	switch e.Constraint {
	case ConstraintLength:
		return fmt.Sprintf("%s: expected %s responses, got %d", e.Instrument, e.Want, e.Got)
	case ConstraintRange:
		return fmt.Sprintf("%s: response %d is %d, must be within %s", e.Instrument, e.Index+1, e.Got, e.Want)
	}
	return fmt.Sprintf("%s: unknown instrument", e.Instrument)
}
