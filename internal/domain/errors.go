package domain

import "fmt"

// MissingVariableError reports a variable the input file does not contain.
type MissingVariableError struct {
	Variable string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing variable %q", e.Variable)
}

// DataShapeError reports a variable whose shape does not fit the cleaner's
// contract. MinLength is set when the depth axis is shorter than the
// configured bad-bin range requires.
type DataShapeError struct {
	Variable  string
	Shape     []int
	Want      string
	MinLength int
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("variable %q has shape %v, want %s", e.Variable, e.Shape, e.Want)
}
