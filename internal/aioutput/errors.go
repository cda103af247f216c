package aioutput

import (
	"errors"
	"fmt"
)

var ErrMalformedOutput = errors.New("malformed AI output")

// MalformedOutputError keeps both the raw and the cleaned model text so that
// callers can return them for diagnostics.
type MalformedOutputError struct {
	Shape   string
	Raw     string
	Cleaned string
	Err     error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed AI output for %s: %v", e.Shape, e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

func (e *MalformedOutputError) Is(target error) bool {
	return target == ErrMalformedOutput
}
