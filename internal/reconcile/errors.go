package reconcile

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is returned when the statute or operation list is missing
// required structural fields. It is the only condition that aborts a run.
var ErrMalformedInput = errors.New("malformed input")

// InputError wraps a structural validation failure with the offending path.
type InputError struct {
	Path string
	err  error
}

func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", ErrMalformedInput, e.err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrMalformedInput, e.Path, e.err)
}

func (e *InputError) Unwrap() error { return e.err }

// Is makes errors.Is(err, ErrMalformedInput) hold for every InputError.
func (e *InputError) Is(target error) bool { return target == ErrMalformedInput }

// IsMalformedInput reports whether err came from input validation.
func IsMalformedInput(err error) bool {
	var input *InputError
	return errors.As(err, &input)
}
