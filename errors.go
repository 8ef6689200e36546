package kubric

import "errors"

var (
	// ErrPrecondition reports a request the backend cannot honor in the
	// current state or with the given parameters.
	ErrPrecondition = errors.New("kubric: precondition failed")
	// ErrNotImplementable reports a capability the backend does not have.
	ErrNotImplementable = errors.New("kubric: not implementable by this backend")
	// ErrInvalidValue reports a property value rejected by validation.
	ErrInvalidValue = errors.New("kubric: invalid value")
)
