package service

import "errors"

// ErrForbidden marks operations the caller's role does not permit.
var ErrForbidden = errors.New("forbidden")

// ValidationError carries a reason safe to return to the client verbatim.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

func invalid(reason string) error {
	return ValidationError{Reason: reason}
}
