package service

import "github.com/pkg/errors"

// ErrValidation classifies caller input rejected by the validator.
var ErrValidation = errors.New("validation failed")

// ValidationError carries the validator's reason. errors.Is(err, ErrValidation) holds for it.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Is lets errors.Is match ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
