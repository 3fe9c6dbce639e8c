package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrUnknownToken  = errors.New("unknown token")
)

// InvalidConfigError is returned by NewSession when the configuration cannot
// produce a working session.
type InvalidConfigError struct {
	Field string
	Err   error
}

func (e *InvalidConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid config: %v", e.Err)
	}
	return fmt.Sprintf("invalid config: %s: %v", e.Field, e.Err)
}

func (e *InvalidConfigError) Unwrap() error { return e.Err }

func (e *InvalidConfigError) Is(target error) bool { return target == ErrInvalidConfig }

func invalid(field string, err error) error {
	return &InvalidConfigError{Field: field, Err: err}
}

func invalidf(field, format string, args ...any) error {
	return &InvalidConfigError{Field: field, Err: fmt.Errorf(format, args...)}
}
