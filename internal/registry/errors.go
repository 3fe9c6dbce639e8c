package registry

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateRule  = errors.New("duplicate rule")
	ErrUnknownPattern = errors.New("unknown pattern")
	ErrInvalidPattern = errors.New("invalid pattern")
)

// DuplicateRuleError is returned when a rule name is registered twice without
// an explicit override.
type DuplicateRuleError struct {
	Name string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("rule %q is already registered", e.Name)
}

func (e *DuplicateRuleError) Is(target error) bool { return target == ErrDuplicateRule }

// UnknownPatternError is returned when resolving a name that was never registered.
type UnknownPatternError struct {
	Name string
}

func (e *UnknownPatternError) Error() string {
	return fmt.Sprintf("pattern %q not found", e.Name)
}

func (e *UnknownPatternError) Is(target error) bool { return target == ErrUnknownPattern }

// InvalidPatternError reports a rule that failed to compile or carries
// out-of-range metadata.
type InvalidPatternError struct {
	Name string
	Err  error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Name, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

func (e *InvalidPatternError) Is(target error) bool { return target == ErrInvalidPattern }
