package walker

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

var (
	ErrStructureTooDeep = errors.New("structure too deep")
	ErrUnsupportedType  = errors.New("unsupported type")
)

// StructureTooDeepError is returned when nesting exceeds the configured depth.
type StructureTooDeepError struct {
	Path     string
	MaxDepth int
}

func (e *StructureTooDeepError) Error() string {
	return fmt.Sprintf("structure too deep at %s (max depth %d)", e.Path, e.MaxDepth)
}

func (e *StructureTooDeepError) Is(target error) bool { return target == ErrStructureTooDeep }

// UnsupportedTypeError is returned for values the walker cannot copy, such
// as structs or channels, so they never pass through unmasked.
type UnsupportedTypeError struct {
	Path string
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("cannot walk %s at %s", e.Type, e.Path)
}

func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

// LeafError records a string leaf that could not be masked. It names the
// path and rule but never the value.
type LeafError struct {
	Path string
	Rule string
	Err  error
}

func (e *LeafError) Error() string {
	return fmt.Sprintf("%s: rule %s: %v", e.Path, e.Rule, e.Err)
}

func (e *LeafError) Unwrap() error { return e.Err }

// Combine folds leaf errors into a single error, or nil when there are none.
func Combine(leaves []*LeafError) error {
	var merr *multierror.Error
	for _, l := range leaves {
		merr = multierror.Append(merr, l)
	}
	return merr.ErrorOrNil()
}
