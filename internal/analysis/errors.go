package analysis

import (
	"errors"
	"fmt"
)

// ErrInsufficientData matches any *InsufficientDataError via errors.Is.
var ErrInsufficientData = errors.New("no numeric values")

// InsufficientDataError is returned in strict mode when a column has no
// numeric-coercible values.
type InsufficientDataError struct {
	Column string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("column %q: %s", e.Column, ErrInsufficientData.Error())
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }
