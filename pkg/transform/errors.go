package transform

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey is matched by every *ValidationError
	ErrInvalidKey = errors.New("transform: key out of range")

	// ErrUnsupportedMethod is matched by every *UnsupportedMethodError
	ErrUnsupportedMethod = errors.New("transform: unsupported method")

	// ErrUnsupportedDirection is returned for a Direction other than Forward or Inverse
	ErrUnsupportedDirection = errors.New("transform: unsupported direction")
)

// ValidationError reports a key outside [MinKey, MaxKey] for a keyed method
type ValidationError struct {
	Method Method
	Key    int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("transform: key %d out of range [%d,%d] for %s", e.Key, MinKey, MaxKey, e.Method)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidKey }

// UnsupportedMethodError reports a method identifier that is not one of the
// known variants. Name is set when parsing failed, Method otherwise.
type UnsupportedMethodError struct {
	Name   string
	Method Method
}

func (e *UnsupportedMethodError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("transform: unsupported method %q", e.Name)
	}
	return fmt.Sprintf("transform: unsupported method %s", e.Method)
}

func (e *UnsupportedMethodError) Is(target error) bool { return target == ErrUnsupportedMethod }
