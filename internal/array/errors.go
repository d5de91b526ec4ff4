package array

import (
	"errors"
	"fmt"
)

// Domain errors for array operations.
var (
	// ErrInvalidSize indicates a requested size below 1 or above the layout maximum.
	ErrInvalidSize = errors.New("array: invalid size")

	// ErrIndexOutOfRange indicates an index outside [0, size).
	ErrIndexOutOfRange = errors.New("array: index out of range")

	// ErrInvalidRange indicates a value range with Min > Max.
	ErrInvalidRange = errors.New("array: invalid value range")
)

// IndexError wraps ErrIndexOutOfRange with the offending access.
type IndexError struct {
	Op    string
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("array: %s index %d out of range [0,%d)", e.Op, e.Index, e.Size)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// SizeError wraps ErrInvalidSize with the requested size and the bound in effect.
type SizeError struct {
	Size int
	Max  int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("array: size %d outside [1,%d]", e.Size, e.Max)
}

func (e *SizeError) Unwrap() error {
	return ErrInvalidSize
}
