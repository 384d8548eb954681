package hnsw

import (
	"errors"
	"fmt"
)

var (
	ErrClosed           = errors.New("hnsw: index closed")
	ErrNilSpace         = errors.New("hnsw: space is nil")
	ErrInvalidCapacity  = errors.New("hnsw: capacity must not be negative")
	ErrCapacityExceeded = errors.New("hnsw: the number of elements exceeds the specified limit")
	ErrLabelExists      = errors.New("hnsw: label already exists")
	ErrLabelNotFound    = errors.New("hnsw: label not found")
	ErrAlreadyDeleted   = errors.New("hnsw: element is already marked deleted")
	ErrNotDeleted       = errors.New("hnsw: element is not marked deleted")
	ErrInvalidEf        = errors.New("hnsw: ef must be positive")
	ErrResizeTooSmall   = errors.New("hnsw: cannot resize below the current number of elements")
	ErrSpaceMismatch    = errors.New("hnsw: space does not match index file")
	ErrInvalidFormat    = errors.New("hnsw: invalid index file")
)

// ErrDimensionMismatch is a named error type for dimension mismatch
type ErrDimensionMismatch struct {
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
}

// Error returns the error message for dimension mismatch
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
