package hnswkit

import (
	"errors"
	"fmt"
	"strconv"
)

// Code is the stable integer status reported across the C boundary.
// Failures are negative.
type Code int

const (
	CodeOK                        Code = 0
	CodeNotInitialized            Code = -1
	CodeIDOutOfRange              Code = -2
	CodeDuplicateID               Code = -3
	CodeGeneral                   Code = -4
	CodeResizeElementCountChanged Code = -5
	CodeResizeCapacityMismatch    Code = -6
	CodeResizeTooSmall            Code = -7
	CodeDimensionMismatch         Code = -8
)

// String returns the symbolic name of the code.
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeNotInitialized:
		return "NOT_INITIALIZED"
	case CodeIDOutOfRange:
		return "ID_OUT_OF_RANGE"
	case CodeDuplicateID:
		return "DUPLICATE_ID"
	case CodeGeneral:
		return "GENERAL"
	case CodeResizeElementCountChanged:
		return "RESIZE_ELEMENT_COUNT_CHANGED"
	case CodeResizeCapacityMismatch:
		return "RESIZE_CAPACITY_MISMATCH"
	case CodeResizeTooSmall:
		return "RESIZE_TOO_SMALL"
	case CodeDimensionMismatch:
		return "DIMENSION_MISMATCH"
	default:
		return "Code(" + strconv.Itoa(int(c)) + ")"
	}
}

var (
	// ErrNotInitialized is returned by every operation on a closed index.
	ErrNotInitialized = errors.New("index not initialized")

	// ErrIDOutOfRange is returned when an id is negative or not below the capacity.
	ErrIDOutOfRange = errors.New("id out of range")

	// ErrDuplicateID is returned when an id is already known to the engine,
	// including ids that are marked deleted.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrGeneral marks any failure raised by the engine or by persistence.
	ErrGeneral = errors.New("engine failure")

	// ErrResizeElementCountChanged is returned when the engine lost or gained
	// elements while resizing.
	ErrResizeElementCountChanged = errors.New("resize changed the element count")

	// ErrResizeCapacityMismatch is returned when the engine capacity after a
	// resize differs from the requested one.
	ErrResizeCapacityMismatch = errors.New("resize did not reach the requested capacity")

	// ErrResizeTooSmall is returned when the requested capacity is below the
	// current element count. The engine is not called.
	ErrResizeTooSmall = errors.New("resize below the current element count")

	// ErrDimensionMismatch is returned when a vector does not match the index dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// IDOutOfRangeError carries the rejected id and the capacity at the time.
type IDOutOfRangeError struct {
	ID          int
	MaxElements int
}

func (e *IDOutOfRangeError) Error() string {
	return fmt.Sprintf("id %d out of range [0, %d)", e.ID, e.MaxElements)
}

func (e *IDOutOfRangeError) Unwrap() error { return ErrIDOutOfRange }

// DimensionMismatchError indicates a vector/query dimensionality mismatch.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// EngineError wraps a failure, or a recovered panic, from an engine or
// persistence call. It matches both ErrGeneral and the underlying error.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() []error { return []error{ErrGeneral, e.Err} }

// CodeOf maps err to its status code. Unknown errors map to CodeGeneral.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrNotInitialized):
		return CodeNotInitialized
	case errors.Is(err, ErrIDOutOfRange):
		return CodeIDOutOfRange
	case errors.Is(err, ErrDuplicateID):
		return CodeDuplicateID
	case errors.Is(err, ErrResizeElementCountChanged):
		return CodeResizeElementCountChanged
	case errors.Is(err, ErrResizeCapacityMismatch):
		return CodeResizeCapacityMismatch
	case errors.Is(err, ErrResizeTooSmall):
		return CodeResizeTooSmall
	case errors.Is(err, ErrDimensionMismatch):
		return CodeDimensionMismatch
	default:
		return CodeGeneral
	}
}

// guard runs an engine call and converts both returned errors and panics
// into *EngineError.
func guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &EngineError{Op: op, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if err := fn(); err != nil {
		return &EngineError{Op: op, Err: err}
	}

	return nil
}

// guardValue is guard for engine reads. A panic yields the zero value.
func guardValue[T any](op string, fn func() T) (v T, err error) {
	err = guard(op, func() error {
		v = fn()
		return nil
	})

	return v, err
}
