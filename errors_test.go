package hnswkit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"Nil", nil, CodeOK},
		{"NotInitialized", ErrNotInitialized, CodeNotInitialized},
		{"IDOutOfRange", &IDOutOfRangeError{ID: 5, MaxElements: 5}, CodeIDOutOfRange},
		{"Duplicate", fmt.Errorf("%w: 3", ErrDuplicateID), CodeDuplicateID},
		{"General", ErrGeneral, CodeGeneral},
		{"EngineError", &EngineError{Op: "add point", Err: errors.New("x")}, CodeGeneral},
		{"CountChanged", ErrResizeElementCountChanged, CodeResizeElementCountChanged},
		{"CapacityMismatch", ErrResizeCapacityMismatch, CodeResizeCapacityMismatch},
		{"TooSmall", fmt.Errorf("%w: 1 < 2", ErrResizeTooSmall), CodeResizeTooSmall},
		{"Dimension", &DimensionMismatchError{Expected: 4, Actual: 3}, CodeDimensionMismatch},
		{"Unknown", errors.New("something else"), CodeGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestCodeValues(t *testing.T) {
	assert.Equal(t, 0, int(CodeOK))
	assert.Equal(t, -1, int(CodeNotInitialized))
	assert.Equal(t, -2, int(CodeIDOutOfRange))
	assert.Equal(t, -3, int(CodeDuplicateID))
	assert.Equal(t, -4, int(CodeGeneral))
	assert.Equal(t, -5, int(CodeResizeElementCountChanged))
	assert.Equal(t, -6, int(CodeResizeCapacityMismatch))
	assert.Equal(t, -7, int(CodeResizeTooSmall))
	assert.Equal(t, -8, int(CodeDimensionMismatch))
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "OK", CodeOK.String())
	assert.Equal(t, "DUPLICATE_ID", CodeDuplicateID.String())
	assert.Equal(t, "DIMENSION_MISMATCH", CodeDimensionMismatch.String())
	assert.Equal(t, "Code(-42)", Code(-42).String())
}

func TestEngineErrorMatchesBoth(t *testing.T) {
	cause := errors.New("disk full")
	err := &EngineError{Op: "save index", Err: cause}

	assert.ErrorIs(t, err, ErrGeneral)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save index: disk full", err.Error())
}

func TestGuard(t *testing.T) {
	require.NoError(t, guard("noop", func() error { return nil }))

	err := guard("panics", func() error { panic("kaboom") })
	require.Error(t, err)
	assert.Equal(t, CodeGeneral, CodeOf(err))
	assert.Contains(t, err.Error(), "panics: panic: kaboom")

	v, err := guardValue("value", func() int { return 7 })
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = guardValue("value", func() int { panic("no") })
	require.Error(t, err)
	assert.Zero(t, v)
}
