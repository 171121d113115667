package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		msg      string
		expected string
	}{
		{name: "wrap nil error", err: nil, msg: "additional context"},
		{name: "wrap standard error", err: errors.New("original error"), msg: "additional context", expected: "additional context: original error"},
		{name: "wrap with empty message", err: errors.New("original error"), msg: "", expected: ": original error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrap(tt.err, tt.msg)
			if tt.err == nil {
				assert.NoError(t, result)
				return
			}
			assert.EqualError(t, result, tt.expected)
			assert.ErrorIs(t, result, tt.err)
		})
	}
}

func TestWrapf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		format   string
		args     []interface{}
		expected string
	}{
		{name: "wrapf nil error", err: nil, format: "formatted: %s", args: []interface{}{"test"}},
		{name: "wrapf standard error", err: errors.New("original error"), format: "failed to process %s", args: []interface{}{"file.txt"}, expected: "failed to process file.txt: original error"},
		{name: "wrapf with multiple args", err: errors.New("original error"), format: "failed to process %s in %d attempts", args: []interface{}{"file.txt", 3}, expected: "failed to process file.txt in 3 attempts: original error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrapf(tt.err, tt.format, tt.args...)
			if tt.err == nil {
				assert.NoError(t, result)
				return
			}
			assert.EqualError(t, result, tt.expected)
			assert.ErrorIs(t, result, tt.err)
		})
	}
}

func TestStorageError(t *testing.T) {
	err := NewStorageError("remove", "1234", ErrInvalidModule)
	require.Error(t, err)

	assert.EqualError(t, err, "storage error during remove (1234): invalid module name")
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, ErrInvalidModule)
	assert.NotErrorIs(t, err, ErrAPI)
	assert.True(t, IsStorage(err))
	assert.False(t, IsAPI(err))

	var se *StorageError
	require.ErrorAs(t, fmt.Errorf("outer: %w", err), &se)
	assert.Equal(t, "remove", se.Op)
	assert.Equal(t, "1234", se.Addon)
}

func TestAPIError(t *testing.T) {
	err := NewAPIError("search", "", ErrCatalogStatus)
	require.Error(t, err)

	assert.EqualError(t, err, "api error during search: unexpected catalog response status")
	assert.ErrorIs(t, err, ErrAPI)
	assert.ErrorIs(t, err, ErrCatalogStatus)
	assert.True(t, IsAPI(Wrap(err, "status")))
	assert.False(t, IsStorage(err))
}

func TestErrorKindsNil(t *testing.T) {
	assert.NoError(t, NewStorageError("save", "", nil))
	assert.NoError(t, NewAPIError("search", "", nil))
}
