package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name            string
		originalError   error
		message         string
		expectedMessage string
	}{
		{
			name:            "wrap simple error",
			originalError:   errors.New("original error"),
			message:         "wrapper message",
			expectedMessage: "wrapper message: original error",
		},
		{
			name:            "empty wrapper message",
			originalError:   errors.New("original error"),
			message:         "",
			expectedMessage: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrappedError := WrapError(tt.originalError, tt.message)
			require.Error(t, wrappedError)
			assert.Equal(t, tt.expectedMessage, wrappedError.Error())
			assert.ErrorIs(t, wrappedError, tt.originalError)
		})
	}
}

func TestWrapError_Nil(t *testing.T) {
	assert.NoError(t, WrapError(nil, "context"))
	assert.NoError(t, WrapErrorf(nil, "context %d", 1))
}

func TestItemError(t *testing.T) {
	err := NewItemError("Acme", "https://example.com/directory/abc", ErrMarkerTimeout)

	assert.Equal(t, "Acme (https://example.com/directory/abc): detail page content marker did not appear", err.Error())
	assert.ErrorIs(t, err, ErrMarkerTimeout)
}

func TestConfigurationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigurationError
		expected string
	}{
		{
			name:     "section and field",
			err:      NewConfigurationError("browser_config", "driver", "unknown driver"),
			expected: "configuration error in browser_config.driver: unknown driver",
		},
		{
			name:     "section only",
			err:      NewConfigurationError("storage_config", "", "missing"),
			expected: "configuration error in storage_config: missing",
		},
		{
			name:     "reason only",
			err:      NewConfigurationError("", "", "broken"),
			expected: "configuration error: broken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrInvalidConfiguration)
		})
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := NewNetworkError("https://example.com/raw.json", "request failed", inner)

	assert.Equal(t, "fetch https://example.com/raw.json: request failed: connection reset", err.Error())
	assert.ErrorIs(t, err, inner)

	status := NewNetworkError("https://example.com/raw.json", "unexpected status 404 Not Found", nil)
	assert.Equal(t, "fetch https://example.com/raw.json: unexpected status 404 Not Found", status.Error())
}

func TestCombineErrors(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	assert.NoError(t, CombineErrors(nil))
	assert.NoError(t, CombineErrors([]error{nil, nil}))
	assert.Equal(t, first, CombineErrors([]error{nil, first}))
	assert.Equal(t, "multiple errors occurred: [first; second]", CombineErrors([]error{first, second}).Error())
}

func TestErrorCollector(t *testing.T) {
	var ec ErrorCollector
	assert.False(t, ec.HasErrors())

	ec.Add(nil)
	ec.Add(errors.New("one"))
	ec.Add(NewItemError("Acme", "https://example.com/directory/abc", ErrEmptyDetail))

	assert.True(t, ec.HasErrors())
	assert.Equal(t, 2, ec.Len())
	assert.Equal(t, []string{"one", "Acme (https://example.com/directory/abc): detail page yielded no fields"}, ec.Messages())
	assert.ErrorContains(t, ec.Error(), "multiple errors occurred")

	var empty ErrorCollector
	assert.NotNil(t, empty.Messages())
	assert.NoError(t, empty.Error())
}
