package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorReasonsAreDistinct(t *testing.T) {
	all := []*Error{
		ErrMissingFields, ErrInvalidStatus, ErrInvalidCapacity, ErrInvalidStartTime,
		ErrNotFound, ErrNotAuthenticated, ErrNotOpen, ErrFull, ErrAlreadyGenerated,
		ErrDuplicateSlug, ErrInsufficientPlayers, ErrMatchNotFound, ErrInvalidWinner,
		ErrMatchNotReady, ErrMatchDecided,
	}

	seen := map[string]bool{}
	for _, e := range all {
		assert.NotEmpty(t, e.Reason)
		assert.False(t, seen[e.Reason], "duplicate reason %q", e.Reason)
		seen[e.Reason] = true
	}
}

func TestAsError(t *testing.T) {
	wrapped := fmt.Errorf("%w: name", ErrMissingFields)

	e, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "missing_fields", e.Reason)
	assert.True(t, errors.Is(wrapped, ErrMissingFields))

	_, ok = AsError(errors.New("disk on fire"))
	assert.False(t, ok)
}
