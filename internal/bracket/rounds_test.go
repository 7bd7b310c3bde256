package bracket

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByRound(t *testing.T) {
	views := []MatchView{
		{ID: uuid.New(), RoundNumber: 2, MatchNumber: 1},
		{ID: uuid.New(), RoundNumber: 1, MatchNumber: 2},
		{ID: uuid.New(), RoundNumber: 1, MatchNumber: 1},
	}

	rounds := GroupByRound(views)
	require.Len(t, rounds, 2)

	assert.Equal(t, 1, rounds[0].Number)
	require.Len(t, rounds[0].Matches, 2)
	assert.Equal(t, 1, rounds[0].Matches[0].MatchNumber)
	assert.Equal(t, 2, rounds[0].Matches[1].MatchNumber)

	assert.Equal(t, 2, rounds[1].Number)
	assert.Len(t, rounds[1].Matches, 1)
}

func TestGroupByRound_Empty(t *testing.T) {
	assert.Empty(t, GroupByRound(nil))
}
