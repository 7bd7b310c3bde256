package bracket

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playerIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestShapeFor(t *testing.T) {
	tests := []struct {
		players int
		size    int
		rounds  int
	}{
		{2, 2, 1},
		{3, 4, 2},
		{4, 4, 2},
		{5, 8, 3},
		{8, 8, 3},
		{9, 16, 4},
		{16, 16, 4},
		{17, 32, 5},
	}

	for _, tt := range tests {
		s := ShapeFor(tt.players)
		assert.Equal(t, tt.size, s.BracketSize, "players=%d", tt.players)
		assert.Equal(t, tt.rounds, s.Rounds, "players=%d", tt.players)
		assert.Equal(t, tt.size-1, s.TotalMatches())
	}
}

func TestMatchesInRound(t *testing.T) {
	s := ShapeFor(5)
	assert.Equal(t, 4, s.MatchesInRound(1))
	assert.Equal(t, 2, s.MatchesInRound(2))
	assert.Equal(t, 1, s.MatchesInRound(3))
	assert.Equal(t, 0, s.MatchesInRound(4))
	assert.Equal(t, 0, s.MatchesInRound(0))
}

func TestPlan_Shape(t *testing.T) {
	tournamentID := uuid.New()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for p := 2; p <= 17; p++ {
		ids := playerIDs(p)
		matches := Plan(tournamentID, ids, now)
		shape := ShapeFor(p)

		require.Len(t, matches, shape.BracketSize-1, "players=%d", p)

		perRound := map[int]int{}
		seen := map[uuid.UUID]int{}
		byes := 0
		for _, m := range matches {
			assert.Equal(t, tournamentID, m.TournamentID)
			assert.Equal(t, MatchPending, m.Status)
			assert.Nil(t, m.WinnerID)
			perRound[m.RoundNumber]++
			assert.Equal(t, perRound[m.RoundNumber], m.MatchNumber, "match numbers are 1..n in order")

			if m.RoundNumber > 1 {
				assert.Nil(t, m.PlayerAID)
				assert.Nil(t, m.PlayerBID)
				continue
			}
			if m.PlayerAID != nil {
				seen[*m.PlayerAID]++
			}
			if m.PlayerBID != nil {
				seen[*m.PlayerBID]++
			}
			if m.IsBye() {
				byes++
			}
		}

		for r := 1; r <= shape.Rounds; r++ {
			assert.Equal(t, shape.BracketSize>>r, perRound[r], "players=%d round=%d", p, r)
		}
		assert.Len(t, seen, p)
		for id, count := range seen {
			assert.Equal(t, 1, count, "player %s placed once", id)
		}
		assert.Equal(t, shape.BracketSize-p, byes, "players=%d", p)
	}
}

func TestPlan_ThreePlayers(t *testing.T) {
	ids := playerIDs(3)
	matches := Plan(uuid.New(), ids, time.Now())
	require.Len(t, matches, 3)

	first := matches[0]
	assert.Equal(t, ids[0], *first.PlayerAID)
	assert.Equal(t, ids[1], *first.PlayerBID)

	bye := matches[1]
	assert.Equal(t, ids[2], *bye.PlayerAID)
	assert.Nil(t, bye.PlayerBID)
	assert.True(t, bye.IsBye())

	final := matches[2]
	assert.Equal(t, 2, final.RoundNumber)
	assert.Equal(t, 1, final.MatchNumber)
}

func TestShuffle_IsPermutation(t *testing.T) {
	ids := playerIDs(10)
	shuffled := append([]uuid.UUID(nil), ids...)

	Shuffle(rand.New(rand.NewPCG(1, 2)), shuffled)

	assert.ElementsMatch(t, ids, shuffled)
	assert.NotEqual(t, ids, shuffled)
}

func TestShuffle_Deterministic(t *testing.T) {
	a := []int{1, 2, 3, 4, 5, 6, 7, 8}
	b := []int{1, 2, 3, 4, 5, 6, 7, 8}

	Shuffle(rand.New(rand.NewPCG(7, 7)), a)
	Shuffle(rand.New(rand.NewPCG(7, 7)), b)

	assert.Equal(t, a, b)
}

func TestNextSlot(t *testing.T) {
	tests := []struct {
		round, match    int
		wantRound       int
		wantMatch       int
		wantSlotA, want bool
	}{
		{1, 1, 2, 1, true, true},
		{1, 2, 2, 1, false, true},
		{1, 3, 2, 2, true, true},
		{2, 2, 3, 1, false, true},
		{3, 1, 0, 0, false, false},
	}

	for _, tt := range tests {
		m := Match{RoundNumber: tt.round, MatchNumber: tt.match}
		r, n, slotA, ok := m.NextSlot(3)
		assert.Equal(t, tt.want, ok)
		assert.Equal(t, tt.wantRound, r)
		assert.Equal(t, tt.wantMatch, n)
		assert.Equal(t, tt.wantSlotA, slotA)
	}
}

func TestFeeder(t *testing.T) {
	tests := []struct {
		round, match int
		slotA        bool
		wantRound    int
		wantMatch    int
		want         bool
	}{
		{1, 2, true, 0, 0, false},
		{2, 1, true, 1, 1, true},
		{2, 1, false, 1, 2, true},
		{2, 2, false, 1, 4, true},
		{3, 2, true, 2, 3, true},
	}

	for _, tt := range tests {
		m := Match{RoundNumber: tt.round, MatchNumber: tt.match}
		r, n, ok := m.Feeder(tt.slotA)
		assert.Equal(t, tt.want, ok)
		assert.Equal(t, tt.wantRound, r)
		assert.Equal(t, tt.wantMatch, n)

		// The feeder's winner comes back to the same slot.
		if ok {
			feeder := Match{RoundNumber: r, MatchNumber: n}
			nr, nn, slotA, _ := feeder.NextSlot(3)
			assert.Equal(t, [3]any{tt.round, tt.match, tt.slotA}, [3]any{nr, nn, slotA})
		}
	}
}

func TestPlan_EmptyFirstRoundMatches(t *testing.T) {
	matches := Plan(uuid.New(), playerIDs(5), time.Now())

	var empty []int
	for _, m := range matches {
		if m.RoundNumber == 1 && m.IsEmpty() {
			empty = append(empty, m.MatchNumber)
		}
	}
	assert.Equal(t, []int{4}, empty)
}
