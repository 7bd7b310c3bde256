package bracket

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Shape is the part of a bracket that depends only on the number of players.
type Shape struct {
	Players     int
	BracketSize int
	Rounds      int
}

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8 and so on
func calcBracketSize(count int) int {
	if count <= 0 {
		return 0
	}

	// Log2 -> Ceil -> 2^^log2 to round up
	log2 := math.Ceil(math.Log2(float64(count)))
	return int(math.Pow(2, log2))
}

func ShapeFor(players int) Shape {
	size := calcBracketSize(players)
	rounds := 0
	if size > 1 {
		rounds = int(math.Log2(float64(size)))
	}
	return Shape{Players: players, BracketSize: size, Rounds: rounds}
}

// MatchesInRound returns bracketSize/2^round.
func (s Shape) MatchesInRound(round int) int {
	if round < 1 || round > s.Rounds {
		return 0
	}
	return s.BracketSize >> round
}

func (s Shape) TotalMatches() int {
	if s.BracketSize == 0 {
		return 0
	}
	return s.BracketSize - 1
}

// RandSource is the randomness used for seeding. *rand.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource draws from the math/rand/v2 global generator and is safe for concurrent use.
var DefaultSource RandSource = globalSource{}

// Shuffle permutes items in place with Fisher-Yates.
func Shuffle[T any](src RandSource, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Plan lays out every match of a single elimination bracket. Round 1 takes the seeded
// players two at a time, with empty slots past the end of seeded as byes. Later rounds
// are placeholders with no players.
func Plan(tournamentID uuid.UUID, seeded []uuid.UUID, now time.Time) []Match {
	shape := ShapeFor(len(seeded))
	matches := make([]Match, 0, shape.TotalMatches())

	slots := make([]*uuid.UUID, shape.BracketSize)
	for i := range seeded {
		slots[i] = &seeded[i]
	}

	for r := 1; r <= shape.Rounds; r++ {
		for i := 0; i < shape.MatchesInRound(r); i++ {
			m := Match{
				ID:           uuid.New(),
				TournamentID: tournamentID,
				RoundNumber:  r,
				MatchNumber:  i + 1,
				Status:       MatchPending,
				CreatedAt:    now,
			}
			if r == 1 {
				m.PlayerAID = slots[2*i]
				m.PlayerBID = slots[2*i+1]
			}
			matches = append(matches, m)
		}
	}

	return matches
}
