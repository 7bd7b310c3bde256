package bracket

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchPending  MatchStatus = "pending"
	MatchFinished MatchStatus = "finished"
)

type Match struct {
	ID           uuid.UUID `db:"id"`
	TournamentID uuid.UUID `db:"tournament_id"`

	// (round, match number) is the position of the match in the bracket
	RoundNumber int `db:"round_number"`
	MatchNumber int `db:"match_number"`

	PlayerAID *uuid.UUID `db:"player_a_id"`
	PlayerBID *uuid.UUID `db:"player_b_id"`
	WinnerID  *uuid.UUID `db:"winner_id"`

	ScoreA *int        `db:"score_a"`
	ScoreB *int        `db:"score_b"`
	Status MatchStatus `db:"status"`

	CreatedAt time.Time `db:"created_at"`
}

// IsBye reports whether exactly one player slot is filled in a first round match.
func (m *Match) IsBye() bool {
	return m.RoundNumber == 1 && (m.PlayerAID == nil) != (m.PlayerBID == nil)
}

func (m *Match) IsEmpty() bool {
	return m.PlayerAID == nil && m.PlayerBID == nil
}

// Feeder returns the position of the match whose winner fills slot A (or B) of m.
// ok is false in round 1.
func (m *Match) Feeder(slotA bool) (round, matchNumber int, ok bool) {
	if m.RoundNumber <= 1 {
		return 0, 0, false
	}
	matchNumber = 2 * m.MatchNumber
	if slotA {
		matchNumber--
	}
	return m.RoundNumber - 1, matchNumber, true
}

func (m *Match) HasPlayer(id uuid.UUID) bool {
	return (m.PlayerAID != nil && *m.PlayerAID == id) || (m.PlayerBID != nil && *m.PlayerBID == id)
}

// NextSlot returns the position the winner of m moves to. ok is false for the final.
func (m *Match) NextSlot(totalRounds int) (round, matchNumber int, slotA bool, ok bool) {
	if m.RoundNumber >= totalRounds {
		return 0, 0, false, false
	}
	return m.RoundNumber + 1, (m.MatchNumber + 1) / 2, m.MatchNumber%2 != 0, true
}

// MatchView is a match enriched with the display identities of its players.
type MatchView struct {
	ID          uuid.UUID   `json:"id"`
	RoundNumber int         `json:"round"`
	MatchNumber int         `json:"matchNumber"`
	Status      MatchStatus `json:"status"`
	PlayerA     *MatchSide  `json:"playerA"`
	PlayerB     *MatchSide  `json:"playerB"`
	Winner      *MatchSide  `json:"winner"`
	ScoreA      *int        `json:"scoreA"`
	ScoreB      *int        `json:"scoreB"`
}

type MatchSide struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	PhantomID *string   `json:"phantomId"`
	AvatarURL *string   `json:"avatarUrl"`
}
