package bracket

import (
	"time"

	"github.com/google/uuid"
)

// Participant is one enrollment of a user in a tournament.
type Participant struct {
	ID           uuid.UUID `db:"id"`
	TournamentID uuid.UUID `db:"tournament_id"`
	UserID       uuid.UUID `db:"user_id"`
	JoinedAt     time.Time `db:"joined_at"`
}

// Player is the display identity of an enrolled user.
type Player struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	PhantomID *string   `db:"phantom_id" json:"phantomId"`
	Country   *string   `db:"country" json:"country"`
	Rating    *int      `db:"rating" json:"rating"`
	AvatarURL *string   `db:"avatar_url" json:"avatarUrl"`
	JoinedAt  time.Time `db:"joined_at" json:"joinedAt"`
}
