package bracket

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	StatusUpcoming TournamentStatus = "upcoming"
	StatusOpen     TournamentStatus = "open"
	StatusLive     TournamentStatus = "live"
	StatusFinished TournamentStatus = "finished"
)

// Statuses lists the valid statuses in bucket order.
var Statuses = []TournamentStatus{StatusUpcoming, StatusOpen, StatusLive, StatusFinished}

const DefaultFormat = "Solo"

// ParseStatus normalizes s and reports whether it names one of the four statuses.
func ParseStatus(s string) (TournamentStatus, bool) {
	status := TournamentStatus(strings.ToLower(strings.TrimSpace(s)))
	return status, status.Valid()
}

func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusOpen, StatusLive, StatusFinished:
		return true
	}
	return false
}

type Tournament struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	Slug      string           `db:"slug" json:"slug"`
	Name      string           `db:"name" json:"name"`
	Organizer string           `db:"organizer" json:"organizer"`
	Game      string           `db:"game" json:"game"`
	Region    string           `db:"region" json:"region"`
	Format    string           `db:"format" json:"format"`
	Status    TournamentStatus `db:"status" json:"status"`
	StartAt   time.Time        `db:"start_at" json:"startDate"`
	MaxSlots  int              `db:"max_slots" json:"maxSlots"`
	BannerURL *string          `db:"banner_url" json:"bannerUrl"`
	CreatedBy *uuid.UUID       `db:"created_by" json:"-"`
	CreatedAt time.Time        `db:"created_at" json:"-"`
}

// TournamentSummary is a tournament row with its live participant count.
type TournamentSummary struct {
	Tournament
	CurrentSlots int `db:"current_slots" json:"currentSlots"`
}
