package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/nexoragaming/phantomid/internal/bracket"
	"github.com/nexoragaming/phantomid/internal/db"
	"github.com/nexoragaming/phantomid/internal/store"
)

type RegistrationService struct {
	db     *sqlx.DB
	store  *store.TournamentStore
	clock  clockwork.Clock
	logger *slog.Logger
}

func NewRegistrationService(db *sqlx.DB, store *store.TournamentStore, clock clockwork.Clock, logger *slog.Logger) *RegistrationService {
	return &RegistrationService{db: db, store: store, clock: clock, logger: logger}
}

type JoinResult struct {
	Joined       bool `json:"joined"`
	CurrentSlots int  `json:"currentSlots"`
	MaxSlots     int  `json:"maxSlots"`
}

// Join enrolls userID in the tournament. The tournament row stays locked until commit,
// so concurrent joins see each other's inserts when counting. Joining twice is not an
// error; the second call reports Joined false.
func (s *RegistrationService) Join(ctx context.Context, slug string, userID uuid.UUID) (*JoinResult, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, err := s.store.LockTournament(ctx, tx, slug)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock tournament: %w", err)
	}

	if tournament.Status != bracket.StatusOpen {
		return nil, ErrNotOpen
	}

	already, err := s.store.IsParticipant(ctx, tx, tournament.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("check participant: %w", err)
	}

	joined := false
	if !already {
		count, err := s.store.CountParticipants(ctx, tx, tournament.ID)
		if err != nil {
			return nil, fmt.Errorf("count participants: %w", err)
		}
		if count >= tournament.MaxSlots {
			return nil, ErrFull
		}

		joined, err = s.store.AddParticipant(ctx, tx, &bracket.Participant{
			ID:           uuid.New(),
			TournamentID: tournament.ID,
			UserID:       userID,
			JoinedAt:     s.clock.Now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("add participant: %w", err)
		}
	}

	current, err := s.store.CountParticipants(ctx, tx, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("count participants: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if joined {
		s.logger.Info("participant joined", "tournament_id", tournament.ID, "user_id", userID, "current_slots", current)
	}

	return &JoinResult{Joined: joined, CurrentSlots: current, MaxSlots: tournament.MaxSlots}, nil
}

type ParticipantTournament struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	MaxSlots     int       `json:"maxSlots"`
	CurrentSlots int       `json:"currentSlots"`
}

type ParticipantList struct {
	Tournament   ParticipantTournament `json:"tournament"`
	Participants []bracket.Player      `json:"participants"`
}

// ListParticipants returns the enrolled players in join order.
func (s *RegistrationService) ListParticipants(ctx context.Context, slug string) (*ParticipantList, error) {
	tournament, err := s.store.GetTournamentBySlug(ctx, slug)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get tournament: %w", err)
	}

	players, err := s.store.ListPlayers(ctx, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	return &ParticipantList{
		Tournament: ParticipantTournament{
			ID:           tournament.ID,
			Name:         tournament.Name,
			Slug:         tournament.Slug,
			MaxSlots:     tournament.MaxSlots,
			CurrentSlots: len(players),
		},
		Participants: players,
	}, nil
}
