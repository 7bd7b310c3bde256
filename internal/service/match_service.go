package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nexoragaming/phantomid/internal/bracket"
	"github.com/nexoragaming/phantomid/internal/db"
	"github.com/nexoragaming/phantomid/internal/store"
)

type MatchService struct {
	db     *sqlx.DB
	store  *store.TournamentStore
	logger *slog.Logger
}

func NewMatchService(db *sqlx.DB, store *store.TournamentStore, logger *slog.Logger) *MatchService {
	return &MatchService{db: db, store: store, logger: logger}
}

type RecordedResult struct {
	MatchID            uuid.UUID  `json:"matchId"`
	TournamentID       uuid.UUID  `json:"tournamentId"`
	WinnerID           uuid.UUID  `json:"winnerId"`
	NextMatchID        *uuid.UUID `json:"nextMatchId"`
	TournamentFinished bool       `json:"tournamentFinished"`
}

// RecordResult stores the winner and scores of a match of the tournament slug and moves
// the winner into the next round. Recording the final finishes the tournament.
func (s *MatchService) RecordResult(ctx context.Context, slug string, matchID, winnerID uuid.UUID, scoreA, scoreB *int) (*RecordedResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	match, err := s.store.GetMatch(ctx, tx, matchID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("get match: %w", err)
	}

	// Results of one tournament are serialized on its row, same as joins.
	tournament, err := s.store.LockTournamentByID(ctx, tx, match.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("lock tournament: %w", err)
	}
	if tournament.Slug != slug {
		return nil, ErrMatchNotFound
	}
	match, err = s.store.GetMatch(ctx, tx, matchID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("get match: %w", err)
	}

	if match.Status == bracket.MatchFinished {
		return nil, ErrMatchDecided
	}
	if !match.HasPlayer(winnerID) {
		return nil, ErrInvalidWinner
	}
	if match.PlayerAID == nil || match.PlayerBID == nil {
		closed, err := s.slotClosed(ctx, tx, match, match.PlayerAID == nil)
		if err != nil {
			return nil, fmt.Errorf("check feeder match: %w", err)
		}
		if !closed {
			return nil, ErrMatchNotReady
		}
	}

	match.WinnerID = &winnerID
	match.ScoreA = scoreA
	match.ScoreB = scoreB
	match.Status = bracket.MatchFinished

	if err := s.store.FinishMatch(ctx, tx, match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	totalRounds, err := s.store.MaxRound(ctx, tx, match.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get round count: %w", err)
	}

	result := &RecordedResult{MatchID: match.ID, TournamentID: match.TournamentID, WinnerID: winnerID}

	if round, number, slotA, ok := match.NextSlot(totalRounds); ok {
		next, err := s.store.GetMatchAt(ctx, tx, match.TournamentID, round, number)
		if err != nil {
			return nil, fmt.Errorf("failed to get next match: %w", err)
		}
		if err := s.store.SetMatchSlot(ctx, tx, next.ID, slotA, winnerID); err != nil {
			return nil, fmt.Errorf("failed to update next match: %w", err)
		}
		result.NextMatchID = &next.ID
	} else {
		// No next match, so this was the final
		if err := s.store.UpdateTournamentStatus(ctx, tx, match.TournamentID, bracket.StatusFinished); err != nil {
			return nil, fmt.Errorf("failed to update tournament status: %w", err)
		}
		result.TournamentFinished = true
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("match result recorded",
		"match_id", match.ID,
		"tournament_id", match.TournamentID,
		"round", match.RoundNumber,
		"winner_id", winnerID,
		"tournament_finished", result.TournamentFinished,
	)
	return result, nil
}

// slotClosed reports whether the empty slot of m can never be filled. In round 1 an empty
// slot is padding. Later it stays empty when its feeder match has no players and both of
// the feeder's own slots are closed.
func (s *MatchService) slotClosed(ctx context.Context, tx *sqlx.Tx, m *bracket.Match, slotA bool) (bool, error) {
	round, number, ok := m.Feeder(slotA)
	if !ok {
		return true, nil
	}

	feeder, err := s.store.GetMatchAt(ctx, tx, m.TournamentID, round, number)
	if err != nil {
		return false, err
	}
	if !feeder.IsEmpty() {
		return false, nil
	}

	closed, err := s.slotClosed(ctx, tx, feeder, true)
	if err != nil || !closed {
		return false, err
	}
	return s.slotClosed(ctx, tx, feeder, false)
}
