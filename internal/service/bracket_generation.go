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

type BracketService struct {
	db     *sqlx.DB
	store  *store.TournamentStore
	rand   bracket.RandSource
	clock  clockwork.Clock
	logger *slog.Logger
}

func NewBracketService(db *sqlx.DB, store *store.TournamentStore, rand bracket.RandSource, clock clockwork.Clock, logger *slog.Logger) *BracketService {
	if rand == nil {
		rand = bracket.DefaultSource
	}
	return &BracketService{db: db, store: store, rand: rand, clock: clock, logger: logger}
}

type GenerateOptions struct {
	// Force deletes an existing bracket and builds a new one.
	Force bool
}

type GenerateResult struct {
	TournamentID uuid.UUID `json:"tournamentId"`
	Players      int       `json:"players"`
	BracketSize  int       `json:"bracketSize"`
	Rounds       int       `json:"rounds"`
}

// Generate seeds the current participants at random into a single elimination bracket
// and stores every match of every round in one transaction.
func (s *BracketService) Generate(ctx context.Context, slug string, operatorID uuid.UUID, opts GenerateOptions) (*GenerateResult, error) {
	if operatorID == uuid.Nil {
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

	existing, err := s.store.CountMatches(ctx, tx, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("count matches: %w", err)
	}
	if existing > 0 {
		if !opts.Force {
			return nil, ErrAlreadyGenerated
		}
		if _, err := s.store.DeleteMatches(ctx, tx, tournament.ID); err != nil {
			return nil, fmt.Errorf("delete matches: %w", err)
		}
	}

	players, err := s.store.ListParticipantIDs(ctx, tx, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if len(players) < 2 {
		return nil, ErrInsufficientPlayers
	}

	bracket.Shuffle(s.rand, players)
	matches := bracket.Plan(tournament.ID, players, s.clock.Now().UTC())

	if err := s.store.CreateMatches(ctx, tx, matches); err != nil {
		return nil, fmt.Errorf("create matches: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	shape := bracket.ShapeFor(len(players))
	s.logger.Info("bracket generated",
		"tournament_id", tournament.ID,
		"operator_id", operatorID,
		"players", shape.Players,
		"bracket_size", shape.BracketSize,
		"rounds", shape.Rounds,
		"replaced", existing,
	)

	return &GenerateResult{
		TournamentID: tournament.ID,
		Players:      shape.Players,
		BracketSize:  shape.BracketSize,
		Rounds:       shape.Rounds,
	}, nil
}

type BracketView struct {
	TournamentID uuid.UUID           `json:"tournamentId"`
	Slug         string              `json:"slug"`
	Matches      []bracket.MatchView `json:"matches"`
	Rounds       []bracket.Round     `json:"rounds"`
}

// GetBracket returns the stored matches ordered by round and match number, plus the
// same matches grouped per round.
func (s *BracketService) GetBracket(ctx context.Context, slug string) (*BracketView, error) {
	tournament, err := s.store.GetTournamentBySlug(ctx, slug)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get tournament: %w", err)
	}

	matches, err := s.store.GetMatchViews(ctx, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("get matches: %w", err)
	}

	return &BracketView{
		TournamentID: tournament.ID,
		Slug:         tournament.Slug,
		Matches:      matches,
		Rounds:       bracket.GroupByRound(matches),
	}, nil
}
