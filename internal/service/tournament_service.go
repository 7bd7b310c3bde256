package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/nexoragaming/phantomid/internal/bracket"
	"github.com/nexoragaming/phantomid/internal/db"
	"github.com/nexoragaming/phantomid/internal/store"
	"github.com/nexoragaming/phantomid/internal/utils"
)

const DefaultMaxSlots = 32

type TournamentService struct {
	db     *sqlx.DB
	store  *store.TournamentStore
	clock  clockwork.Clock
	logger *slog.Logger
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, clock clockwork.Clock, logger *slog.Logger) *TournamentService {
	return &TournamentService{db: db, store: store, clock: clock, logger: logger}
}

type ListFilter struct {
	Search string
	Game   string
	Region string
	Status string
}

type Buckets struct {
	Upcoming []bracket.TournamentSummary `json:"upcoming"`
	Open     []bracket.TournamentSummary `json:"open"`
	Live     []bracket.TournamentSummary `json:"live"`
	Finished []bracket.TournamentSummary `json:"finished"`
}

func newBuckets() *Buckets {
	return &Buckets{
		Upcoming: []bracket.TournamentSummary{},
		Open:     []bracket.TournamentSummary{},
		Live:     []bracket.TournamentSummary{},
		Finished: []bracket.TournamentSummary{},
	}
}

func (b *Buckets) add(t bracket.TournamentSummary) {
	switch t.Status {
	case bracket.StatusUpcoming:
		b.Upcoming = append(b.Upcoming, t)
	case bracket.StatusOpen:
		b.Open = append(b.Open, t)
	case bracket.StatusLive:
		b.Live = append(b.Live, t)
	case bracket.StatusFinished:
		b.Finished = append(b.Finished, t)
	}
}

// ListTournaments returns the matching tournaments split by status. An unknown status
// filter matches nothing.
func (s *TournamentService) ListTournaments(ctx context.Context, filter ListFilter) (*Buckets, error) {
	buckets := newBuckets()

	storeFilter := store.TournamentFilter{
		Search: filter.Search,
		Game:   strings.TrimSpace(filter.Game),
		Region: strings.TrimSpace(filter.Region),
	}
	if strings.TrimSpace(filter.Status) != "" {
		status, ok := bracket.ParseStatus(filter.Status)
		if !ok {
			return buckets, nil
		}
		storeFilter.Status = status
	}

	tournaments, err := s.store.ListTournaments(ctx, storeFilter)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	for _, t := range tournaments {
		buckets.add(t)
	}
	return buckets, nil
}

type CreateInput struct {
	Name      string
	Organizer string
	Game      string
	Region    string
	Format    string
	Status    string
	StartDate string
	MaxSlots  *int
	BannerURL string
	CreatedBy uuid.UUID
}

type Created struct {
	ID     uuid.UUID                `json:"id"`
	Slug   string                   `json:"slug"`
	Status bracket.TournamentStatus `json:"status"`
}

var startDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}

func parseStartDate(s string) (time.Time, error) {
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidStartTime
}

func (s *TournamentService) CreateTournament(ctx context.Context, in CreateInput) (*Created, error) {
	name := strings.TrimSpace(in.Name)
	organizer := strings.TrimSpace(in.Organizer)
	game := strings.TrimSpace(in.Game)
	region := strings.TrimSpace(in.Region)
	startDate := strings.TrimSpace(in.StartDate)
	if name == "" || organizer == "" || game == "" || region == "" || startDate == "" {
		return nil, ErrMissingFields
	}

	status := bracket.StatusOpen
	if strings.TrimSpace(in.Status) != "" {
		parsed, ok := bracket.ParseStatus(in.Status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		status = parsed
	}

	maxSlots := DefaultMaxSlots
	if in.MaxSlots != nil {
		maxSlots = *in.MaxSlots
	}
	if maxSlots < 2 {
		return nil, ErrInvalidCapacity
	}

	startAt, err := parseStartDate(startDate)
	if err != nil {
		return nil, err
	}

	format := strings.TrimSpace(in.Format)
	if format == "" {
		format = bracket.DefaultFormat
	}

	tournament := &bracket.Tournament{
		ID:        uuid.New(),
		Slug:      bracket.NewSlug(name),
		Name:      name,
		Organizer: organizer,
		Game:      game,
		Region:    region,
		Format:    format,
		Status:    status,
		StartAt:   startAt,
		MaxSlots:  maxSlots,
		BannerURL: utils.StringOrNil(in.BannerURL),
		CreatedAt: s.clock.Now().UTC(),
	}
	if in.CreatedBy != uuid.Nil {
		tournament.CreatedBy = utils.Ptr(in.CreatedBy)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreateTournament(ctx, tx, tournament); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("create tournament: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("tournament created", "tournament_id", tournament.ID, "slug", tournament.Slug, "status", status)
	return &Created{ID: tournament.ID, Slug: tournament.Slug, Status: tournament.Status}, nil
}

func (s *TournamentService) GetTournament(ctx context.Context, slug string) (*bracket.TournamentSummary, error) {
	tournament, err := s.store.GetTournamentBySlug(ctx, slug)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get tournament: %w", err)
	}
	return tournament, nil
}
