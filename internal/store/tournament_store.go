package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nexoragaming/phantomid/internal/bracket"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

const (
	tournamentColumns = `id, slug, name, organizer, game, region, format, status, start_at, max_slots, banner_url, created_by, created_at`

	summarySelect = `
		SELECT t.*,
			(SELECT COUNT(*) FROM tournament_participants p WHERE p.tournament_id = t.id) AS current_slots
		FROM tournaments t`

	// open first, then live, upcoming and finished
	statusRank = `CASE t.status WHEN 'open' THEN 1 WHEN 'live' THEN 2 WHEN 'upcoming' THEN 3 ELSE 4 END`
)

// TournamentFilter narrows ListTournaments. Empty fields do not filter.
type TournamentFilter struct {
	Search string
	Game   string
	Region string
	Status bracket.TournamentStatus
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO tournaments (`+tournamentColumns+`)
		VALUES (:id, :slug, :name, :organizer, :game, :region, :format, :status, :start_at, :max_slots, :banner_url, :created_by, :created_at)`, tournament)
	return err
}

func (s *TournamentStore) ListTournaments(ctx context.Context, filter TournamentFilter) ([]bracket.TournamentSummary, error) {
	var (
		where []string
		args  []any
	)

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		where = append(where, "(LOWER(t.name) LIKE ? OR LOWER(t.game) LIKE ? OR LOWER(t.region) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Game != "" {
		where = append(where, "t.game = ?")
		args = append(args, filter.Game)
	}
	if filter.Region != "" {
		where = append(where, "t.region = ?")
		args = append(args, filter.Region)
	}
	if filter.Status != "" {
		where = append(where, "t.status = ?")
		args = append(args, filter.Status)
	}

	query := summarySelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + statusRank + ", t.start_at ASC"

	var tournaments []bracket.TournamentSummary
	err := s.db.SelectContext(ctx, &tournaments, s.db.Rebind(query), args...)
	return tournaments, err
}

func (s *TournamentStore) GetTournamentBySlug(ctx context.Context, slug string) (*bracket.TournamentSummary, error) {
	var tournament bracket.TournamentSummary
	err := s.db.GetContext(ctx, &tournament, s.db.Rebind(summarySelect+" WHERE t.slug = ?"), slug)
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

// LockTournament reads the tournament and holds its row for the rest of tx.
// On sqlite the transaction already owns the write lock from BEGIN IMMEDIATE.
func (s *TournamentStore) LockTournament(ctx context.Context, tx *sqlx.Tx, slug string) (*bracket.Tournament, error) {
	return s.lockTournament(ctx, tx, "slug", slug)
}

func (s *TournamentStore) LockTournamentByID(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Tournament, error) {
	return s.lockTournament(ctx, tx, "id", id)
}

func (s *TournamentStore) lockTournament(ctx context.Context, tx *sqlx.Tx, column string, value any) (*bracket.Tournament, error) {
	query := "SELECT " + tournamentColumns + " FROM tournaments WHERE " + column + " = ?"
	if tx.DriverName() == "postgres" {
		query += " FOR UPDATE"
	}

	var tournament bracket.Tournament
	if err := tx.GetContext(ctx, &tournament, tx.Rebind(query), value); err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *TournamentStore) UpdateTournamentStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status bracket.TournamentStatus) error {
	_, err := tx.ExecContext(ctx, tx.Rebind("UPDATE tournaments SET status = ? WHERE id = ?"), status, id)
	return err
}

func (s *TournamentStore) CountParticipants(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, tx.Rebind("SELECT COUNT(*) FROM tournament_participants WHERE tournament_id = ?"), tournamentID)
	return count, err
}

func (s *TournamentStore) IsParticipant(ctx context.Context, tx *sqlx.Tx, tournamentID, userID uuid.UUID) (bool, error) {
	var count int
	err := tx.GetContext(ctx, &count,
		tx.Rebind("SELECT COUNT(*) FROM tournament_participants WHERE tournament_id = ? AND user_id = ?"), tournamentID, userID)
	return count > 0, err
}

// AddParticipant inserts the enrollment unless the pair already exists. It reports
// whether a row was written.
func (s *TournamentStore) AddParticipant(ctx context.Context, tx *sqlx.Tx, participant *bracket.Participant) (bool, error) {
	res, err := tx.NamedExecContext(ctx, `INSERT INTO tournament_participants (id, tournament_id, user_id, joined_at)
		VALUES (:id, :tournament_id, :user_id, :joined_at)
		ON CONFLICT (tournament_id, user_id) DO NOTHING`, participant)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ListPlayers returns the enrolled users in join order.
func (s *TournamentStore) ListPlayers(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Player, error) {
	players := []bracket.Player{}
	err := s.db.SelectContext(ctx, &players, s.db.Rebind(`
		SELECT u.id, u.username, u.phantom_id, u.country, u.rating, u.avatar_url, p.joined_at
		FROM tournament_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.tournament_id = ?
		ORDER BY p.joined_at ASC, p.id ASC`), tournamentID)
	return players, err
}

func (s *TournamentStore) ListParticipantIDs(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := tx.SelectContext(ctx, &ids,
		tx.Rebind("SELECT user_id FROM tournament_participants WHERE tournament_id = ? ORDER BY joined_at ASC"), tournamentID)
	return ids, err
}
