package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nexoragaming/phantomid/internal/bracket"
)

const matchColumns = `id, tournament_id, round_number, match_number, player_a_id, player_b_id, winner_id, score_a, score_b, status, created_at`

func (s *TournamentStore) CountMatches(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, tx.Rebind("SELECT COUNT(*) FROM matches WHERE tournament_id = ?"), tournamentID)
	return count, err
}

func (s *TournamentStore) DeleteMatches(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) (int64, error) {
	res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM matches WHERE tournament_id = ?"), tournamentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CreateMatches inserts the matches one row at a time, skipping any position that
// already exists.
func (s *TournamentStore) CreateMatches(ctx context.Context, tx *sqlx.Tx, matches []bracket.Match) error {
	for i := range matches {
		_, err := tx.NamedExecContext(ctx, `INSERT INTO matches (`+matchColumns+`)
			VALUES (:id, :tournament_id, :round_number, :match_number, :player_a_id, :player_b_id, :winner_id, :score_a, :score_b, :status, :created_at)
			ON CONFLICT (tournament_id, round_number, match_number) DO NOTHING`, &matches[i])
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *TournamentStore) GetMatches(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := s.db.SelectContext(ctx, &matches,
		s.db.Rebind("SELECT "+matchColumns+" FROM matches WHERE tournament_id = ? ORDER BY round_number ASC, match_number ASC"), tournamentID)
	return matches, err
}

type matchViewRow struct {
	bracket.Match

	AUsername  *string `db:"a_username"`
	APhantomID *string `db:"a_phantom_id"`
	AAvatarURL *string `db:"a_avatar_url"`
	BUsername  *string `db:"b_username"`
	BPhantomID *string `db:"b_phantom_id"`
	BAvatarURL *string `db:"b_avatar_url"`
	WUsername  *string `db:"w_username"`
	WPhantomID *string `db:"w_phantom_id"`
	WAvatarURL *string `db:"w_avatar_url"`
}

func side(id *uuid.UUID, username, phantomID, avatarURL *string) *bracket.MatchSide {
	if id == nil {
		return nil
	}
	s := &bracket.MatchSide{ID: *id, PhantomID: phantomID, AvatarURL: avatarURL}
	if username != nil {
		s.Username = *username
	}
	return s
}

// GetMatchViews returns every match of the tournament with player identities joined in,
// ordered by round then match number.
func (s *TournamentStore) GetMatchViews(ctx context.Context, tournamentID uuid.UUID) ([]bracket.MatchView, error) {
	var rows []matchViewRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT m.id, m.tournament_id, m.round_number, m.match_number, m.player_a_id, m.player_b_id,
			m.winner_id, m.score_a, m.score_b, m.status, m.created_at,
			ua.username AS a_username, ua.phantom_id AS a_phantom_id, ua.avatar_url AS a_avatar_url,
			ub.username AS b_username, ub.phantom_id AS b_phantom_id, ub.avatar_url AS b_avatar_url,
			uw.username AS w_username, uw.phantom_id AS w_phantom_id, uw.avatar_url AS w_avatar_url
		FROM matches m
		LEFT JOIN users ua ON ua.id = m.player_a_id
		LEFT JOIN users ub ON ub.id = m.player_b_id
		LEFT JOIN users uw ON uw.id = m.winner_id
		WHERE m.tournament_id = ?
		ORDER BY m.round_number ASC, m.match_number ASC`), tournamentID)
	if err != nil {
		return nil, err
	}

	views := make([]bracket.MatchView, 0, len(rows))
	for _, r := range rows {
		views = append(views, bracket.MatchView{
			ID:          r.ID,
			RoundNumber: r.RoundNumber,
			MatchNumber: r.MatchNumber,
			Status:      r.Status,
			PlayerA:     side(r.PlayerAID, r.AUsername, r.APhantomID, r.AAvatarURL),
			PlayerB:     side(r.PlayerBID, r.BUsername, r.BPhantomID, r.BAvatarURL),
			Winner:      side(r.WinnerID, r.WUsername, r.WPhantomID, r.WAvatarURL),
			ScoreA:      r.ScoreA,
			ScoreB:      r.ScoreB,
		})
	}
	return views, nil
}

// MaxRound returns the highest round number of the tournament's bracket, 0 when none exists.
func (s *TournamentStore) MaxRound(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) (int, error) {
	var round int
	err := tx.GetContext(ctx, &round, tx.Rebind("SELECT COALESCE(MAX(round_number), 0) FROM matches WHERE tournament_id = ?"), tournamentID)
	return round, err
}

func (s *TournamentStore) GetMatch(ctx context.Context, tx *sqlx.Tx, matchID uuid.UUID) (*bracket.Match, error) {
	var match bracket.Match
	if err := tx.GetContext(ctx, &match, tx.Rebind("SELECT "+matchColumns+" FROM matches WHERE id = ?"), matchID); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *TournamentStore) GetMatchAt(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, round, matchNumber int) (*bracket.Match, error) {
	var match bracket.Match
	err := tx.GetContext(ctx, &match,
		tx.Rebind("SELECT "+matchColumns+" FROM matches WHERE tournament_id = ? AND round_number = ? AND match_number = ?"),
		tournamentID, round, matchNumber)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *TournamentStore) FinishMatch(ctx context.Context, tx *sqlx.Tx, match *bracket.Match) error {
	_, err := tx.NamedExecContext(ctx, `UPDATE matches SET
		winner_id = :winner_id,
		score_a = :score_a,
		score_b = :score_b,
		status = :status
		WHERE id = :id`, match)
	return err
}

// SetMatchSlot writes playerID into slot A or B of the match.
func (s *TournamentStore) SetMatchSlot(ctx context.Context, tx *sqlx.Tx, matchID uuid.UUID, slotA bool, playerID uuid.UUID) error {
	column := "player_b_id"
	if slotA {
		column = "player_a_id"
	}
	_, err := tx.ExecContext(ctx, tx.Rebind("UPDATE matches SET "+column+" = ? WHERE id = ?"), playerID, matchID)
	return err
}
