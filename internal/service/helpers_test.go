package service

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/nexoragaming/phantomid/internal/db"
	"github.com/nexoragaming/phantomid/internal/store"
	users "github.com/nexoragaming/phantomid/internal/user"
	"github.com/nexoragaming/phantomid/internal/utils"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary SQLite database and applies migrations. A file is used
// rather than :memory: so concurrent transactions share one database.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Open(context.Background(), db.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to open test DB")

	err = db.RunMigrations(database, "file://../../migrations")
	require.NoError(t, err, "Failed to apply migrations")

	t.Cleanup(func() { database.Close() })
	return database
}

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
}

type testEnv struct {
	db           *sqlx.DB
	clock        fakeClock
	store        *store.TournamentStore
	users        *store.UserStore
	tournaments  *TournamentService
	registration *RegistrationService
	brackets     *BracketService
	matches      *MatchService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database := setupTestDB(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tournamentStore := store.NewTournamentStore(database)

	return &testEnv{
		db:           database,
		clock:        clock,
		store:        tournamentStore,
		users:        store.NewUserStore(database),
		tournaments:  NewTournamentService(database, tournamentStore, clock, logger),
		registration: NewRegistrationService(database, tournamentStore, clock, logger),
		brackets:     NewBracketService(database, tournamentStore, rand.New(rand.NewPCG(1, 2)), clock, logger),
		matches:      NewMatchService(database, tournamentStore, logger),
	}
}

func (e *testEnv) createUser(t *testing.T, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	err := e.users.CreateUser(context.Background(), &users.User{
		ID:        id,
		Username:  name,
		PhantomID: utils.Ptr(NewPhantomID(id)),
		CreatedAt: e.clock.Now(),
	})
	require.NoError(t, err)
	return id
}

func (e *testEnv) createTournament(t *testing.T, maxSlots int) string {
	t.Helper()

	created, err := e.tournaments.CreateTournament(context.Background(), CreateInput{
		Name:      "Weekly Cup",
		Organizer: "Nexora",
		Game:      "Valorant",
		Region:    "EU",
		StartDate: "2026-11-01T18:00:00Z",
		MaxSlots:  utils.Ptr(maxSlots),
	})
	require.NoError(t, err)
	return created.Slug
}

// enroll creates n users and joins them in order, one minute apart.
func (e *testEnv) enroll(t *testing.T, slug string, n int) []uuid.UUID {
	t.Helper()

	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = e.createUser(t, "player"+string(rune('A'+i)))
		res, err := e.registration.Join(context.Background(), slug, ids[i])
		require.NoError(t, err)
		require.True(t, res.Joined)
		e.clock.Advance(time.Minute)
	}
	return ids
}
