package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, RunMigrations(conn, "file://../../migrations"))
	// A second run has nothing to apply.
	require.NoError(t, RunMigrations(conn, "file://../../migrations"))

	var tables []string
	err = conn.SelectContext(ctx, &tables, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	require.NoError(t, err)
	assert.Subset(t, tables, []string{"users", "tournaments", "tournament_participants", "matches", "sessions"})

	var fk int
	require.NoError(t, conn.GetContext(ctx, &fk, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, fk)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "whatever")
	assert.Error(t, err)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "a.db?"+sqliteParams, sqliteDSN("a.db"))
	assert.Equal(t, "file:a.db?mode=rwc&"+sqliteParams, sqliteDSN("file:a.db?mode=rwc"))
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.ExecContext(ctx, `CREATE TABLE t (k TEXT UNIQUE)`)
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, `INSERT INTO t (k) VALUES ('a')`)
	require.NoError(t, err)

	_, err = conn.ExecContext(ctx, `INSERT INTO t (k) VALUES ('a')`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(assert.AnError))
}
