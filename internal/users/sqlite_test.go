package users

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/client/migrations"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))
	return db
}

func TestSQLiteRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(newSQLiteDB(t))

	u := sampleUser()
	u.CreatedAt = time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	_, err := repo.Create(ctx, u)
	require.NoError(t, err)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, u.Salt, got.Salt)
	require.Equal(t, u.Verifier, got.Verifier)
	require.Equal(t, "Liddell", got.LastName)
	require.True(t, u.CreatedAt.Equal(got.CreatedAt))

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)
}

func TestSQLiteRepository_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(newSQLiteDB(t))

	first := sampleUser()
	first.CreatedAt = time.Now().UTC()
	_, err := repo.Create(ctx, first)
	require.NoError(t, err)

	second := sampleUser()
	second.ID = "another-id"
	second.CreatedAt = time.Now().UTC()
	_, err = repo.Create(ctx, second)
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestSQLiteRepository_NotFound(t *testing.T) {
	repo := NewSQLiteRepository(newSQLiteDB(t))

	_, err := repo.GetByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLiteRepository_ClosedDB(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	_, err := repo.GetByUsername(context.Background(), "alice")
	require.Error(t, err)
	require.NotErrorIs(t, err, common.ErrorNotFound)

	u := sampleUser()
	_, err = repo.Create(context.Background(), u)
	require.ErrorContains(t, err, "failed to insert user[alice]")
}
