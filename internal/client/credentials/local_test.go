package credentials

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func newLocal(t *testing.T) (*Local, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	l := NewLocal(db)
	require.NoError(t, l.EnsureSchema(context.Background()))
	return l, db
}

func alice() *models.Profile {
	return &models.Profile{
		Username: "alice", Password: "s3cret", FirstName: "Alice", LastName: "Liddell",
		Email: "alice@example.com", ContactNumber: "1234567890", Address: "1 Rabbit Hole",
	}
}

func TestLocal_EnsureSchemaIsIdempotent(t *testing.T) {
	l, _ := newLocal(t)
	require.NoError(t, l.EnsureSchema(context.Background()))
}

func TestLocal_InsertVerifyLookup(t *testing.T) {
	ctx := context.Background()
	l, db := newLocal(t)

	require.NoError(t, l.Insert(ctx, alice()))

	ok, err := l.Verify(ctx, "alice", []byte("s3cret"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Verify(ctx, "alice", []byte("wrongpass"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Verify(ctx, "nobody", []byte("s3cret"))
	require.NoError(t, err)
	assert.False(t, ok)

	p, err := l.Lookup(ctx, "alice")
	require.NoError(t, err)
	want := alice().WithoutPassword()
	assert.Equal(t, &want, p)

	var stored int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users WHERE salt IS NOT NULL AND verifier IS NOT NULL`).Scan(&stored))
	assert.Equal(t, 1, stored)
}

func TestLocal_PasswordNotStoredInPlaintext(t *testing.T) {
	ctx := context.Background()
	l, db := newLocal(t)
	require.NoError(t, l.Insert(ctx, alice()))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users WHERE CAST(verifier AS TEXT) = 's3cret' OR CAST(salt AS TEXT) = 's3cret'`).Scan(&n))
	assert.Zero(t, n)
}

func TestLocal_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	l, _ := newLocal(t)

	require.NoError(t, l.Insert(ctx, alice()))
	require.ErrorIs(t, l.Insert(ctx, alice()), ErrDuplicateUsername)
}

func TestLocal_LookupUnknown(t *testing.T) {
	l, _ := newLocal(t)
	_, err := l.Lookup(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLocal_StorageErrors(t *testing.T) {
	ctx := context.Background()
	l, db := newLocal(t)
	require.NoError(t, db.Close())

	_, err := l.Verify(ctx, "alice", []byte("x"))
	require.Error(t, err)
	err = l.Insert(ctx, alice())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDuplicateUsername)
	require.Error(t, l.EnsureSchema(ctx))
	require.NoError(t, l.Close())
}
