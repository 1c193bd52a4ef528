package users

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu     sync.Mutex
	byName map[string]*User
	err    error
}

func newMemRepo() *memRepo { return &memRepo{byName: map[string]*User{}} }

func (m *memRepo) Create(_ context.Context, u *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.byName[u.Username]; ok {
		return nil, common.ErrorAlreadyExists
	}
	cp := *u
	m.byName[u.Username] = &cp
	return u, nil
}

func (m *memRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byName[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byName {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func TestService_RegisterAndVerify(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := NewService(repo)
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	u, err := svc.Register(ctx, &User{Username: "alice", Email: "alice@example.com"}, []byte("s3cret"))
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Len(t, u.Salt, common.SaltSize)
	require.Equal(t, fixed, u.CreatedAt)

	ok, err := svc.Verify(ctx, "alice", []byte("s3cret"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Verify(ctx, "alice", []byte("wrongpass"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Verify(ctx, "bob", []byte("s3cret"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo())

	_, err := svc.Register(ctx, &User{Username: "alice"}, []byte("a"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, &User{Username: "alice"}, []byte("b"))
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestService_RegisterWithVerifier_RejectsMalformedSalt(t *testing.T) {
	svc := NewService(newMemRepo())
	_, err := svc.RegisterWithVerifier(context.Background(), &User{Username: "a", Salt: []byte("short"), Verifier: []byte("v")})
	require.Error(t, err)
}

func TestService_GetSalt(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo())
	u, err := svc.Register(ctx, &User{Username: "alice"}, []byte("pw"))
	require.NoError(t, err)

	salt, err := svc.GetSalt(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.Salt, salt)

	s1, err := svc.GetSalt(ctx, "ghost")
	require.NoError(t, err)
	s2, err := svc.GetSalt(ctx, "ghost")
	require.NoError(t, err)
	assert.Len(t, s1, common.SaltSize)
	assert.NotEqual(t, s1, s2)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo())
	u, err := svc.Register(ctx, &User{Username: "alice"}, []byte("pw"))
	require.NoError(t, err)

	got, err := svc.Login(ctx, "alice", cryptox.DeriveVerifier([]byte("pw"), u.Salt))
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Login(ctx, "alice", []byte("nope"))
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = svc.Login(ctx, "ghost", []byte("nope"))
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestService_StorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	repo.err = errors.New("disk gone")
	svc := NewService(repo)

	_, err := svc.Verify(ctx, "alice", []byte("pw"))
	require.ErrorContains(t, err, "disk gone")

	_, err = svc.Register(ctx, &User{Username: "alice"}, []byte("pw"))
	require.ErrorContains(t, err, "error creating user")
}

func TestService_Profile(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo())
	u, err := svc.Register(ctx, &User{Username: "alice", Address: "1 Rabbit Hole"}, []byte("pw"))
	require.NoError(t, err)

	p, err := svc.Profile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1 Rabbit Hole", p.Address)

	p, err = svc.ProfileByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)

	_, err = svc.Profile(ctx, "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}
