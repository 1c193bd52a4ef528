// Package users is the account domain shared by the local credential store
// and the credential server: registration with a salted verifier,
// verification, and profile lookup.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/cryptox"
	"github.com/google/uuid"
)

// Service operates on a Repository. It is safe for concurrent use as long
// as the repository is.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Register derives a fresh salt and verifier from password and stores u.
// Duplicate usernames yield common.ErrorAlreadyExists.
func (s *Service) Register(ctx context.Context, u *User, password []byte) (*User, error) {
	u.Salt, u.Verifier = cryptox.NewVerifier(password)
	return s.RegisterWithVerifier(ctx, u)
}

// RegisterWithVerifier stores u whose Salt and Verifier were computed by
// the caller (the remote client derives them locally).
func (s *Service) RegisterWithVerifier(ctx context.Context, u *User) (*User, error) {
	if len(u.Salt) != common.SaltSize || len(u.Verifier) == 0 {
		return nil, fmt.Errorf("register %q: malformed salt or verifier", u.Username)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = s.now().UTC()

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created, nil
}

// GetSalt returns the user's stored salt or a random salt if the user is absent,
// to avoid leaking existence through timing.
func (s *Service) GetSalt(ctx context.Context, username string) ([]byte, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.GenerateRandByteArray(common.SaltSize), nil
		}
		return nil, fmt.Errorf("get salt: %w", err)
	}
	return user.Salt, nil
}

// Login checks a client-computed verifier and returns the matching user.
// Unknown users and mismatches both yield common.ErrorUnauthorized.
func (s *Service) Login(ctx context.Context, username string, candidate []byte) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !cryptox.CheckVerifier(user.Verifier, candidate) {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// Verify reports whether password matches the stored credential for username.
// The key derivation runs even for unknown usernames.
func (s *Service) Verify(ctx context.Context, username string, password []byte) (bool, error) {
	salt, err := s.GetSalt(ctx, username)
	if err != nil {
		return false, err
	}
	candidate := cryptox.DeriveVerifier(password, salt)

	if _, err := s.Login(ctx, username, candidate); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Profile returns the stored user by name.
func (s *Service) Profile(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// ProfileByID returns the stored user by id.
func (s *Service) ProfileByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
