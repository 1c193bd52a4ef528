package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profilekeeper/internal/client/client"
	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/cryptox"
)

// Remote verifies credentials against the credential server. The password
// stays on this side: only the salt-derived verifier is sent.
type Remote struct {
	client client.Client
}

func NewRemote(c client.Client) *Remote {
	return &Remote{client: c}
}

// EnsureSchema only checks that the server answers; the server owns its schema.
func (r *Remote) EnsureSchema(ctx context.Context) error {
	if err := r.client.Ping(ctx); err != nil {
		return fmt.Errorf("ping credential server: %w", err)
	}
	return nil
}

func (r *Remote) Verify(ctx context.Context, username string, password []byte) (bool, error) {
	salt, err := r.client.GetSalt(ctx, username)
	if err != nil {
		return false, fmt.Errorf("get salt error: %w", err)
	}

	candidate := cryptox.DeriveVerifier(password, salt)
	if err := r.client.Login(ctx, username, candidate); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return false, nil
		}
		return false, fmt.Errorf("login error: %w", err)
	}
	return true, nil
}

func (r *Remote) Insert(ctx context.Context, p *models.Profile) error {
	password := []byte(p.Password)
	defer common.WipeByteArray(password)

	salt, verifier := cryptox.NewVerifier(password)
	err := r.client.Register(ctx, p.WithoutPassword(), salt, verifier)
	if errors.Is(err, common.ErrorAlreadyExists) {
		return ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

// Lookup returns the profile of the account logged in by the last successful
// Verify. Asking for any other username yields common.ErrorNotFound.
func (r *Remote) Lookup(ctx context.Context, username string) (*models.Profile, error) {
	p, err := r.client.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile error: %w", err)
	}
	if p.Username != username {
		return nil, common.ErrorNotFound
	}
	return p, nil
}

func (r *Remote) PresignAvatar(ctx context.Context, contentType string) (string, string, string, error) {
	return r.client.PresignAvatar(ctx, contentType)
}

func (r *Remote) Close() error {
	return r.client.Close()
}
