// Package credentials is the source of truth for registered accounts as seen
// by the session manager. Local keeps users in the client's SQLite file;
// Remote talks to the credential server over gRPC.
package credentials

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
)

var ErrDuplicateUsername = errors.New("username already taken")

// Store is the credential store contract.
//
// Verify never reveals whether the username exists: unknown users and wrong
// passwords both give (false, nil). Insert returns ErrDuplicateUsername for a
// taken username. Lookup returns common.ErrorNotFound for an unknown user and
// never includes the password.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Verify(ctx context.Context, username string, password []byte) (bool, error)
	Insert(ctx context.Context, p *models.Profile) error
	Lookup(ctx context.Context, username string) (*models.Profile, error)
	Close() error
}

// AvatarUploader is implemented by stores that can hand out upload URLs for
// profile pictures.
type AvatarUploader interface {
	PresignAvatar(ctx context.Context, contentType string) (key string, putURL string, getURL string, err error)
}
