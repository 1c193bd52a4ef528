package client

import (
	"context"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
)

// Client is the credential server API used by the remote credential store.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Register(ctx context.Context, profile models.Profile, salt []byte, verifier []byte) error
	Login(ctx context.Context, username string, verifier []byte) error
	GetProfile(ctx context.Context) (*models.Profile, error)
	PresignAvatar(ctx context.Context, contentType string) (key string, putURL string, getURL string, err error)
}
