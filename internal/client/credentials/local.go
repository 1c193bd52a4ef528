package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profilekeeper/internal/client/client"
	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/users"
)

// Local stores users in the same SQLite database as the metadata table.
// The database handle is owned by the caller.
type Local struct {
	db    *sql.DB
	users *users.Service
}

func NewLocal(db *sql.DB) *Local {
	return &Local{db: db, users: users.NewService(users.NewSQLiteRepository(db))}
}

func (l *Local) EnsureSchema(ctx context.Context) error {
	if err := client.RunMigrations(ctx, l.db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (l *Local) Verify(ctx context.Context, username string, password []byte) (bool, error) {
	return l.users.Verify(ctx, username, password)
}

func (l *Local) Insert(ctx context.Context, p *models.Profile) error {
	password := []byte(p.Password)
	defer common.WipeByteArray(password)

	_, err := l.users.Register(ctx, userFromProfile(p), password)
	if errors.Is(err, common.ErrorAlreadyExists) {
		return ErrDuplicateUsername
	}
	return err
}

func (l *Local) Lookup(ctx context.Context, username string) (*models.Profile, error) {
	u, err := l.users.Profile(ctx, username)
	if err != nil {
		return nil, err
	}
	return profileFromUser(u), nil
}

func (l *Local) Close() error { return nil }

func userFromProfile(p *models.Profile) *users.User {
	return &users.User{
		Username:       p.Username,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		ContactNumber:  p.ContactNumber,
		Address:        p.Address,
		ProfilePicture: p.ProfilePicture,
	}
}

func profileFromUser(u *users.User) *models.Profile {
	return &models.Profile{
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		ContactNumber:  u.ContactNumber,
		Address:        u.Address,
		ProfilePicture: u.ProfilePicture,
	}
}
