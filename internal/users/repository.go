package users

import (
	"context"
)

// Repository persists users. Implementations return common.ErrorNotFound for
// unknown users and common.ErrorAlreadyExists on a duplicate username.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

const userColumns = `id, username, salt, verifier, first_name, last_name, email,
		 contact_number, address, profile_picture, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Username, &u.Salt, &u.Verifier, &u.FirstName, &u.LastName,
		&u.Email, &u.ContactNumber, &u.Address, &u.ProfilePicture, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}
