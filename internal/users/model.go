package users

import "time"

// User is a stored account. The password itself is never kept, only the
// salt and the verifier derived from it.
type User struct {
	ID             string
	Username       string
	Salt           []byte
	Verifier       []byte
	FirstName      string
	LastName       string
	Email          string
	ContactNumber  string
	Address        string
	ProfilePicture string
	CreatedAt      time.Time
}
