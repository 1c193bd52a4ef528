package services

import "errors"

// User-facing messages. Errors never expose more detail than these.
const (
	MsgFillAllFields   = "Please fill in all fields"
	MsgInvalidEmail    = "Invalid email address"
	MsgInvalidPhone    = "Invalid phone number"
	MsgInvalidCreds    = "Invalid credentials"
	MsgBusy            = "Please wait for the current operation to finish"
	MsgGeneric         = "Something went wrong. Please try again later."
	MsgLoggedIn        = "Logged in successfully"
	MsgRegistered      = "Registration successful"
	MsgProfileUpdated  = "Profile updated"
	MsgProfileNotSaved = "Failed to save profile"
	MsgLoggedOut       = "Logged out"
)

// Message maps an operation error to the text shown to the user. A taken
// username gets the generic message like any other store failure.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingFields):
		return MsgFillAllFields
	case errors.Is(err, ErrInvalidEmail):
		return MsgInvalidEmail
	case errors.Is(err, ErrInvalidPhone):
		return MsgInvalidPhone
	case errors.Is(err, ErrInvalidCredentials):
		return MsgInvalidCreds
	case errors.Is(err, ErrBusy):
		return MsgBusy
	default:
		return MsgGeneric
	}
}
