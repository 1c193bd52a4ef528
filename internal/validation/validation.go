// Package validation holds the field checks applied to registration and
// login input before any store is touched.
package validation

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidPhone  = errors.New("invalid phone number")
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
)

// IsValidEmail reports whether s looks like local@domain.tld.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsValidPhone accepts exactly ten digits, no separators.
func IsValidPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// Required returns ErrMissingFields if any value is empty or whitespace only.
func Required(values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return ErrMissingFields
		}
	}
	return nil
}

// Email is IsValidEmail as an error.
func Email(s string) error {
	if !IsValidEmail(s) {
		return ErrInvalidEmail
	}
	return nil
}

// Phone is IsValidPhone as an error.
func Phone(s string) error {
	if !IsValidPhone(s) {
		return ErrInvalidPhone
	}
	return nil
}
