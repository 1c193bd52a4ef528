package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.co", true},
		{"first.last+tag@mail.example.org", true},
		{"a@b", false},
		{"a.b.com", false},
		{"", false},
		{"a@b.c", false},
		{"a b@c.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.in))
		})
	}
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1234567890", true},
		{"123456789", false},
		{"12345678901", false},
		{"123-456-7890", false},
		{"+123456789", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPhone(tt.in))
		})
	}
}

func TestRequired(t *testing.T) {
	require.NoError(t, Required("a", "b"))
	require.NoError(t, Required())
	require.ErrorIs(t, Required("a", ""), ErrMissingFields)
	require.ErrorIs(t, Required("   "), ErrMissingFields)
}

func TestEmailAndPhoneErrors(t *testing.T) {
	require.NoError(t, Email("a@b.co"))
	require.ErrorIs(t, Email("a@b"), ErrInvalidEmail)
	require.NoError(t, Phone("1234567890"))
	require.ErrorIs(t, Phone("123-456-7890"), ErrInvalidPhone)
}
