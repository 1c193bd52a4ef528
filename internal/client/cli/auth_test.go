package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/client/screen"
	"github.com/dmitrijs2005/profilekeeper/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLoginWithPrefilledForm(t *testing.T) {
	out := captureOutput(t)
	a, m := newTestApp(t)

	registerAlice(t, a)
	assert.Contains(t, out.lines, services.MsgRegistered)
	assert.Equal(t, "alice", a.form.Get(screen.FieldUsername))
	assert.Equal(t, "s3cret", a.form.Get(screen.FieldPassword))
	assert.False(t, m.Current().IsLoggedIn, "registration does not log in")

	prompts := stubAnswers(t)
	stubPasswords(t)
	require.NoError(t, a.Submit(context.Background()))

	assert.Equal(t, []string{"Enter Username [alice]"}, *prompts)
	assert.Contains(t, out.lines, services.MsgLoggedIn)
	assert.Contains(t, out.lines, "Welcome, Alice Smith!")

	s := m.Current()
	require.True(t, s.IsLoggedIn)
	assert.Equal(t, models.StateLoggedInView, s.State)
	assert.Empty(t, s.Profile.Password)
	assert.Empty(t, a.form.Get(screen.FieldPassword))
	assert.Equal(t, "(alice view)", a.getStatus())
}

func TestRegister_ValidationMessages(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
		want    string
	}{
		{"missing field", []string{"bob", "Bob", "", "bob@example.com", "5551234567", "Street"}, services.MsgFillAllFields},
		{"bad email", []string{"bob", "Bob", "Jones", "bob@", "5551234567", "Street"}, services.MsgInvalidEmail},
		{"bad phone", []string{"bob", "Bob", "Jones", "bob@example.com", "555-123", "Street"}, services.MsgInvalidPhone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t)
			a, _ := newTestApp(t)

			stubAnswers(t, tt.answers...)
			stubPasswords(t, "pw")
			require.Error(t, a.Register(context.Background()))

			assert.Contains(t, out.lines, tt.want)
			assert.Equal(t, screen.ModeRegister, a.form.Mode(), "form stays on registration")
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	out := captureOutput(t)
	a, m := newTestApp(t)
	registerAlice(t, a)

	stubAnswers(t, "alice")
	stubPasswords(t, "wrong")
	require.ErrorIs(t, a.Login(context.Background()), services.ErrInvalidCredentials)

	assert.Contains(t, out.lines, services.MsgInvalidCreds)
	assert.False(t, m.Current().IsLoggedIn)
	assert.Empty(t, a.form.Get(screen.FieldPassword), "a failed password is not kept")
}

func TestToggleAndSubmitWhileLoggedIn(t *testing.T) {
	out := captureOutput(t)
	a, _ := newTestApp(t)

	require.NoError(t, a.Toggle(context.Background()))
	assert.Equal(t, "(register form)", a.getStatus())
	assert.Contains(t, out.lines, "Switched to the register form")

	registerAlice(t, a)
	stubAnswers(t)
	stubPasswords(t)
	require.NoError(t, a.Submit(context.Background()))

	require.ErrorIs(t, a.Toggle(context.Background()), errAlreadyLoggedIn)
	require.ErrorIs(t, a.Login(context.Background()), errAlreadyLoggedIn)
	assert.Contains(t, out.lines, "Already logged in")
}

func TestLogout(t *testing.T) {
	out := captureOutput(t)
	a, m := newTestApp(t)
	registerAlice(t, a)
	stubAnswers(t)
	stubPasswords(t)
	require.NoError(t, a.Submit(context.Background()))

	require.NoError(t, a.Logout(context.Background()))
	require.NoError(t, a.Logout(context.Background()))

	assert.False(t, m.Current().IsLoggedIn)
	assert.Equal(t, screen.ModeLogin, a.form.Mode())
	assert.Empty(t, a.form.Get(screen.FieldUsername))
	assert.Contains(t, out.lines, services.MsgLoggedOut)
	assert.Equal(t, "(login form)", a.getStatus())
}
