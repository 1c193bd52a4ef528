package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profilekeeper/internal/client/screen"
	"github.com/dmitrijs2005/profilekeeper/internal/client/services"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errAlreadyLoggedIn = errors.New("already logged in")

// Login switches to the login form, then fills and submits it.
func (a *App) Login(ctx context.Context) error {
	if a.form.Mode() != screen.ModeLogin {
		a.form.Toggle()
	}
	return a.Submit(ctx)
}

// Register switches to the registration form, then fills and submits it.
func (a *App) Register(ctx context.Context) error {
	if a.form.Mode() != screen.ModeRegister {
		a.form.Toggle()
	}
	return a.Submit(ctx)
}

// Toggle switches between the login and registration forms. Values already
// typed are kept.
func (a *App) Toggle(ctx context.Context) error {
	if a.isLoggedIn() {
		printlnFn("Log out first")
		return errAlreadyLoggedIn
	}
	a.form.Toggle()
	printlnFn(fmt.Sprintf("Switched to the %s form", a.form.Mode()))
	return nil
}

// Submit prompts for every field of the current form and submits it.
func (a *App) Submit(ctx context.Context) error {
	if a.isLoggedIn() {
		printlnFn("Already logged in")
		return errAlreadyLoggedIn
	}

	if err := a.fillForm(); err != nil {
		a.logger.Warn(ctx, "reading form failed", "error", err)
		return err
	}

	if a.form.Mode() == screen.ModeRegister {
		return a.submitRegistration(ctx)
	}
	return a.submitLogin(ctx)
}

func (a *App) fillForm() error {
	for _, f := range a.form.Fields() {
		current := a.form.Get(f)

		if f.Secret() {
			if current != "" {
				printlnFn("Password is prefilled, press Enter to keep it")
			}
			pw, err := getPassword(a.out)
			if err != nil {
				return err
			}
			if len(pw) > 0 {
				a.form.Set(f, string(pw))
			}
			common.WipeByteArray(pw)
			continue
		}

		v, err := GetTextWithDefault(a.reader, "Enter "+f.Label(), current, a.out)
		if err != nil {
			return err
		}
		a.form.Set(f, v)
	}
	return nil
}

func (a *App) submitLogin(ctx context.Context) error {
	username := a.form.Get(screen.FieldUsername)

	s, err := a.session.Authenticate(ctx, username, a.form.Get(screen.FieldPassword))
	a.form.Set(screen.FieldPassword, "")
	if err != nil {
		a.logger.Warn(ctx, "login failed", "username", username, "error", err)
		printlnFn(services.Message(err))
		return err
	}

	a.form.Reset()
	printlnFn(services.MsgLoggedIn)
	a.printWelcome(s)
	return nil
}

func (a *App) submitRegistration(ctx context.Context) error {
	draft := a.form.Draft()

	if err := a.session.Register(ctx, draft); err != nil {
		a.logger.Warn(ctx, "registration failed", "username", draft.Username, "error", err)
		printlnFn(services.Message(err))
		return err
	}

	a.form.CompleteRegistration()
	printlnFn(services.MsgRegistered)
	printlnFn("Type 'submit' to log in with the new account")
	return nil
}

// Logout ends the session. It always succeeds from the user's point of view.
func (a *App) Logout(ctx context.Context) error {
	a.session.EndSession(ctx)
	a.form.Reset()
	a.draft = nil
	printlnFn(services.MsgLoggedOut)
	return nil
}
