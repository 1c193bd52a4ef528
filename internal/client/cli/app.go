package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/profilekeeper/internal/client/credentials"
	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/client/screen"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
)

// sessionService is the part of services.SessionManager the REPL uses.
type sessionService interface {
	RestoreSession(ctx context.Context) models.Session
	Authenticate(ctx context.Context, username, password string) (models.Session, error)
	Register(ctx context.Context, draft models.Profile) error
	UpdateProfile(ctx context.Context, p models.Profile) error
	BeginEdit() error
	CancelEdit() error
	SaveProfile(ctx context.Context, draft models.Profile) error
	EndSession(ctx context.Context) models.Session
	Current() models.Session
}

type App struct {
	session  sessionService
	uploader credentials.AvatarUploader
	logger   logging.Logger
	form     *screen.Form
	draft    *models.Profile
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp builds a REPL over session. uploader may be nil, in which case the
// avatar command is unavailable.
func NewApp(session sessionService, uploader credentials.AvatarUploader, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	return &App{
		session:  session,
		uploader: uploader,
		logger:   logger.With("module", "cli"),
		form:     screen.NewForm(),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
}

// Run restores the previous session and blocks in the REPL until exit.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to profilekeeper (type 'help' for commands)")

	if s := a.session.RestoreSession(ctx); s.IsLoggedIn {
		a.printWelcome(s)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.Current().IsLoggedIn
}

func (a *App) getStatus() string {
	s := a.session.Current()
	if !s.IsLoggedIn {
		return fmt.Sprintf("(%s form)", a.form.Mode())
	}

	state := "view"
	if s.State == models.StateLoggedInEdit {
		state = "edit"
	}
	if s.Profile == nil || s.Profile.Username == "" {
		return fmt.Sprintf("(%s)", state)
	}
	return fmt.Sprintf("(%s %s)", s.Profile.Username, state)
}

func (a *App) printWelcome(s models.Session) {
	if s.Profile == nil {
		printlnFn("Welcome!")
		return
	}
	name := s.Profile.FullName()
	if name == "" {
		name = s.Profile.Username
	}
	printlnFn(fmt.Sprintf("Welcome, %s!", name))
}
