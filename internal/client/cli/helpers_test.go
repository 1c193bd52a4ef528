package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/profilekeeper/internal/client/client"
	"github.com/dmitrijs2005/profilekeeper/internal/client/credentials"
	"github.com/dmitrijs2005/profilekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/profilekeeper/internal/client/screen"
	"github.com/dmitrijs2005/profilekeeper/internal/client/services"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

type output struct{ lines []string }

func (o *output) String() string { return strings.Join(o.lines, "\n") }

func captureOutput(t *testing.T) *output {
	t.Helper()
	o := &output{}
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		o.lines = append(o.lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return o
}

// stubAnswers feeds text prompts from answers, then empty strings.
func stubAnswers(t *testing.T, answers ...string) *[]string {
	t.Helper()
	var prompts []string
	orig := getSimpleText
	getSimpleText = func(_ *bufio.Reader, prompt string, _ io.Writer) (string, error) {
		prompts = append(prompts, prompt)
		if len(answers) == 0 {
			return "", nil
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	t.Cleanup(func() { getSimpleText = orig })
	return &prompts
}

func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) {
		if len(pws) == 0 {
			return nil, nil
		}
		p := pws[0]
		pws = pws[1:]
		return []byte(p), nil
	}
	t.Cleanup(func() { getPassword = orig })
}

// newTestApp returns an App over a real session manager backed by an
// in-memory SQLite database.
func newTestApp(t *testing.T) (*App, *services.SessionManager) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := client.InitDatabase(context.Background(), "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	m := services.NewSessionManager(metadata.NewSQLiteRepository(db), credentials.NewLocal(db))
	a := NewApp(m, nil, logging.Discard())
	a.reader = bufio.NewReader(strings.NewReader(""))
	a.out = io.Discard
	return a, m
}

var registerAnswers = []string{"alice", "Alice", "Smith", "alice@example.com", "5551234567", "1 Main St", ""}

func registerAlice(t *testing.T, a *App) {
	t.Helper()
	stubAnswers(t, registerAnswers...)
	stubPasswords(t, "s3cret")
	require.NoError(t, a.Register(context.Background()))
	require.Equal(t, screen.ModeLogin, a.form.Mode())
}
