// Package tui is the full-screen front end: a login/register form while
// logged out, a profile view with a welcome header, and an edit form. Store
// operations run as tea.Cmds and the submit button is disabled until the
// pending one finishes.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/client/screen"
	"github.com/dmitrijs2005/profilekeeper/internal/client/services"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
)

// sessionService is the part of services.SessionManager the TUI uses.
type sessionService interface {
	RestoreSession(ctx context.Context) models.Session
	Authenticate(ctx context.Context, username, password string) (models.Session, error)
	Register(ctx context.Context, draft models.Profile) error
	BeginEdit() error
	CancelEdit() error
	SaveProfile(ctx context.Context, draft models.Profile) error
	EndSession(ctx context.Context) models.Session
	Current() models.Session
	Subscribe() (<-chan models.Session, func())
}

type opKind int

const (
	opRestore opKind = iota
	opLogin
	opRegister
	opSave
	opLogout
)

type (
	// sessionMsg carries a snapshot published by the session manager.
	sessionMsg models.Session

	opDoneMsg struct {
		op      opKind
		session models.Session
		err     error
	}
)

type Model struct {
	ctx    context.Context
	svc    sessionService
	logger logging.Logger
	sub    <-chan models.Session

	sess      models.Session
	form      *screen.Form
	fields    []screen.Field
	inputs    []textinput.Model
	focus     int
	pending   bool
	status    string
	statusErr bool

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	width   int
}

// New builds a model over svc. Run wires the session subscription; a model
// built directly only sees the results of its own operations.
func New(ctx context.Context, svc sessionService, logger logging.Logger) Model {
	if logger == nil {
		logger = logging.Discard()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		svc:     svc,
		logger:  logger.With("module", "tui"),
		sess:    models.LoggedOut(),
		form:    screen.NewForm(),
		spinner: sp,
		help:    help.New(),
		keys:    defaultKeyMap,
		width:   60,
	}
	m.buildFormInputs()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, svc sessionService, logger logging.Logger) error {
	ch, unsubscribe := svc.Subscribe()
	defer unsubscribe()

	m := New(ctx, svc, logger)
	m.sub = ch
	m.pending = true // until the restore issued by Init completes

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.restore(), m.listen(), textinput.Blink)
}

func (m Model) restore() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: opRestore, session: svc.RestoreSession(ctx)}
	}
}

// listen waits for the next published session. It returns nil once the
// subscription is closed.
func (m Model) listen() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	ch := m.sub
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return sessionMsg(s)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case sessionMsg:
		m.setSession(models.Session(msg))
		return m, m.listen()

	case opDoneMsg:
		return m.handleOpDone(msg)

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		switch {
		case !m.sess.IsLoggedIn:
			return m.updateForm(msg)
		case m.sess.State == models.StateLoggedInEdit:
			return m.updateEdit(msg)
		default:
			return m.updateProfile(msg)
		}
	}

	return m, m.updateFocused(msg)
}

// setSession switches screens when the login state or mode changes.
func (m *Model) setSession(s models.Session) {
	prev := m.sess
	m.sess = s.Clone()
	if prev.IsLoggedIn == s.IsLoggedIn && prev.State == s.State {
		return
	}

	switch {
	case !s.IsLoggedIn:
		m.buildFormInputs()
	case s.State == models.StateLoggedInEdit:
		m.buildEditInputs()
	default:
		m.inputs, m.fields, m.focus = nil, nil, 0
	}
}

func (m Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	m.pending = false

	if msg.err != nil {
		m.logger.Warn(m.ctx, "operation failed", "op", int(msg.op), "error", msg.err)
		m.statusErr = true
		if msg.op == opSave {
			m.status = services.MsgProfileNotSaved
		} else {
			m.status = services.Message(msg.err)
		}
		if msg.op == opLogin {
			m.form.Set(screen.FieldPassword, "")
			m.setInput(screen.FieldPassword, "")
		}
		return m, nil
	}

	m.statusErr = false
	m.status = ""
	switch msg.op {
	case opRegister:
		m.form.CompleteRegistration()
		m.buildFormInputs()
		m.status = services.MsgRegistered
		return m, nil
	case opLogin:
		m.form.Reset()
		m.status = services.MsgLoggedIn
	case opSave:
		m.status = services.MsgProfileUpdated
	case opLogout:
		m.form.Reset()
		m.status = services.MsgLoggedOut
	}

	m.setSession(msg.session)
	if msg.op == opLogout {
		m.buildFormInputs()
	}
	return m, nil
}

// run starts op unless another one is pending.
func (m Model) run(op opKind, fn func(ctx context.Context) (models.Session, error)) (tea.Model, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	m.pending = true
	m.status = ""

	ctx := m.ctx
	cmd := func() tea.Msg {
		s, err := fn(ctx)
		return opDoneMsg{op: op, session: s, err: err}
	}
	return m, tea.Batch(cmd, m.spinner.Tick)
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		if m.pending {
			return m, nil
		}
		m.syncForm()
		m.form.Toggle()
		m.status = ""
		m.buildFormInputs()
		return m, nil

	case key.Matches(msg, m.keys.Submit) && m.focus == len(m.inputs):
		return m.submitForm()
	}
	if cmd, ok := m.moveFocus(msg); ok {
		return m, cmd
	}
	return m, m.updateFocused(msg)
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	m.syncForm()
	svc := m.svc

	if m.form.Mode() == screen.ModeRegister {
		draft := m.form.Draft()
		return m.run(opRegister, func(ctx context.Context) (models.Session, error) {
			return models.Session{}, svc.Register(ctx, draft)
		})
	}

	username, password := m.form.Get(screen.FieldUsername), m.form.Get(screen.FieldPassword)
	return m.run(opLogin, func(ctx context.Context) (models.Session, error) {
		return svc.Authenticate(ctx, username, password)
	})
}

func (m Model) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Exit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Edit):
		if m.pending {
			return m, nil
		}
		if err := m.svc.BeginEdit(); err != nil {
			m.status, m.statusErr = services.Message(err), true
			return m, nil
		}
		m.status = ""
		m.setSession(m.svc.Current())
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		svc := m.svc
		return m.run(opLogout, func(ctx context.Context) (models.Session, error) {
			return svc.EndSession(ctx), nil
		})
	}
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.pending {
			return m, nil
		}
		if err := m.svc.CancelEdit(); err != nil {
			m.status, m.statusErr = services.Message(err), true
			return m, nil
		}
		m.status = ""
		m.setSession(m.svc.Current())
		return m, nil

	case key.Matches(msg, m.keys.Submit) && m.focus == len(m.inputs):
		var draft models.Profile
		if m.sess.Profile != nil {
			draft = *m.sess.Profile
		}
		for i, f := range m.fields {
			screen.SetProfileValue(&draft, f, m.inputs[i].Value())
		}
		svc := m.svc
		return m.run(opSave, func(ctx context.Context) (models.Session, error) {
			if err := svc.SaveProfile(ctx, draft); err != nil {
				return models.Session{}, err
			}
			return svc.Current(), nil
		})
	}
	if cmd, ok := m.moveFocus(msg); ok {
		return m, cmd
	}
	return m, m.updateFocused(msg)
}

// moveFocus handles next/previous and enter on an input. The last focus
// slot is the button.
func (m *Model) moveFocus(msg tea.KeyMsg) (tea.Cmd, bool) {
	n := len(m.inputs) + 1
	switch {
	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Submit):
		m.focus = (m.focus + 1) % n
	case key.Matches(msg, m.keys.Prev):
		m.focus = (m.focus - 1 + n) % n
	default:
		return nil, false
	}
	return m.applyFocus(), true
}

func (m *Model) applyFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	if m.focus >= len(m.inputs) {
		return nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *Model) buildFormInputs() {
	m.fields = m.form.Fields()
	m.inputs = make([]textinput.Model, len(m.fields))
	for i, f := range m.fields {
		m.inputs[i] = newInput(f, m.form.Get(f))
	}
	m.focus = 0
	m.applyFocus()
}

func (m *Model) buildEditInputs() {
	var p models.Profile
	if m.sess.Profile != nil {
		p = *m.sess.Profile
	}
	m.fields = screen.ProfileFields()
	m.inputs = make([]textinput.Model, len(m.fields))
	for i, f := range m.fields {
		m.inputs[i] = newInput(f, screen.ProfileValue(p, f))
	}
	m.focus = 0
	m.applyFocus()
}

func newInput(f screen.Field, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Placeholder = f.Label()
	if f.Secret() {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.SetValue(value)
	return ti
}

func (m *Model) syncForm() {
	for i, f := range m.fields {
		m.form.Set(f, m.inputs[i].Value())
	}
}

func (m *Model) setInput(field screen.Field, value string) {
	for i, f := range m.fields {
		if f == field {
			m.inputs[i].SetValue(value)
		}
	}
}

func (m Model) View() string {
	var b strings.Builder

	switch {
	case !m.sess.IsLoggedIn:
		title := "Login"
		if m.form.Mode() == screen.ModeRegister {
			title = "Register"
		}
		b.WriteString(titleStyle.Render(title) + "\n")
		b.WriteString(m.viewInputs())
		b.WriteString(m.viewButton("Submit") + "\n")
		other := "register"
		if m.form.Mode() == screen.ModeRegister {
			other = "login"
		}
		b.WriteString(labelStyle.Render("ctrl+t: switch to "+other) + "\n")

	case m.sess.State == models.StateLoggedInEdit:
		b.WriteString(titleStyle.Render("Edit profile") + "\n")
		b.WriteString(m.viewInputs())
		b.WriteString(m.viewButton("Save") + "\n")

	default:
		b.WriteString(titleStyle.Render(welcome(m.sess.Profile)) + "\n")
		b.WriteString(m.viewProfile())
	}

	if m.status != "" {
		style := successStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(m.status) + "\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.helpKeys())))
	return docStyle.Render(b.String())
}

func (m Model) helpKeys() help.KeyMap {
	switch {
	case !m.sess.IsLoggedIn:
		return m.keys.formHelp()
	case m.sess.State == models.StateLoggedInEdit:
		return m.keys.editHelp()
	default:
		return m.keys.profileHelp()
	}
}

func (m Model) viewInputs() string {
	rows := make([]string, 0, len(m.inputs))
	for i, f := range m.fields {
		label := labelStyle.Render(f.Label())
		if i == m.focus {
			label = focusedLabelStyle.Render(f.Label())
		}
		m.inputs[i].Width = m.width - 6
		rows = append(rows, lipgloss.JoinVertical(lipgloss.Left, label, m.inputs[i].View()))
	}
	return strings.Join(rows, "\n") + "\n\n"
}

func (m Model) viewButton(text string) string {
	switch {
	case m.pending:
		return disabledButtonStyle.Render("[ "+text+" ]") + " " + m.spinner.View()
	case m.focus == len(m.inputs):
		return focusedButtonStyle.Render("[ " + text + " ]")
	default:
		return buttonStyle.Render("[ " + text + " ]")
	}
}

func (m Model) viewProfile() string {
	p := m.sess.Profile
	if p == nil {
		return labelStyle.Render("No profile data") + "\n"
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render("Username: ") + valueStyle.Render(p.Username) + "\n")
	for _, f := range screen.ProfileFields() {
		b.WriteString(labelStyle.Render(f.Label()+": ") + valueStyle.Render(screen.ProfileValue(*p, f)) + "\n")
	}
	return b.String()
}

func welcome(p *models.Profile) string {
	if p == nil {
		return "Welcome!"
	}
	name := p.FullName()
	if name == "" {
		name = p.Username
	}
	return "Welcome, " + name + "!"
}
