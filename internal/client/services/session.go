// Package services contains application services for the profilekeeper
// client. SessionManager is the single owner of session state: it keeps the
// key/value cache ("isLoggedIn", "userProfile") in step with the credential
// store and publishes a snapshot after every operation.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/client/credentials"
	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	"github.com/dmitrijs2005/profilekeeper/internal/validation"
)

const (
	KeyLoggedIn    = "isLoggedIn"
	KeyUserProfile = "userProfile"

	loggedInValue = "true"

	DefaultOperationTimeout = 5 * time.Second
)

// SessionManager runs at most one store operation at a time. A second call
// made while one is pending fails fast with ErrBusy; EndSession instead
// cancels the pending operation and waits for it.
type SessionManager struct {
	kv      metadata.Repository
	creds   credentials.Store
	logger  logging.Logger
	timeout time.Duration

	// op is held for the whole duration of a store operation.
	op sync.Mutex

	mu      sync.Mutex
	current models.Session
	cancel  context.CancelFunc
	subs    map[int]chan models.Session
	nextSub int
}

type Option func(*SessionManager)

// WithOperationTimeout bounds every store call. Zero or negative keeps the default.
func WithOperationTimeout(d time.Duration) Option {
	return func(m *SessionManager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(m *SessionManager) {
		if l != nil {
			m.logger = l
		}
	}
}

func NewSessionManager(kv metadata.Repository, creds credentials.Store, opts ...Option) *SessionManager {
	m := &SessionManager{
		kv:      kv,
		creds:   creds,
		logger:  logging.Discard(),
		timeout: DefaultOperationTimeout,
		current: models.LoggedOut(),
		subs:    make(map[int]chan models.Session),
	}
	for _, o := range opts {
		o(m)
	}
	m.logger = m.logger.With("module", "session")
	return m
}

// Initialize prepares the credential store. Failures are logged and the
// application carries on with degraded persistence.
func (m *SessionManager) Initialize(ctx context.Context) {
	ctx, done, err := m.begin(ctx)
	if err != nil {
		m.logger.Warn(ctx, "initialize skipped", "error", err)
		return
	}
	defer done()

	if err := m.creds.EnsureSchema(ctx); err != nil {
		m.logger.Error(ctx, "credential store not ready", "error", err)
	}
}

// RestoreSession rebuilds the session from the key/value store only. Any
// read or decode failure is logged and reported as logged out.
func (m *SessionManager) RestoreSession(ctx context.Context) models.Session {
	ctx, done, err := m.begin(ctx)
	if err != nil {
		return m.Current()
	}
	defer done()

	s := m.readSession(ctx)
	m.publish(s)
	return s.Clone()
}

func (m *SessionManager) readSession(ctx context.Context) models.Session {
	flag, err := m.kv.Get(ctx, KeyLoggedIn)
	if err != nil {
		m.logger.Error(ctx, "error checking login status", "error", err)
		return models.LoggedOut()
	}
	if string(flag) != loggedInValue {
		return models.LoggedOut()
	}

	profile, err := m.readProfile(ctx)
	if err != nil {
		m.logger.Error(ctx, "error fetching user profile", "error", err)
		return models.LoggedOut()
	}
	if profile == nil {
		m.logger.Warn(ctx, "logged in without a cached profile")
	}
	return models.LoggedIn(profile)
}

// Authenticate verifies the credentials and marks the session logged in.
// The cached profile is rebuilt from the credential store when it is missing
// or belongs to another user; flag and profile are written in one batch.
func (m *SessionManager) Authenticate(ctx context.Context, username, password string) (models.Session, error) {
	if err := validation.Required(username, password); err != nil {
		return m.Current(), &ValidationError{Reason: err}
	}

	ctx, done, err := m.begin(ctx)
	if err != nil {
		return m.Current(), err
	}
	defer done()

	if m.Current().IsLoggedIn {
		return m.finish(m.Current()), ErrInvalidTransition
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	ok, err := m.creds.Verify(ctx, username, pw)
	if err != nil {
		return m.finish(m.Current()), &StorageError{Op: "verify credentials", Err: err}
	}
	if !ok {
		return m.finish(m.Current()), ErrInvalidCredentials
	}

	batch := metadata.NewBatch().Set(KeyLoggedIn, []byte(loggedInValue))

	profile, err := m.readProfile(ctx)
	if err != nil {
		m.logger.Warn(ctx, "discarding unreadable cached profile", "error", err)
		profile = nil
	}
	if profile == nil || profile.Username != username {
		fresh, err := m.creds.Lookup(ctx, username)
		if err != nil {
			return m.finish(m.Current()), &StorageError{Op: "lookup profile", Err: err}
		}
		p := fresh.WithoutPassword()
		raw, err := json.Marshal(p)
		if err != nil {
			return m.finish(m.Current()), &StorageError{Op: "encode profile", Err: err}
		}
		batch.Set(KeyUserProfile, raw)
		profile = &p
	}

	if err := m.kv.Apply(ctx, batch); err != nil {
		return m.finish(m.Current()), &StorageError{Op: "persist session", Err: err}
	}

	m.logger.Info(ctx, "user logged in", "username", username)
	return m.finish(models.LoggedIn(profile)), nil
}

// Register validates draft, creates the account and mirrors the profile
// into the cache. It does not log the user in. The mirrored copy has no
// password, so profiles read back through RestoreSession or Current never
// carry one.
func (m *SessionManager) Register(ctx context.Context, draft models.Profile) error {
	if err := validateRegistration(draft); err != nil {
		return &ValidationError{Reason: err}
	}

	ctx, done, err := m.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	if m.Current().IsLoggedIn {
		m.finish(m.Current())
		return ErrInvalidTransition
	}

	if err := m.creds.Insert(ctx, &draft); err != nil {
		m.finish(m.Current())
		if errors.Is(err, credentials.ErrDuplicateUsername) {
			return ErrDuplicateUsername
		}
		return &StorageError{Op: "insert user", Err: err}
	}

	// The cache is rebuilt at login, so a failed mirror is not fatal.
	if err := m.writeProfile(ctx, draft.WithoutPassword()); err != nil {
		m.logger.Error(ctx, "failed to mirror registered profile", "username", draft.Username, "error", err)
	}

	m.logger.Info(ctx, "user registered", "username", draft.Username)
	m.finish(m.Current())
	return nil
}

func validateRegistration(p models.Profile) error {
	if err := validation.Required(p.Username, p.Password, p.FirstName, p.LastName,
		p.Email, p.ContactNumber, p.Address); err != nil {
		return err
	}
	if err := validation.Email(p.Email); err != nil {
		return err
	}
	return validation.Phone(p.ContactNumber)
}

// UpdateProfile overwrites the cached profile with p as given. The credential
// store is not touched.
func (m *SessionManager) UpdateProfile(ctx context.Context, p models.Profile) error {
	ctx, done, err := m.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := m.writeProfile(ctx, p); err != nil {
		m.finish(m.Current())
		return &StorageError{Op: "update profile", Err: err}
	}

	s := m.Current()
	if s.IsLoggedIn {
		s.Profile = &p
	}
	m.finish(s)
	return nil
}

// BeginEdit moves a viewing session into edit mode.
func (m *SessionManager) BeginEdit() error {
	return m.transition(models.StateLoggedInView, models.StateLoggedInEdit)
}

// CancelEdit leaves edit mode without saving.
func (m *SessionManager) CancelEdit() error {
	return m.transition(models.StateLoggedInEdit, models.StateLoggedInView)
}

func (m *SessionManager) transition(from, to models.State) error {
	if !m.op.TryLock() {
		return ErrBusy
	}
	defer m.op.Unlock()

	s := m.Current()
	if s.State != from {
		return ErrInvalidTransition
	}
	s.State = to
	m.publish(s)
	return nil
}

// SaveProfile persists draft and returns to view mode. On failure the
// session stays in edit mode.
func (m *SessionManager) SaveProfile(ctx context.Context, draft models.Profile) error {
	ctx, done, err := m.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	s := m.Current()
	if s.State != models.StateLoggedInEdit {
		m.finish(s)
		return ErrInvalidTransition
	}

	if err := m.writeProfile(ctx, draft); err != nil {
		m.finish(s)
		return &StorageError{Op: "save profile", Err: err}
	}

	m.finish(models.LoggedIn(&draft))
	return nil
}

// EndSession removes the session keys and always reports logged out.
// Calling it again is harmless.
func (m *SessionManager) EndSession(ctx context.Context) models.Session {
	m.Cancel()
	m.op.Lock()
	defer m.op.Unlock()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	batch := metadata.NewBatch().Delete(KeyLoggedIn).Delete(KeyUserProfile)
	if err := m.kv.Apply(ctx, batch); err != nil {
		m.logger.Error(ctx, "error during logout", "error", err)
	}

	s := models.LoggedOut()
	m.publish(s)
	return s
}

// Cancel aborts the pending operation, if any.
func (m *SessionManager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
}

// Current returns the latest published session.
func (m *SessionManager) Current() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Clone()
}

// Subscribe delivers the current session immediately and then every
// published snapshot. A slow reader only ever sees the newest one.
// The returned func unsubscribes and closes the channel.
func (m *SessionManager) Subscribe() (<-chan models.Session, func()) {
	ch := make(chan models.Session, 1)

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	ch <- m.current.Clone()
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
			close(ch)
		})
	}
}

func (m *SessionManager) begin(ctx context.Context) (context.Context, func(), error) {
	if !m.op.TryLock() {
		return ctx, nil, ErrBusy
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	return ctx, func() {
		cancel()
		m.mu.Lock()
		m.cancel = nil
		m.mu.Unlock()
		m.op.Unlock()
	}, nil
}

// finish publishes s as the outcome of the running operation.
func (m *SessionManager) finish(s models.Session) models.Session {
	m.publish(s)
	return s.Clone()
}

func (m *SessionManager) publish(s models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = s.Clone()
	for _, ch := range m.subs {
		select {
		case ch <- m.current.Clone():
		default:
			select {
			case <-ch:
			default:
			}
			ch <- m.current.Clone()
		}
	}
}

func (m *SessionManager) readProfile(ctx context.Context) (*models.Profile, error) {
	raw, err := m.kv.Get(ctx, KeyUserProfile)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var p models.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyUserProfile, err)
	}
	return &p, nil
}

func (m *SessionManager) writeProfile(ctx context.Context, p models.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyUserProfile, err)
	}
	return m.kv.Set(ctx, KeyUserProfile, raw)
}
