package models

// State is the session state machine position.
type State int

const (
	StateLoggedOut State = iota
	StateLoggedInView
	StateLoggedInEdit
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "LOGGED_OUT"
	case StateLoggedInView:
		return "LOGGED_IN_VIEW"
	case StateLoggedInEdit:
		return "LOGGED_IN_EDIT"
	default:
		return "UNKNOWN"
	}
}

// Session is an immutable snapshot of who is logged in.
// IsLoggedIn is true exactly when State is not StateLoggedOut. Profile may be
// nil while logged in if the cached profile has not been written yet.
type Session struct {
	IsLoggedIn bool
	Profile    *Profile
	State      State
}

// LoggedOut is the reset session.
func LoggedOut() Session {
	return Session{State: StateLoggedOut}
}

// LoggedIn returns a viewing session for p.
func LoggedIn(p *Profile) Session {
	return Session{IsLoggedIn: true, Profile: p, State: StateLoggedInView}
}

// Clone copies the profile so the snapshot can be handed out safely.
func (s Session) Clone() Session {
	if s.Profile != nil {
		p := *s.Profile
		s.Profile = &p
	}
	return s
}
