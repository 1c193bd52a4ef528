// Package screen holds presentation state that both front ends share: the
// login/register form with its toggle and post-registration prefill.
package screen

import "github.com/dmitrijs2005/profilekeeper/internal/client/models"

type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

// Field names a form input.
type Field string

const (
	FieldUsername       Field = "username"
	FieldPassword       Field = "password"
	FieldFirstName      Field = "firstName"
	FieldLastName       Field = "lastName"
	FieldEmail          Field = "email"
	FieldContactNumber  Field = "contactNumber"
	FieldAddress        Field = "address"
	FieldProfilePicture Field = "profilePicture"
)

var (
	loginFields    = []Field{FieldUsername, FieldPassword}
	registerFields = []Field{FieldUsername, FieldPassword, FieldFirstName, FieldLastName,
		FieldEmail, FieldContactNumber, FieldAddress, FieldProfilePicture}
	profileFields = []Field{FieldFirstName, FieldLastName, FieldEmail, FieldContactNumber,
		FieldAddress, FieldProfilePicture}
)

// Label is the caption shown next to a field.
func (f Field) Label() string {
	switch f {
	case FieldUsername:
		return "Username"
	case FieldPassword:
		return "Password"
	case FieldFirstName:
		return "First Name"
	case FieldLastName:
		return "Last Name"
	case FieldEmail:
		return "Email"
	case FieldContactNumber:
		return "Contact Number"
	case FieldAddress:
		return "Address"
	case FieldProfilePicture:
		return "Profile Picture URL"
	default:
		return string(f)
	}
}

// Secret reports whether input should be masked.
func (f Field) Secret() bool { return f == FieldPassword }

// ProfileFields are the fields editable from the profile screen.
func ProfileFields() []Field {
	return append([]Field(nil), profileFields...)
}

// Form is the login/register form. The zero value is an empty login form.
type Form struct {
	mode   Mode
	values map[Field]string
}

func NewForm() *Form {
	return &Form{values: make(map[Field]string)}
}

func (f *Form) Mode() Mode { return f.mode }

// Toggle switches between login and register keeping what was typed.
func (f *Form) Toggle() {
	if f.mode == ModeLogin {
		f.mode = ModeRegister
	} else {
		f.mode = ModeLogin
	}
}

// Fields lists the inputs visible in the current mode, in display order.
func (f *Form) Fields() []Field {
	if f.mode == ModeRegister {
		return append([]Field(nil), registerFields...)
	}
	return append([]Field(nil), loginFields...)
}

func (f *Form) Set(field Field, value string) {
	if f.values == nil {
		f.values = make(map[Field]string)
	}
	f.values[field] = value
}

func (f *Form) Get(field Field) string { return f.values[field] }

// Draft builds a profile from the current values.
func (f *Form) Draft() models.Profile {
	return models.Profile{
		Username:       f.Get(FieldUsername),
		Password:       f.Get(FieldPassword),
		FirstName:      f.Get(FieldFirstName),
		LastName:       f.Get(FieldLastName),
		Email:          f.Get(FieldEmail),
		ContactNumber:  f.Get(FieldContactNumber),
		Address:        f.Get(FieldAddress),
		ProfilePicture: f.Get(FieldProfilePicture),
	}
}

// CompleteRegistration switches to login with username and password kept
// and every other field cleared.
func (f *Form) CompleteRegistration() {
	username, password := f.Get(FieldUsername), f.Get(FieldPassword)
	f.values = map[Field]string{FieldUsername: username, FieldPassword: password}
	f.mode = ModeLogin
}

// Reset returns to an empty login form.
func (f *Form) Reset() {
	f.values = make(map[Field]string)
	f.mode = ModeLogin
}

// ProfileValue reads field from p. Unknown fields read as "".
func ProfileValue(p models.Profile, field Field) string {
	switch field {
	case FieldUsername:
		return p.Username
	case FieldPassword:
		return p.Password
	case FieldFirstName:
		return p.FirstName
	case FieldLastName:
		return p.LastName
	case FieldEmail:
		return p.Email
	case FieldContactNumber:
		return p.ContactNumber
	case FieldAddress:
		return p.Address
	case FieldProfilePicture:
		return p.ProfilePicture
	default:
		return ""
	}
}

// SetProfileValue writes value into the matching field of p.
func SetProfileValue(p *models.Profile, field Field, value string) {
	switch field {
	case FieldUsername:
		p.Username = value
	case FieldPassword:
		p.Password = value
	case FieldFirstName:
		p.FirstName = value
	case FieldLastName:
		p.LastName = value
	case FieldEmail:
		p.Email = value
	case FieldContactNumber:
		p.ContactNumber = value
	case FieldAddress:
		p.Address = value
	case FieldProfilePicture:
		p.ProfilePicture = value
	}
}
