package screen

import (
	"testing"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
)

func fill(f *Form) {
	for _, fld := range f.Fields() {
		f.Set(fld, string(fld)+"-value")
	}
}

func TestForm_ToggleChangesVisibleFields(t *testing.T) {
	f := NewForm()
	assert.Equal(t, ModeLogin, f.Mode())
	assert.Equal(t, []Field{FieldUsername, FieldPassword}, f.Fields())

	f.Toggle()
	assert.Equal(t, ModeRegister, f.Mode())
	assert.Len(t, f.Fields(), 8)
	assert.Equal(t, "register", f.Mode().String())

	f.Toggle()
	assert.Equal(t, ModeLogin, f.Mode())
	assert.Equal(t, "login", f.Mode().String())
}

func TestForm_CompleteRegistrationPrefillsLogin(t *testing.T) {
	f := NewForm()
	f.Toggle()
	fill(f)

	f.CompleteRegistration()

	assert.Equal(t, ModeLogin, f.Mode())
	assert.Equal(t, "username-value", f.Get(FieldUsername))
	assert.Equal(t, "password-value", f.Get(FieldPassword))
	assert.Empty(t, f.Get(FieldEmail))
	assert.Empty(t, f.Get(FieldAddress))
}

func TestForm_Draft(t *testing.T) {
	f := NewForm()
	f.Toggle()
	fill(f)

	assert.Equal(t, models.Profile{
		Username: "username-value", Password: "password-value", FirstName: "firstName-value",
		LastName: "lastName-value", Email: "email-value", ContactNumber: "contactNumber-value",
		Address: "address-value", ProfilePicture: "profilePicture-value",
	}, f.Draft())
}

func TestForm_ResetAndZeroValue(t *testing.T) {
	var f Form
	f.Set(FieldUsername, "a")
	f.Toggle()
	f.Reset()

	assert.Equal(t, ModeLogin, f.Mode())
	assert.Empty(t, f.Get(FieldUsername))
}

func TestFieldHelpers(t *testing.T) {
	assert.True(t, FieldPassword.Secret())
	assert.False(t, FieldEmail.Secret())
	assert.Equal(t, "Contact Number", FieldContactNumber.Label())
	assert.Equal(t, "odd", Field("odd").Label())
	assert.NotContains(t, ProfileFields(), FieldUsername)
	assert.NotContains(t, ProfileFields(), FieldPassword)

	var p models.Profile
	for _, fld := range append(ProfileFields(), FieldUsername, FieldPassword) {
		SetProfileValue(&p, fld, string(fld))
		assert.Equal(t, string(fld), ProfileValue(p, fld))
	}
	assert.Empty(t, ProfileValue(p, Field("odd")))
}
