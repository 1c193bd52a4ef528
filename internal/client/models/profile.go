// Package models defines client-side data models: the user profile kept in
// the key/value cache and the session snapshot published to the UI.
package models

import "strings"

// Profile is the user-editable identity record. The JSON form is what is
// stored under the "userProfile" key.
type Profile struct {
	Username       string `json:"username"`
	Password       string `json:"password,omitempty"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	ContactNumber  string `json:"contactNumber"`
	Address        string `json:"address"`
	ProfilePicture string `json:"profilePicture"`
}

// WithoutPassword returns a copy with Password cleared.
func (p Profile) WithoutPassword() Profile {
	p.Password = ""
	return p
}

// FullName joins first and last name, skipping empty parts.
func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
