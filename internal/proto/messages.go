package proto

import (
	"encoding/base64"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// Profile is the profile payload of Register and GetProfile.
type Profile struct {
	Username       string
	FirstName      string
	LastName       string
	Email          string
	ContactNumber  string
	Address        string
	ProfilePicture string
}

// RegisterRequest carries a new account. Salt and Verifier are computed
// by the client; the password never leaves it.
type RegisterRequest struct {
	Profile
	Salt     []byte
	Verifier []byte
}

type LoginRequest struct {
	Username string
	Verifier []byte
}

// AvatarUpload is the PresignAvatar reply.
type AvatarUpload struct {
	Key    string
	PutURL string
	GetURL string
}

func (p Profile) fields() map[string]any {
	return map[string]any{
		"username":       p.Username,
		"firstName":      p.FirstName,
		"lastName":       p.LastName,
		"email":          p.Email,
		"contactNumber":  p.ContactNumber,
		"address":        p.Address,
		"profilePicture": p.ProfilePicture,
	}
}

func profileFrom(s *structpb.Struct) Profile {
	return Profile{
		Username:       stringField(s, "username"),
		FirstName:      stringField(s, "firstName"),
		LastName:       stringField(s, "lastName"),
		Email:          stringField(s, "email"),
		ContactNumber:  stringField(s, "contactNumber"),
		Address:        stringField(s, "address"),
		ProfilePicture: stringField(s, "profilePicture"),
	}
}

func (p Profile) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(p.fields())
}

func ParseProfile(s *structpb.Struct) Profile {
	return profileFrom(s)
}

func (r RegisterRequest) Struct() (*structpb.Struct, error) {
	m := r.Profile.fields()
	m["salt"] = base64.StdEncoding.EncodeToString(r.Salt)
	m["verifier"] = base64.StdEncoding.EncodeToString(r.Verifier)
	return structpb.NewStruct(m)
}

func ParseRegisterRequest(s *structpb.Struct) (*RegisterRequest, error) {
	salt, err := bytesField(s, "salt")
	if err != nil {
		return nil, err
	}
	verifier, err := bytesField(s, "verifier")
	if err != nil {
		return nil, err
	}
	return &RegisterRequest{Profile: profileFrom(s), Salt: salt, Verifier: verifier}, nil
}

func (r LoginRequest) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"username": r.Username,
		"verifier": base64.StdEncoding.EncodeToString(r.Verifier),
	})
}

func ParseLoginRequest(s *structpb.Struct) (*LoginRequest, error) {
	verifier, err := bytesField(s, "verifier")
	if err != nil {
		return nil, err
	}
	return &LoginRequest{Username: stringField(s, "username"), Verifier: verifier}, nil
}

func (a AvatarUpload) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"key":    a.Key,
		"putUrl": a.PutURL,
		"getUrl": a.GetURL,
	})
}

func ParseAvatarUpload(s *structpb.Struct) AvatarUpload {
	return AvatarUpload{
		Key:    stringField(s, "key"),
		PutURL: stringField(s, "putUrl"),
		GetURL: stringField(s, "getUrl"),
	}
}

func stringField(s *structpb.Struct, name string) string {
	if s == nil {
		return ""
	}
	return s.GetFields()[name].GetStringValue()
}

func bytesField(s *structpb.Struct, name string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(stringField(s, name))
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", name, err)
	}
	return b, nil
}
