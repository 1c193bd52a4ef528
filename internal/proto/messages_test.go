package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestRegisterRequest_Struct(t *testing.T) {
	in := RegisterRequest{
		Profile:  Profile{Username: "alice", Email: "a@b.co", ContactNumber: "1234567890"},
		Salt:     []byte{0, 1, 2, 255},
		Verifier: []byte("verifier"),
	}
	s, err := in.Struct()
	require.NoError(t, err)

	out, err := ParseRegisterRequest(s)
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}

func TestParseRegisterRequest_BadBase64(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"username": "a", "salt": "!!notbase64"})
	require.NoError(t, err)

	_, err = ParseRegisterRequest(s)
	require.ErrorContains(t, err, "field salt")
}

func TestParseProfile_NilAndMissingFields(t *testing.T) {
	assert.Equal(t, Profile{}, ParseProfile(nil))

	s, err := structpb.NewStruct(map[string]any{"username": "bob", "age": 3})
	require.NoError(t, err)
	assert.Equal(t, Profile{Username: "bob"}, ParseProfile(s))
}

func TestLoginRequestAndAvatar(t *testing.T) {
	s, err := LoginRequest{Username: "a", Verifier: []byte{9, 9}}.Struct()
	require.NoError(t, err)
	lr, err := ParseLoginRequest(s)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9}, lr.Verifier)

	a := AvatarUpload{Key: "k", PutURL: "http://put", GetURL: "http://get"}
	s, err = a.Struct()
	require.NoError(t, err)
	assert.Equal(t, a, ParseAvatarUpload(s))
}
