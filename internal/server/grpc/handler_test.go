package grpc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/cryptox"
	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	pb "github.com/dmitrijs2005/profilekeeper/internal/proto"
	"github.com/dmitrijs2005/profilekeeper/internal/server/auth"
	"github.com/dmitrijs2005/profilekeeper/internal/server/avatars"
)

func registerRequest(t *testing.T, mutate func(*pb.RegisterRequest)) *structpb.Struct {
	t.Helper()
	salt, verifier := cryptox.NewVerifier([]byte("wonderland"))
	r := pb.RegisterRequest{
		Profile: pb.Profile{
			Username:      "alice",
			FirstName:     "Alice",
			LastName:      "Liddell",
			Email:         "alice@example.com",
			ContactNumber: "0123456789",
			Address:       "1 Rabbit Hole",
		},
		Salt:     salt,
		Verifier: verifier,
	}
	if mutate != nil {
		mutate(&r)
	}
	s, err := r.Struct()
	require.NoError(t, err)
	return s
}

func loginRequest(t *testing.T, s *GRPCServer, username, password string) *structpb.Struct {
	t.Helper()
	salt, err := s.GetSalt(context.Background(), wrapperspb.String(username))
	require.NoError(t, err)
	req, err := pb.LoginRequest{Username: username, Verifier: cryptox.DeriveVerifier([]byte(password), salt.GetValue())}.Struct()
	require.NoError(t, err)
	return req
}

func withUser(id string) context.Context {
	return context.WithValue(context.Background(), userIDKey, id)
}

func TestPing(t *testing.T) {
	resp, err := newInterceptorServer().Ping(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.GetValue())
}

func TestGetSalt_UnknownUserGetsRandomSalt(t *testing.T) {
	s := newTestServer(t, nil)

	a, err := s.GetSalt(context.Background(), wrapperspb.String("ghost"))
	require.NoError(t, err)
	b, err := s.GetSalt(context.Background(), wrapperspb.String("ghost"))
	require.NoError(t, err)

	assert.Len(t, a.GetValue(), common.SaltSize)
	assert.NotEqual(t, a.GetValue(), b.GetValue())
}

func TestRegister_InvalidArgument(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*pb.RegisterRequest)
	}{
		{name: "missing first name", mutate: func(r *pb.RegisterRequest) { r.FirstName = "" }},
		{name: "blank address", mutate: func(r *pb.RegisterRequest) { r.Address = "   " }},
		{name: "bad email", mutate: func(r *pb.RegisterRequest) { r.Email = "alice@" }},
		{name: "bad phone", mutate: func(r *pb.RegisterRequest) { r.ContactNumber = "555-1234" }},
		{name: "short salt", mutate: func(r *pb.RegisterRequest) { r.Salt = []byte("short") }},
		{name: "no verifier", mutate: func(r *pb.RegisterRequest) { r.Verifier = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			_, err := s.Register(context.Background(), registerRequest(t, tt.mutate))
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestRegister_MalformedPayload(t *testing.T) {
	s := newTestServer(t, nil)

	req, err := structpb.NewStruct(map[string]any{"username": "alice", "salt": "%%%"})
	require.NoError(t, err)

	_, err = s.Register(context.Background(), req)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRegister_Duplicate(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()

	_, err := s.Register(ctx, registerRequest(t, nil))
	require.NoError(t, err)

	_, err = s.Register(ctx, registerRequest(t, nil))
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestLogin_IssuesTokenForUser(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()

	_, err := s.Register(ctx, registerRequest(t, nil))
	require.NoError(t, err)

	_, err = s.Login(ctx, loginRequest(t, s, "alice", "wrong"))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	resp, err := s.Login(ctx, loginRequest(t, s, "alice", "wonderland"))
	require.NoError(t, err)

	claims, err := auth.ParseToken(resp.GetValue(), []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	profile, err := s.GetProfile(withUser(claims.UserID), &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "Alice", pb.ParseProfile(profile).FirstName)
}

func TestLogin_MalformedVerifier(t *testing.T) {
	s := newTestServer(t, nil)

	req, err := structpb.NewStruct(map[string]any{"username": "alice", "verifier": "not base64!"})
	require.NoError(t, err)

	_, err = s.Login(context.Background(), req)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetProfile_Errors(t *testing.T) {
	s := newTestServer(t, nil)

	_, err := s.GetProfile(context.Background(), &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = s.GetProfile(withUser("missing-id"), &emptypb.Empty{})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestPresignAvatar(t *testing.T) {
	tests := []struct {
		name      string
		presigner AvatarPresigner
		ctx       context.Context
		code      codes.Code
	}{
		{name: "ok", presigner: &fakePresigner{}, ctx: withUser("u1"), code: codes.OK},
		{name: "no user", presigner: &fakePresigner{}, ctx: context.Background(), code: codes.Unauthenticated},
		{name: "not configured", presigner: nil, ctx: withUser("u1"), code: codes.FailedPrecondition},
		{name: "unsupported type", presigner: &fakePresigner{err: avatars.ErrUnsupportedContentType}, ctx: withUser("u1"), code: codes.InvalidArgument},
		{name: "storage failure", presigner: &fakePresigner{err: errors.New("s3 down")}, ctx: withUser("u1"), code: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewGRPCServer("", logging.Discard(), nil, tt.presigner, nil, testSecret, 0)

			resp, err := s.PresignAvatar(tt.ctx, wrapperspb.String("image/png"))
			require.Equal(t, tt.code, status.Code(err))
			if tt.code == codes.OK {
				up := pb.ParseAvatarUpload(resp)
				assert.Equal(t, "avatars/u1/k.png", up.Key)
				assert.Equal(t, "https://s3/get", up.GetURL)
			}
		})
	}
}
