package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	pb "github.com/dmitrijs2005/profilekeeper/internal/proto"
	"github.com/dmitrijs2005/profilekeeper/internal/server/auth"
	"github.com/dmitrijs2005/profilekeeper/internal/server/avatars"
	"github.com/dmitrijs2005/profilekeeper/internal/users"
	"github.com/dmitrijs2005/profilekeeper/internal/validation"
)

func (s *GRPCServer) Ping(ctx context.Context, req *emptypb.Empty) (*wrapperspb.StringValue, error) {

	return wrapperspb.String("OK"), nil

}

func (s *GRPCServer) GetSalt(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {

	salt, err := s.users.GetSalt(ctx, req.GetValue())
	if err != nil {
		s.logger.Error(ctx, "get salt", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return wrapperspb.Bytes(salt), nil

}

// validateRegistration repeats the client-side field checks; the password
// itself never reaches the server.
func validateRegistration(r *pb.RegisterRequest) error {
	p := r.Profile
	if err := validation.Required(p.Username, p.FirstName, p.LastName, p.Email, p.ContactNumber, p.Address); err != nil {
		return err
	}
	if err := validation.Email(p.Email); err != nil {
		return err
	}
	if err := validation.Phone(p.ContactNumber); err != nil {
		return err
	}
	if len(r.Salt) != common.SaltSize || len(r.Verifier) == 0 {
		return errors.New("malformed salt or verifier")
	}
	return nil
}

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {

	s.logger.Info(ctx, "Registration request")

	r, err := pb.ParseRegisterRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := validateRegistration(r); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	u := &users.User{
		Username:       r.Username,
		Salt:           r.Salt,
		Verifier:       r.Verifier,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		ContactNumber:  r.ContactNumber,
		Address:        r.Address,
		ProfilePicture: r.ProfilePicture,
	}

	created, err := s.users.RegisterWithVerifier(ctx, u)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, status.Error(codes.AlreadyExists, "username already taken")
		}
		s.logger.Error(ctx, "register", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	s.logger.Info(ctx, "Registered", "username", created.Username, "id", created.ID)
	return &emptypb.Empty{}, nil

}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {

	r, err := pb.ParseLoginRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	user, err := s.users.Login(ctx, r.Username, r.Verifier)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		}
		s.logger.Error(ctx, "login", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.logger.Error(ctx, "generate token", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	s.logger.Info(ctx, "Logged in", "username", user.Username)
	return wrapperspb.String(token), nil

}

func (s *GRPCServer) GetProfile(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {

	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing user")
	}

	u, err := s.users.ProfileByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, status.Error(codes.NotFound, "user not found")
		}
		s.logger.Error(ctx, "get profile", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	resp, err := pb.Profile{
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		ContactNumber:  u.ContactNumber,
		Address:        u.Address,
		ProfilePicture: u.ProfilePicture,
	}.Struct()
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return resp, nil

}

func (s *GRPCServer) PresignAvatar(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {

	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing user")
	}
	if s.avatars == nil {
		return nil, status.Error(codes.FailedPrecondition, "avatar storage is not configured")
	}

	up, err := s.avatars.Presign(ctx, userID, req.GetValue())
	if err != nil {
		if errors.Is(err, avatars.ErrUnsupportedContentType) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		s.logger.Error(ctx, "presign avatar", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	resp, err := pb.AvatarUpload{Key: up.Key, PutURL: up.PutURL, GetURL: up.GetURL}.Struct()
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return resp, nil

}
