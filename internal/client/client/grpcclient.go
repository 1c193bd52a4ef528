package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/profilekeeper/internal/client/models"
	"github.com/dmitrijs2005/profilekeeper/internal/common"
	pb "github.com/dmitrijs2005/profilekeeper/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.CredentialServiceClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(t string) {
	s.mu.Lock()
	s.accessToken = t
	s.mu.Unlock()
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if t := s.token(); t != "" {
		ctx = withAccessToken(ctx, t)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to endpointURL. Extra dial options are
// appended after the defaults (insecure transport, token interceptor).
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, dialOpts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewCredentialServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.GetValue() != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) GetSalt(ctx context.Context, userName string) ([]byte, error) {
	resp, err := s.client.GetSalt(ctx, wrapperspb.String(userName))
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.GetValue(), nil
}

func (s *GRPCClient) Register(ctx context.Context, p models.Profile, salt []byte, verifier []byte) error {
	req, err := pb.RegisterRequest{Profile: toPB(p), Salt: salt, Verifier: verifier}.Struct()
	if err != nil {
		return fmt.Errorf("encode register request: %w", err)
	}

	if _, err := s.client.Register(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

// Login stores the returned access token for subsequent calls.
func (s *GRPCClient) Login(ctx context.Context, userName string, verifier []byte) error {
	req, err := pb.LoginRequest{Username: userName, Verifier: verifier}.Struct()
	if err != nil {
		return fmt.Errorf("encode login request: %w", err)
	}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return s.mapError(err)
	}

	s.setToken(resp.GetValue())
	return nil
}

func (s *GRPCClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	resp, err := s.client.GetProfile(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	p := fromPB(pb.ParseProfile(resp))
	return &p, nil
}

func (s *GRPCClient) PresignAvatar(ctx context.Context, contentType string) (string, string, string, error) {
	resp, err := s.client.PresignAvatar(ctx, wrapperspb.String(contentType))
	if err != nil {
		return "", "", "", s.mapError(err)
	}
	u := pb.ParseAvatarUpload(resp)
	return u.Key, u.PutURL, u.GetURL, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.AlreadyExists:
		return common.ErrorAlreadyExists
	case codes.NotFound:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func toPB(p models.Profile) pb.Profile {
	return pb.Profile{
		Username:       p.Username,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		ContactNumber:  p.ContactNumber,
		Address:        p.Address,
		ProfilePicture: p.ProfilePicture,
	}
}

func fromPB(p pb.Profile) models.Profile {
	return models.Profile{
		Username:       p.Username,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		ContactNumber:  p.ContactNumber,
		Address:        p.Address,
		ProfilePicture: p.ProfilePicture,
	}
}
