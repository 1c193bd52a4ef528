// Package grpc exposes the account service as profilekeeper.v1.CredentialService.
package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/profilekeeper/internal/logging"
	pb "github.com/dmitrijs2005/profilekeeper/internal/proto"
	"github.com/dmitrijs2005/profilekeeper/internal/server/avatars"
	"github.com/dmitrijs2005/profilekeeper/internal/server/metrics"
	"github.com/dmitrijs2005/profilekeeper/internal/users"
)

// AvatarPresigner hands out upload URLs for profile pictures.
type AvatarPresigner interface {
	Presign(ctx context.Context, userID, contentType string) (*avatars.Upload, error)
}

type GRPCServer struct {
	pb.UnimplementedCredentialServiceServer
	address       string
	users         *users.Service
	avatars       AvatarPresigner
	metrics       *metrics.Metrics
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewGRPCServer wires the handlers. av and m may be nil: avatar requests are
// then refused and no metrics are recorded.
func NewGRPCServer(a string, l logging.Logger, us *users.Service, av AvatarPresigner, m *metrics.Metrics,
	secretKey string, tokenValidity time.Duration) *GRPCServer {
	return &GRPCServer{
		address:       a,
		logger:        l.With("module", "grpc_server"),
		users:         us,
		avatars:       av,
		metrics:       m,
		jwtSecret:     []byte(secretKey),
		tokenValidity: tokenValidity,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	interceptors := []grpc.UnaryServerInterceptor{}
	if s.metrics != nil {
		interceptors = append(interceptors, s.metrics.UnaryInterceptor)
	}
	interceptors = append(interceptors, s.accessTokenInterceptor)

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	pb.RegisterCredentialServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)
	return s.serve(ctx, listen)
}

// serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	return srv.Serve(lis)
}
