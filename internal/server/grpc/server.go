// Package grpc hosts the gRPC endpoint of the identity server. It owns the
// listener, the interceptor chain (token authentication and error mapping)
// and the standard health service; API services are plugged in with
// WithService.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/learnhub/internal/logging"
	"github.com/dmitrijs2005/learnhub/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// TokenParser verifies bearer tokens; *auth.TokenIssuer implements it.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Registrar registers an API service on the server before it starts.
type Registrar func(*grpc.Server)

type Option func(*GRPCServer)

// WithService adds an API service.
func WithService(r Registrar) Option {
	return func(s *GRPCServer) { s.registrars = append(s.registrars, r) }
}

// WithPublicMethods lists full method names that skip token authentication,
// e.g. "/learnhub.Identity/Login".
func WithPublicMethods(methods ...string) Option {
	return func(s *GRPCServer) {
		for _, m := range methods {
			s.public[m] = true
		}
	}
}

type GRPCServer struct {
	address    string
	logger     logging.Logger
	tokens     TokenParser
	public     map[string]bool
	registrars []Registrar
}

func NewGRPCServer(address string, l logging.Logger, tokens TokenParser, opts ...Option) *GRPCServer {
	s := &GRPCServer{
		address: address,
		logger:  l.With("module", "grpc_server"),
		tokens:  tokens,
		public: map[string]bool{
			healthpb.Health_Check_FullMethodName: true,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.errorInterceptor, s.accessTokenInterceptor))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	for _, r := range s.registrars {
		r(srv)
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
