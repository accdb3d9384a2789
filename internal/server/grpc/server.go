package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/sampleledger/internal/auth"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/dmitrijs2005/sampleledger/internal/logging"
	"github.com/dmitrijs2005/sampleledger/internal/rpc"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address string
	ledger  *ledger.Reconciler
	auth    *auth.Service
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, rec *ledger.Reconciler, as *auth.Service) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		ledger:  rec,
		auth:    as,
	}
}

// Register creates a grpc.Server with the access token interceptor and
// the Ledger service attached.
func (s *GRPCServer) Register(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	rpc.RegisterLedgerServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.Register()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
