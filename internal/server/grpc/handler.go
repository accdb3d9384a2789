package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/sampleledger/internal/auth"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/dmitrijs2005/sampleledger/internal/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return reply(rpc.PingReply{Status: "OK"})
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in rpc.LoginRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	token, p, err := s.auth.Login(ctx, in.Username, in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		}
		s.logger.Error(ctx, "login failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	s.logger.Info(ctx, "Logged in", "username", p.Username)
	return reply(rpc.LoginReply{Token: token, User: p})
}

func (s *GRPCServer) ListRecords(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in rpc.ListRecordsRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	records, err := s.visible(ctx)
	if err != nil {
		return nil, err
	}
	records = in.Filter.Apply(records)
	if records == nil {
		records = []ledger.Record{}
	}

	return reply(rpc.ListRecordsReply{Records: records, Total: len(records)})
}

func (s *GRPCServer) Summary(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	records, err := s.visible(ctx)
	if err != nil {
		return nil, err
	}
	return reply(ledger.Summarize(records, s.ledger.Today()))
}

func (s *GRPCServer) DeleteRecords(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in rpc.DeleteRecordsRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if len(in.Nos) == 0 {
		return nil, status.Error(codes.InvalidArgument, "nos is empty")
	}
	if err := s.ledger.EnsureLoaded(ctx); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	report, err := s.ledger.Delete(ctx, in.Nos)
	warning, err := s.persistWarning(ctx, err)
	if err != nil {
		return nil, err
	}
	return reply(rpc.DeleteRecordsReply{Deleted: report.Deleted, Warning: warning})
}

func (s *GRPCServer) RestoreRecord(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in rpc.RestoreRecordRequest
	if err := rpc.Decode(req, &in); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.ledger.EnsureLoaded(ctx); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	rec, err := s.ledger.Restore(ctx, in.No)
	warning, err := s.persistWarning(ctx, err)
	if err != nil {
		return nil, err
	}
	return reply(rpc.RestoreRecordReply{Record: rec, Warning: warning})
}

func (s *GRPCServer) visible(ctx context.Context) ([]ledger.Record, error) {
	p, ok := principalFrom(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	if err := s.ledger.EnsureLoaded(ctx); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return auth.Visible(s.ledger.Store().Records(), p), nil
}

// persistWarning turns a persistence failure into a warning text. The
// change is already in memory, so the call still succeeds.
func (s *GRPCServer) persistWarning(ctx context.Context, err error) (string, error) {
	if err == nil {
		return "", nil
	}
	if errors.Is(err, ledger.ErrPersist) {
		s.logger.Warn(ctx, "change kept in memory only", "error", err)
		return err.Error(), nil
	}
	return "", s.toStatus(ctx, err)
}

func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, ledger.ErrNotInTrash):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ledger.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, ledger.ErrInvalid):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	s.logger.Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func reply(v any) (*structpb.Struct, error) {
	out, err := rpc.Encode(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
