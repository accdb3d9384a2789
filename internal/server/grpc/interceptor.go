package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/sampleledger/internal/auth"
	"github.com/dmitrijs2005/sampleledger/internal/common"
	"github.com/dmitrijs2005/sampleledger/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const principalKey ctxKey = "principal"

var openMethods = map[string]bool{
	rpc.FullMethod(rpc.MethodPing):  true,
	rpc.FullMethod(rpc.MethodLogin): true,
}

var adminMethods = map[string]bool{
	rpc.FullMethod(rpc.MethodDeleteRecords): true,
	rpc.FullMethod(rpc.MethodRestoreRecord): true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if openMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	p, err := s.auth.Verify(ctx, accessToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	if adminMethods[info.FullMethod] && !p.IsAdmin() {
		s.logger.Warn(ctx, "admin method refused", "method", info.FullMethod, "username", p.Username)
		return nil, status.Error(codes.PermissionDenied, "admin only")
	}

	return handler(context.WithValue(ctx, principalKey, p), req)
}

func principalFrom(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(auth.Principal)
	return p, ok
}
