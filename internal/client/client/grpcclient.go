package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sampleledger/internal/auth"
	"github.com/dmitrijs2005/sampleledger/internal/common"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/dmitrijs2005/sampleledger/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type LedgerClient struct {
	conn        *grpc.ClientConn
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (c *LedgerClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if c.accessToken != "" {
		ctx = withAccessToken(ctx, c.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewLedgerClient prepares a connection to target. Extra dial options are
// appended after the defaults, which use plaintext transport.
func NewLedgerClient(target string, opts ...grpc.DialOption) (*LedgerClient, error) {
	c := &LedgerClient{}
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (c *LedgerClient) Close() error {
	return c.conn.Close()
}

func (c *LedgerClient) SetToken(token string) { c.accessToken = token }

func (c *LedgerClient) invoke(ctx context.Context, method string, in, out any) error {
	req, err := rpc.Encode(in)
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, rpc.FullMethod(method), req, resp); err != nil {
		return c.mapError(err)
	}
	return rpc.Decode(resp, out)
}

func (c *LedgerClient) Ping(ctx context.Context) error {
	var out rpc.PingReply
	if err := c.invoke(ctx, rpc.MethodPing, struct{}{}, &out); err != nil {
		return err
	}
	if out.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

// Login opens a session and keeps its token for later calls.
func (c *LedgerClient) Login(ctx context.Context, username, password string) (string, auth.Principal, error) {
	var out rpc.LoginReply
	err := c.invoke(ctx, rpc.MethodLogin, rpc.LoginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return "", auth.Principal{}, err
	}
	c.accessToken = out.Token
	return out.Token, out.User, nil
}

func (c *LedgerClient) ListRecords(ctx context.Context, f ledger.Filter) ([]ledger.Record, error) {
	var out rpc.ListRecordsReply
	if err := c.invoke(ctx, rpc.MethodListRecords, rpc.ListRecordsRequest{Filter: f}, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

func (c *LedgerClient) Summary(ctx context.Context) (ledger.Summary, error) {
	var out ledger.Summary
	err := c.invoke(ctx, rpc.MethodSummary, struct{}{}, &out)
	return out, err
}

func (c *LedgerClient) DeleteRecords(ctx context.Context, nos []int64) (rpc.DeleteRecordsReply, error) {
	var out rpc.DeleteRecordsReply
	err := c.invoke(ctx, rpc.MethodDeleteRecords, rpc.DeleteRecordsRequest{Nos: nos}, &out)
	return out, err
}

func (c *LedgerClient) RestoreRecord(ctx context.Context, no int64) (rpc.RestoreRecordReply, error) {
	var out rpc.RestoreRecordReply
	err := c.invoke(ctx, rpc.MethodRestoreRecord, rpc.RestoreRecordRequest{No: no}, &out)
	return out, err
}

func (c *LedgerClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
