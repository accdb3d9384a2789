// Package rpc describes the sampleledger.v1.Ledger gRPC service. Requests
// and replies are google.protobuf.Struct values, so both ends share this
// descriptor instead of generated stubs.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "sampleledger.v1.Ledger"

const (
	MethodPing          = "Ping"
	MethodLogin         = "Login"
	MethodListRecords   = "ListRecords"
	MethodSummary       = "Summary"
	MethodDeleteRecords = "DeleteRecords"
	MethodRestoreRecord = "RestoreRecord"
)

// FullMethod returns the wire name of method, e.g. "/sampleledger.v1.Ledger/Ping".
func FullMethod(method string) string { return "/" + ServiceName + "/" + method }

// LedgerServer is the server API for the Ledger service.
type LedgerServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRecords(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Summary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteRecords(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RestoreRecord(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterLedgerServer(s grpc.ServiceRegistrar, srv LedgerServer) {
	s.RegisterService(&Ledger_ServiceDesc, srv)
}

type unaryCall func(LedgerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Ledger_ServiceDesc is the grpc.ServiceDesc for the Ledger service.
var Ledger_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodPing, Handler: unaryHandler(MethodPing, LedgerServer.Ping)},
		{MethodName: MethodLogin, Handler: unaryHandler(MethodLogin, LedgerServer.Login)},
		{MethodName: MethodListRecords, Handler: unaryHandler(MethodListRecords, LedgerServer.ListRecords)},
		{MethodName: MethodSummary, Handler: unaryHandler(MethodSummary, LedgerServer.Summary)},
		{MethodName: MethodDeleteRecords, Handler: unaryHandler(MethodDeleteRecords, LedgerServer.DeleteRecords)},
		{MethodName: MethodRestoreRecord, Handler: unaryHandler(MethodRestoreRecord, LedgerServer.RestoreRecord)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sampleledger/v1/ledger.proto",
}
