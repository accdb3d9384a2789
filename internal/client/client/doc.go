// Package client talks to the ledger gRPC service.
//
// LedgerClient wraps one grpc.ClientConn. Requests and replies travel as
// google.protobuf.Struct values described by the rpc package, and the
// session token rides along as "access_token" metadata on every call.
//
// gRPC status codes are mapped to the sentinel errors in errors.go so
// callers can match them with errors.Is.
package client
