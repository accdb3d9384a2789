// Package common holds constants shared by the ledger server and ledgerctl.
package common

// AccessTokenHeaderName is the gRPC metadata key, and the alternative HTTP
// header, that carries the session token.
const AccessTokenHeaderName = "access_token"
