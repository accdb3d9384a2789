package client

import (
	"context"

	"github.com/dmitrijs2005/sampleledger/internal/auth"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/dmitrijs2005/sampleledger/internal/rpc"
)

// Client is the ledger API as seen by the command-line tool.
type Client interface {
	Close() error
	SetToken(token string)
	Ping(ctx context.Context) error
	Login(ctx context.Context, username, password string) (string, auth.Principal, error)
	ListRecords(ctx context.Context, f ledger.Filter) ([]ledger.Record, error)
	Summary(ctx context.Context) (ledger.Summary, error)
	DeleteRecords(ctx context.Context, nos []int64) (rpc.DeleteRecordsReply, error)
	RestoreRecord(ctx context.Context, no int64) (rpc.RestoreRecordReply, error)
}
