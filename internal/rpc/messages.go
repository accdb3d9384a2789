package rpc

import (
	"github.com/dmitrijs2005/sampleledger/internal/auth"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
)

// Payloads carried inside the Struct messages.

type PingReply struct {
	Status string `json:"status"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginReply struct {
	Token string         `json:"token"`
	User  auth.Principal `json:"user"`
}

type ListRecordsRequest struct {
	Filter ledger.Filter `json:"filter"`
}

type ListRecordsReply struct {
	Records []ledger.Record `json:"records"`
	Total   int             `json:"total"`
}

type DeleteRecordsRequest struct {
	Nos []int64 `json:"nos"`
}

type DeleteRecordsReply struct {
	Deleted []int64 `json:"deleted"`
	Warning string  `json:"warning,omitempty"`
}

type RestoreRecordRequest struct {
	No int64 `json:"no"`
}

type RestoreRecordReply struct {
	Record  ledger.Record `json:"record"`
	Warning string        `json:"warning,omitempty"`
}
