package rpc

import (
	"testing"

	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_Records(t *testing.T) {
	in := ListRecordsReply{
		Records: []ledger.Record{{
			No: 20250310093001, Company: "기아", Quantity: 3, UnitPrice: 1200.5,
			DueDate: ledger.NewDate(2025, 3, 17), Status: ledger.StatusReceived,
			Extra: map[string]string{"연락처": "010"},
		}},
		Total: 1,
	}

	s, err := Encode(in)
	require.NoError(t, err)

	var out ListRecordsReply
	require.NoError(t, Decode(s, &out))
	require.Len(t, out.Records, 1)
	r := out.Records[0]
	assert.Equal(t, int64(20250310093001), r.No)
	assert.Equal(t, "기아", r.Company)
	assert.InDelta(t, 1200.5, r.UnitPrice, 1e-9)
	assert.Equal(t, "2025-03-17", r.DueDate.String())
	assert.Equal(t, "010", r.Extra["연락처"])
	assert.Equal(t, 1, out.Total)
}

func TestEncode_NonObject(t *testing.T) {
	_, err := Encode([]int{1, 2})
	assert.Error(t, err)
}

func TestDecode_Nil(t *testing.T) {
	v := PingReply{Status: "keep"}
	require.NoError(t, Decode(nil, &v))
	assert.Equal(t, "keep", v.Status)
}

func TestFullMethod(t *testing.T) {
	assert.Equal(t, "/sampleledger.v1.Ledger/Ping", FullMethod(MethodPing))
}
