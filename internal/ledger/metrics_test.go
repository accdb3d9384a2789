package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	today := NewDate(2025, 3, 10)
	records := []Record{
		{No: 1, Quantity: 10, DueDate: NewDate(2025, 3, 1)},
		{No: 2, Quantity: 5, DueDate: NewDate(2025, 3, 1), Shipped: NewDate(2025, 3, 2)},
		{No: 3, Quantity: 1, DueDate: today},
		{No: 4, Quantity: 4, MaterialPrep: "진행중"},
	}
	s := Summarize(records, today)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, int64(20), s.Quantity)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 1, s.Delayed)
	assert.Equal(t, 25, s.CompletionRate)
	assert.Equal(t, 2, s.ByStatus[StatusReceived])
	assert.Equal(t, 1, s.ByStatus[StatusMaterialPrep])
	assert.Equal(t, 1, s.ByStatus[StatusShipped])
	assert.Equal(t, 0, s.ByStatus[StatusInProduction])
	assert.Equal(t, 1, CountDelayed(records, today))
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, NewDate(2025, 1, 1))
	assert.Zero(t, s.Total)
	assert.Zero(t, s.CompletionRate)
	assert.Len(t, s.ByStatus, len(Statuses))
}

func TestCompletionRateRoundsDown(t *testing.T) {
	d := NewDate(2025, 1, 1)
	records := []Record{{Shipped: d}, {}, {}}
	assert.Equal(t, 33, Summarize(records, d).CompletionRate)
}

func TestIsDelayedNeedsDueDate(t *testing.T) {
	assert.False(t, IsDelayed(Record{}, NewDate(2025, 1, 1)))
}
