package ledger

import (
	"context"
	"sync"
	"time"
)

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type fakeRemote struct {
	mu       sync.Mutex
	table    Table
	fetchErr error
	writeErr error
	writes   []Table
	fetches  int
}

func (f *fakeRemote) FetchTable(context.Context) (Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return Table{}, f.fetchErr
	}
	return f.table, nil
}

func (f *fakeRemote) WriteTable(_ context.Context, t Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, t)
	f.table = t
	return nil
}

type fakeLocal struct {
	mu        sync.Mutex
	records   []Record
	found     bool
	trash     []TrashEntry
	loadErr   error
	trashErr  error
	saveErr   error
	saves     int
	trashSave int
}

func (f *fakeLocal) LoadRecords(context.Context) ([]Record, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	return cloneRecords(f.records), f.found, nil
}

func (f *fakeLocal) SaveRecords(_ context.Context, records []Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records = cloneRecords(records)
	f.found = true
	f.saves++
	return nil
}

func (f *fakeLocal) LoadTrash(context.Context) ([]TrashEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.trashErr != nil {
		return nil, f.trashErr
	}
	return cloneTrash(f.trash), nil
}

func (f *fakeLocal) SaveTrash(_ context.Context, trash []TrashEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.trash = cloneTrash(trash)
	f.trashSave++
	return nil
}

func newTestReconciler(remote Remote, local Local) *Reconciler {
	return NewReconciler(NewStore(), remote, local, Options{Clock: fixedClock})
}

func nos(records []Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.No
	}
	return out
}

func rec(no int64, company string) Record {
	return Record{No: no, Company: company, PartName: "part", Quantity: 1, Status: StatusReceived}
}
