package ledger

import (
	"slices"
	"sync"
	"time"
)

// Store holds the active table and the trash for one process. Readers get
// copies; only the Reconciler commits new state.
type Store struct {
	mu      sync.RWMutex
	records []Record
	trash   []TrashEntry
	loaded  bool
}

func NewStore() *Store {
	return &Store{}
}

// Loaded reports whether a table has been committed yet.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Records returns a copy of the active table in display order.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.records)
}

// Trash returns a copy of the trash in deletion order.
func (s *Store) Trash() []TrashEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTrash(s.trash)
}

// Get returns the active record with the given NO.
func (s *Store) Get(no int64) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.No == no {
			return r.Clone(), true
		}
	}
	return Record{}, false
}

// Len returns the number of active records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store) snapshot() ([]Record, []TrashEntry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.records), cloneTrash(s.trash)
}

func (s *Store) commit(records []Record, trash []TrashEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.trash = trash
	s.loaded = true
}

// NextID returns max(NO) + 1 over the active table and the trash, or a
// timestamp-derived number when both are empty.
func (s *Store) NextID(now time.Time) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nextID(s.records, s.trash, now)
}

func nextID(records []Record, trash []TrashEntry, now time.Time) int64 {
	var top int64
	for _, r := range records {
		top = max(top, r.No)
	}
	for _, t := range trash {
		top = max(top, t.No)
	}
	if top == 0 {
		return now.Unix()
	}
	return top + 1
}

func cloneRecords(in []Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

func cloneTrash(in []TrashEntry) []TrashEntry {
	out := slices.Clone(in)
	for i := range out {
		out[i].Record = out[i].Record.Clone()
	}
	if out == nil {
		out = []TrashEntry{}
	}
	return out
}
