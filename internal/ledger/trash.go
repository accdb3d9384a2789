package ledger

import (
	"context"
	"fmt"
	"slices"
)

// DeleteReport describes the outcome of Delete.
type DeleteReport struct {
	Deleted []int64 `json:"deleted"`
}

// Delete moves the records with the given NOs to the trash, stamped with
// the current time. An unknown NO fails the whole call with ErrNotFound
// and nothing changes.
func (r *Reconciler) Delete(ctx context.Context, nos []int64) (DeleteReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var report DeleteReport
	records, trash := r.store.snapshot()

	want := make(map[int64]struct{}, len(nos))
	for _, no := range nos {
		want[no] = struct{}{}
	}
	for no := range want {
		if !slices.ContainsFunc(records, func(rec Record) bool { return rec.No == no }) {
			return report, fmt.Errorf("delete %d: %w", no, ErrNotFound)
		}
	}
	if len(want) == 0 {
		return report, nil
	}

	now := r.now()
	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if _, ok := want[rec.No]; !ok {
			kept = append(kept, rec)
			continue
		}
		trash = append(trash, TrashEntry{Record: rec.Clone(), DeletedAt: now})
		report.Deleted = append(report.Deleted, rec.No)
	}

	r.store.commit(kept, trash)
	r.logger.Info(ctx, "records moved to trash", "nos", report.Deleted)

	return report, r.persist(ctx, kept, trash)
}

// Restore moves a trashed record back to the head of the active table.
func (r *Reconciler) Restore(ctx context.Context, no int64) (Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, trash := r.store.snapshot()

	i := slices.IndexFunc(trash, func(t TrashEntry) bool { return t.No == no })
	if i < 0 {
		return Record{}, fmt.Errorf("restore %d: %w", no, ErrNotInTrash)
	}
	if slices.ContainsFunc(records, func(rec Record) bool { return rec.No == no }) {
		return Record{}, fmt.Errorf("restore %d: %w", no, ErrConflict)
	}

	rec := trash[i].Record.Normalize()
	trash = slices.Delete(trash, i, i+1)
	records = slices.Insert(records, 0, rec)

	r.store.commit(records, trash)
	r.logger.Info(ctx, "record restored", "no", no)

	return rec.Clone(), r.persist(ctx, records, trash)
}

// Purge removes records from the trash for good. An NO that is not in the
// trash fails the whole call with ErrNotInTrash.
func (r *Reconciler) Purge(ctx context.Context, nos []int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, trash := r.store.snapshot()

	want := make(map[int64]struct{}, len(nos))
	for _, no := range nos {
		if !slices.ContainsFunc(trash, func(t TrashEntry) bool { return t.No == no }) {
			return 0, fmt.Errorf("purge %d: %w", no, ErrNotInTrash)
		}
		want[no] = struct{}{}
	}
	if len(want) == 0 {
		return 0, nil
	}

	before := len(trash)
	trash = slices.DeleteFunc(trash, func(t TrashEntry) bool {
		_, ok := want[t.No]
		return ok
	})
	n := before - len(trash)

	r.store.commit(records, trash)
	r.logger.Info(ctx, "trash purged", "count", n)

	return n, r.persist(ctx, nil, trash)
}

// EmptyTrash purges every trashed record.
func (r *Reconciler) EmptyTrash(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, trash := r.store.snapshot()
	n := len(trash)
	if n == 0 {
		return 0, nil
	}

	trash = []TrashEntry{}
	r.store.commit(records, trash)
	r.logger.Info(ctx, "trash emptied", "count", n)

	return n, r.persist(ctx, nil, trash)
}
