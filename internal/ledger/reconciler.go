package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/sampleledger/internal/logging"
)

// Remote is the spreadsheet the ledger mirrors to.
type Remote interface {
	FetchTable(ctx context.Context) (Table, error)
	WriteTable(ctx context.Context, t Table) error
}

// Local is the on-disk snapshot of the active table and the trash. A
// snapshot that was never written is reported with found == false, not
// as an error.
type Local interface {
	LoadRecords(ctx context.Context) (records []Record, found bool, err error)
	SaveRecords(ctx context.Context, records []Record) error
	LoadTrash(ctx context.Context) ([]TrashEntry, error)
	SaveTrash(ctx context.Context, trash []TrashEntry) error
}

// Options configure a Reconciler. Zero values select the defaults.
type Options struct {
	Stabilizer *Stabilizer
	Vocabulary *Vocabulary
	Seed       []Record
	Clock      func() time.Time
	Logger     logging.Logger
}

// Reconciler owns every change to a Store and writes changes through to
// the local snapshot and the remote sheet.
type Reconciler struct {
	mu     sync.Mutex
	store  *Store
	remote Remote
	local  Local
	stab   Stabilizer
	vocab  Vocabulary
	seed   []Record
	now    func() time.Time
	logger logging.Logger

	// extras remembers the order of unknown columns from the last fetch so
	// that write-back keeps them where the sheet had them.
	extras []string
}

// NewReconciler wires a Reconciler. remote may be nil when no sheet is
// configured.
func NewReconciler(store *Store, remote Remote, local Local, opts Options) *Reconciler {
	r := &Reconciler{
		store:  store,
		remote: remote,
		local:  local,
		stab:   DefaultStabilizer(),
		vocab:  DefaultVocabulary(),
		seed:   Seed(),
		now:    time.Now,
		logger: logging.Nop(),
	}
	if opts.Stabilizer != nil {
		r.stab = *opts.Stabilizer
	}
	if opts.Vocabulary != nil {
		r.vocab = *opts.Vocabulary
	}
	if opts.Seed != nil {
		r.seed = cloneRecords(opts.Seed)
	}
	if opts.Clock != nil {
		r.now = opts.Clock
	}
	if opts.Logger != nil {
		r.logger = opts.Logger
	}
	r.logger = r.logger.With("module", "reconciler")
	return r
}

// Store returns the store the reconciler commits to.
func (r *Reconciler) Store() *Store { return r.store }

// Vocabulary returns the status labels in use.
func (r *Reconciler) Vocabulary() Vocabulary { return r.vocab }

// Header returns the column order used for write-back and export.
func (r *Reconciler) Header(records []Record) []string {
	r.mu.Lock()
	known := r.extras
	r.mu.Unlock()
	return HeaderFor(r.stab.Expected, records, known)
}

// Today is the current calendar day by the reconciler clock.
func (r *Reconciler) Today() Date { return DateOf(r.now()) }

// Source says where a load took its base table from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
	SourceSeed   Source = "seed"
	SourceMemory Source = "memory"
)

// LoadReport describes the outcome of Load.
type LoadReport struct {
	Source     Source `json:"source"`
	Fetched    int    `json:"fetched"`
	Inserted   int    `json:"inserted"`
	Updated    int    `json:"updated"`
	Kept       int    `json:"kept"`
	Suppressed int    `json:"suppressed"`
	Renumbered int    `json:"renumbered"`
	Total      int    `json:"total"`
	RemoteErr  error  `json:"-"`
	BackupErr  error  `json:"-"`
}

// Load merges the remote table into the store.
//
// When the remote answers with rows, they become the base: rows are matched
// to the current table by NO, remote values win, unmatched remote rows are
// inserted and rows only known locally are kept after them. The result is
// written to the local snapshot as a backup.
//
// When the remote is unavailable or empty, the store keeps what it has; a
// cold store falls back to the local snapshot and then to the seed table.
//
// In every case statuses are re-derived and trashed NOs are dropped. Remote
// failures are reported in LoadReport.RemoteErr, never returned. The only
// error is an unreadable trash, since loading without it could bring
// deleted records back.
func (r *Reconciler) Load(ctx context.Context) (LoadReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *Reconciler) load(ctx context.Context) (LoadReport, error) {
	var (
		report LoadReport
		trash  []TrashEntry
	)

	if r.store.Loaded() {
		trash = r.store.Trash()
	} else {
		t, err := r.local.LoadTrash(ctx)
		if err != nil {
			return report, fmt.Errorf("load trash: %w", err)
		}
		trash = t
	}
	if trash == nil {
		trash = []TrashEntry{}
	}

	floor := maxTrashNo(trash)

	fetched, err := r.fetchRemote(ctx, floor)
	if err != nil {
		report.RemoteErr = err
		r.logger.Warn(ctx, "remote sheet unavailable, using fallback", "error", err)
	}

	var records []Record
	switch {
	case err == nil && len(fetched) > 0:
		report.Source = SourceRemote
		report.Fetched = len(fetched)

		base := r.baseRecords(ctx)
		records, report.Inserted, report.Updated, report.Kept = mergeByNo(fetched, base)

	case r.store.Loaded():
		report.Source = SourceMemory
		records = r.store.Records()

	default:
		local, found, lerr := r.local.LoadRecords(ctx)
		switch {
		case lerr != nil:
			r.logger.Warn(ctx, "local snapshot unreadable, using seed", "error", lerr)
			report.Source = SourceSeed
			records = cloneRecords(r.seed)
		case found:
			report.Source = SourceLocal
			records = local
		default:
			report.Source = SourceSeed
			records = cloneRecords(r.seed)
		}
	}

	records, report.Renumbered = ensureUniqueNos(records, floor)
	records = normalizeAll(records)
	records, report.Suppressed = suppress(records, trash)
	report.Total = len(records)

	r.store.commit(records, trash)

	if report.Source == SourceRemote {
		if err := r.local.SaveRecords(ctx, records); err != nil {
			report.BackupErr = err
			r.logger.Warn(ctx, "local backup failed", "error", err)
		}
	}

	r.logger.Info(ctx, "table loaded",
		"source", report.Source, "rows", report.Total, "inserted", report.Inserted,
		"updated", report.Updated, "kept", report.Kept, "suppressed", report.Suppressed)

	return report, nil
}

// EnsureLoaded runs Load unless the store already holds a table, so a
// server started while the sheet was unreachable still answers.
func (r *Reconciler) EnsureLoaded(ctx context.Context) error {
	if r.store.Loaded() {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.store.Loaded() {
		return nil
	}
	_, err := r.load(ctx)
	return err
}

// fetchRemote fetches, stabilizes and decodes the remote table, assigning
// NOs to rows that lack one. floor is the highest NO already taken by the
// trash.
func (r *Reconciler) fetchRemote(ctx context.Context, floor int64) ([]Record, error) {
	if r.remote == nil {
		return nil, nil
	}
	t, err := r.remote.FetchTable(ctx)
	if err != nil {
		return nil, err
	}
	if t.Empty() {
		return nil, nil
	}

	t = r.stab.Stabilize(t)
	r.extras = slices.Clone(t.Header[len(r.stab.Expected):])

	records := DecodeTable(t, r.vocab)
	assignMissingNos(records, floor)
	return records, nil
}

func (r *Reconciler) baseRecords(ctx context.Context) []Record {
	if r.store.Loaded() {
		return r.store.Records()
	}
	local, found, err := r.local.LoadRecords(ctx)
	if err != nil {
		r.logger.Warn(ctx, "local snapshot unreadable, merging remote only", "error", err)
		return nil
	}
	if !found {
		return nil
	}
	return local
}

// FormBaseNo is the first NO handed out to a table that has no numbers at all.
const FormBaseNo = 1001

// assignMissingNos numbers rows without an NO. A table with no numbers at
// all (a raw form response sheet) is numbered from FormBaseNo by row
// position; otherwise blanks get max+1 in row order, counting floor so
// that a new row never takes a trashed NO and gets suppressed.
func assignMissingNos(records []Record, floor int64) {
	top := floor
	missing := 0
	for _, rec := range records {
		top = max(top, rec.No)
		if rec.No <= 0 {
			missing++
		}
	}
	if missing == 0 {
		return
	}
	if missing == len(records) {
		for i := range records {
			records[i].No = FormBaseNo + int64(i)
		}
		return
	}
	for i := range records {
		if records[i].No <= 0 {
			top++
			records[i].No = top
		}
	}
}

// ensureUniqueNos renumbers later rows that repeat an earlier NO. New
// numbers start above floor as well as above every row.
func ensureUniqueNos(records []Record, floor int64) ([]Record, int) {
	top := floor
	for _, rec := range records {
		top = max(top, rec.No)
	}
	seen := make(map[int64]struct{}, len(records))
	renumbered := 0
	for i := range records {
		if _, dup := seen[records[i].No]; dup || records[i].No <= 0 {
			top++
			records[i].No = top
			renumbered++
		}
		seen[records[i].No] = struct{}{}
	}
	return records, renumbered
}

func maxTrashNo(trash []TrashEntry) int64 {
	var top int64
	for _, t := range trash {
		top = max(top, t.No)
	}
	return top
}

func mergeByNo(fetched, base []Record) (out []Record, inserted, updated, kept int) {
	byNo := make(map[int64]Record, len(base))
	for _, b := range base {
		byNo[b.No] = b
	}

	out = make([]Record, 0, len(fetched)+len(base))
	seen := make(map[int64]struct{}, len(fetched))
	for _, f := range fetched {
		seen[f.No] = struct{}{}
		b, ok := byNo[f.No]
		if !ok {
			inserted++
			out = append(out, f)
			continue
		}
		for k, v := range b.Extra {
			if _, has := f.Extra[k]; !has {
				if f.Extra == nil {
					f.Extra = make(map[string]string)
				}
				f.Extra[k] = v
			}
		}
		if !f.Normalize().Equal(b.Normalize()) {
			updated++
		}
		out = append(out, f)
	}
	for _, b := range base {
		if _, ok := seen[b.No]; ok {
			continue
		}
		kept++
		out = append(out, b)
	}
	return out, inserted, updated, kept
}

func normalizeAll(records []Record) []Record {
	for i := range records {
		records[i] = records[i].Normalize()
	}
	return records
}

func suppress(records []Record, trash []TrashEntry) ([]Record, int) {
	if len(trash) == 0 {
		return records, 0
	}
	deleted := make(map[int64]struct{}, len(trash))
	for _, t := range trash {
		deleted[t.No] = struct{}{}
	}
	out := records[:0]
	n := 0
	for _, rec := range records {
		if _, gone := deleted[rec.No]; gone {
			n++
			continue
		}
		out = append(out, rec)
	}
	return out, n
}

// EditReport describes the outcome of ApplyEdits.
type EditReport struct {
	Updated  int     `json:"updated"`
	Inserted int     `json:"inserted"`
	Ignored  []int64 `json:"ignored,omitempty"`
}

// ApplyEdits merges an edited copy of (part of) the table into the store.
//
// Rows are matched by NO. When a row carries a status its milestones do not
// support (it was changed by hand), the milestone that status stands for is
// filled in: ship date or sample completion date become today, material
// prep gets the marker. Existing milestones are never overwritten, so
// applying the same edit twice gives the same table.
// Rows with NO 0 are new and receive the next free number; rows naming a
// trashed NO are ignored. Rows left out of edited are untouched.
//
// The store always keeps the result. A failed write-through is returned
// wrapped in ErrPersist.
func (r *Reconciler) ApplyEdits(ctx context.Context, edited []Record) (EditReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var report EditReport
	records, trash := r.store.snapshot()

	pos := make(map[int64]int, len(records))
	for i, rec := range records {
		pos[rec.No] = i
	}
	trashed := make(map[int64]struct{}, len(trash))
	for _, t := range trash {
		trashed[t.No] = struct{}{}
	}

	today := r.Today()
	next := nextID(records, trash, r.now())

	for _, e := range edited {
		e = e.Clone()
		if s, known := r.vocab.Parse(string(e.Status)); known {
			e.Status = s
		}

		if e.No <= 0 {
			e.No = next
			next++
			records = append(records, e.Normalize())
			pos[e.No] = len(records) - 1
			report.Inserted++
			continue
		}
		if _, gone := trashed[e.No]; gone {
			report.Ignored = append(report.Ignored, e.No)
			continue
		}

		i, ok := pos[e.No]
		if !ok {
			records = append(records, e.Normalize())
			pos[e.No] = len(records) - 1
			next = max(next, e.No+1)
			report.Inserted++
			continue
		}

		orig := records[i]
		if e.Status != "" && e.Status != DeriveStatus(e) {
			backfill(&e, e.Status, today, r.vocab.Marker(), false)
		}
		e = e.Normalize()
		if !e.Equal(orig) {
			records[i] = e
			report.Updated++
		}
	}

	r.store.commit(records, trash)

	if report.Updated == 0 && report.Inserted == 0 {
		return report, nil
	}
	return report, r.persist(ctx, records, nil)
}

// persist writes records (and trash when non-nil) to the local snapshot
// and records to the remote sheet. All failures are collected.
func (r *Reconciler) persist(ctx context.Context, records []Record, trash []TrashEntry) error {
	var errs []error

	if records != nil {
		if err := r.local.SaveRecords(ctx, records); err != nil {
			errs = append(errs, fmt.Errorf("local snapshot: %w", err))
		}
	}
	if trash != nil {
		if err := r.local.SaveTrash(ctx, trash); err != nil {
			errs = append(errs, fmt.Errorf("local trash: %w", err))
		}
	}
	if records != nil && r.remote != nil {
		t := EncodeTable(records, HeaderFor(r.stab.Expected, records, r.extras), r.vocab)
		if err := r.remote.WriteTable(ctx, t); err != nil {
			errs = append(errs, fmt.Errorf("remote sheet: %w", err))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	err := errors.Join(errs...)
	r.logger.Warn(ctx, "write-through failed, keeping in-memory state", "error", err)
	return fmt.Errorf("%w: %w", ErrPersist, err)
}
