package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// DefaultLeadDays is how far out a new request is due when no due date is
// given.
const DefaultLeadDays = 7

// Intake is a new sample request as entered by a customer.
type Intake struct {
	Company      string `json:"company"`
	Department   string `json:"department"`
	Contact      string `json:"contact"`
	CarModel     string `json:"carModel"`
	PartNumber   string `json:"partNumber"`
	PartName     string `json:"partName"`
	Quantity     int64  `json:"quantity"`
	DueDate      Date   `json:"dueDate"`
	Requirements string `json:"requirements"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
}

// Validate checks the required fields.
func (in Intake) Validate() error {
	var missing []string
	if IsAbsent(in.Company) {
		missing = append(missing, "company")
	}
	if IsAbsent(in.Contact) {
		missing = append(missing, "contact")
	}
	if IsAbsent(in.PartName) {
		missing = append(missing, "partName")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalid, strings.Join(missing, ", "))
	}
	if in.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalid)
	}
	return nil
}

// Submit registers a new request at the head of the table. The intake
// date is today and the due date defaults to DefaultLeadDays from today.
// Prices and milestones are left for staff to fill in.
func (r *Reconciler) Submit(ctx context.Context, in Intake) (Record, error) {
	if err := in.Validate(); err != nil {
		return Record{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, trash := r.store.snapshot()
	today := r.Today()

	rec := Record{
		No:           nextID(records, trash, r.now()),
		RequestDate:  today,
		Company:      in.Company,
		Department:   in.Department,
		Contact:      in.Contact,
		CarModel:     in.CarModel,
		PartNumber:   in.PartNumber,
		PartName:     in.PartName,
		Quantity:     in.Quantity,
		DueDate:      in.DueDate,
		Requirements: in.Requirements,
	}
	if rec.DueDate.IsZero() {
		rec.DueDate = today.AddDays(DefaultLeadDays)
	}
	if !IsAbsent(in.Phone) {
		rec.SetValue(ColPhone, in.Phone)
	}
	if !IsAbsent(in.Email) {
		rec.SetValue(ColEmail, in.Email)
	}
	rec = rec.Normalize()

	records = slices.Insert(records, 0, rec)
	r.store.commit(records, trash)
	r.logger.Info(ctx, "request submitted", "no", rec.No, "company", rec.Company)

	return rec.Clone(), r.persist(ctx, records, nil)
}

// SetShipDate sets the ship date on the given active records.
func (r *Reconciler) SetShipDate(ctx context.Context, nos []int64, d Date) (int, error) {
	return r.bulk(ctx, nos, func(rec *Record) { rec.Shipped = d })
}

// SetMaterialPrep sets the material-prep text on the given active records.
func (r *Reconciler) SetMaterialPrep(ctx context.Context, nos []int64, text string) (int, error) {
	return r.bulk(ctx, nos, func(rec *Record) { rec.MaterialPrep = text })
}

// ChangeStatus moves the given records to status s by filling in the
// milestone it stands for. SHIPPED always stamps today's ship date.
func (r *Reconciler) ChangeStatus(ctx context.Context, nos []int64, s Status) (int, error) {
	if !slices.Contains(Statuses, s) {
		return 0, fmt.Errorf("%w: unknown status %q", ErrInvalid, s)
	}
	today := r.Today()
	marker := r.vocab.Marker()
	return r.bulk(ctx, nos, func(rec *Record) {
		backfill(rec, s, today, marker, s == StatusShipped)
	})
}

// bulk applies fn to every active record named in nos and persists when
// anything changed. Unknown NOs are skipped.
func (r *Reconciler) bulk(ctx context.Context, nos []int64, fn func(*Record)) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, trash := r.store.snapshot()
	want := make(map[int64]struct{}, len(nos))
	for _, no := range nos {
		want[no] = struct{}{}
	}

	n := 0
	for i := range records {
		if _, ok := want[records[i].No]; !ok {
			continue
		}
		rec := records[i].Clone()
		fn(&rec)
		rec = rec.Normalize()
		if !rec.Equal(records[i]) {
			records[i] = rec
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}

	r.store.commit(records, trash)
	r.logger.Info(ctx, "bulk update", "requested", len(want), "updated", n)

	return n, r.persist(ctx, records, nil)
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	TotalRows     int      `json:"totalRows"`
	SuccessCount  int      `json:"successCount"`
	SkippedCount  int      `json:"skippedCount"`
	ErrorCount    int      `json:"errorCount"`
	SkippedItems  []string `json:"skippedItems,omitempty"`
	ErrorMessages []string `json:"errorMessages,omitempty"`
}

// Import adds rows read from a spreadsheet file. Rows whose NO is already
// active or in the trash are skipped; rows without a NO are numbered from
// NextID. Rows naming no company, part name or part number are errors.
// Accepted rows are put at the head of the table in file order.
//
// rowOffset is added to row indexes in messages so they match the line
// numbers the user sees in the file.
func (r *Reconciler) Import(ctx context.Context, rows []Record, rowOffset int) (ImportResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := ImportResult{TotalRows: len(rows)}
	records, trash := r.store.snapshot()

	taken := make(map[int64]string, len(records)+len(trash))
	for _, rec := range records {
		taken[rec.No] = "active"
	}
	for _, t := range trash {
		taken[t.No] = "trash"
	}
	next := nextID(records, trash, r.now())

	added := make([]Record, 0, len(rows))
	for i, row := range rows {
		line := i + rowOffset
		if IsAbsent(row.Company) && IsAbsent(row.PartName) && IsAbsent(row.PartNumber) {
			res.ErrorCount++
			res.ErrorMessages = append(res.ErrorMessages,
				fmt.Sprintf("row %d: company, part name and part number are all empty", line))
			continue
		}
		if row.No > 0 {
			if where, dup := taken[row.No]; dup {
				res.SkippedCount++
				res.SkippedItems = append(res.SkippedItems,
					fmt.Sprintf("row %d: NO %d already exists (%s)", line, row.No, where))
				continue
			}
		} else {
			row.No = next
		}
		next = max(next, row.No+1)
		taken[row.No] = "import"

		added = append(added, row.Clone().Normalize())
		res.SuccessCount++
	}

	if len(added) == 0 {
		return res, nil
	}

	records = append(added, records...)
	r.store.commit(records, trash)
	r.logger.Info(ctx, "import applied",
		"rows", res.TotalRows, "added", res.SuccessCount, "skipped", res.SkippedCount, "errors", res.ErrorCount)

	return res, r.persist(ctx, records, nil)
}
