package ledger

import (
	"slices"
	"strconv"
	"strings"
)

// Completion selects records by shipping state.
type Completion string

const (
	CompletionAll  Completion = ""
	CompletionDone Completion = "done"
	CompletionOpen Completion = "open"
)

// Filter narrows a record list. Zero-valued fields do not filter. A date
// range excludes records whose date is absent.
type Filter struct {
	Search     string     `json:"search,omitempty"`
	Completion Completion `json:"completion,omitempty"`

	Companies     []string `json:"companies,omitempty"`
	Departments   []string `json:"departments,omitempty"`
	CarModels     []string `json:"carModels,omitempty"`
	Statuses      []Status `json:"statuses,omitempty"`
	ShipFroms     []string `json:"shipFroms,omitempty"`
	Contacts      []string `json:"contacts,omitempty"`
	MaterialPreps []string `json:"materialPreps,omitempty"`

	PartNumber string `json:"partNumber,omitempty"`
	PartName   string `json:"partName,omitempty"`

	DueFrom     Date `json:"dueFrom"`
	DueTo       Date `json:"dueTo"`
	ShippedFrom Date `json:"shippedFrom"`
	ShippedTo   Date `json:"shippedTo"`
}

// Apply returns the matching records in their original order.
func (f Filter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether r passes every set criterion.
func (f Filter) Match(r Record) bool {
	switch f.Completion {
	case CompletionDone:
		if r.Shipped.IsZero() {
			return false
		}
	case CompletionOpen:
		if !r.Shipped.IsZero() {
			return false
		}
	}

	if f.Search != "" && !searchHit(r, f.Search) {
		return false
	}

	if !oneOf(f.Companies, r.Company) ||
		!oneOf(f.Departments, r.Department) ||
		!oneOf(f.CarModels, r.CarModel) ||
		!oneOf(f.ShipFroms, r.ShipFrom) ||
		!oneOf(f.Contacts, r.Contact) ||
		!oneOf(f.MaterialPreps, r.MaterialPrep) {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, DeriveStatus(r)) {
		return false
	}

	if !containsFold(r.PartNumber, f.PartNumber) || !containsFold(r.PartName, f.PartName) {
		return false
	}

	return inRange(r.DueDate, f.DueFrom, f.DueTo) && inRange(r.Shipped, f.ShippedFrom, f.ShippedTo)
}

func oneOf(set []string, v string) bool {
	return len(set) == 0 || slices.Contains(set, v)
}

func containsFold(s, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func inRange(d, from, to Date) bool {
	if from.IsZero() && to.IsZero() {
		return true
	}
	if d.IsZero() {
		return false
	}
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}

func searchHit(r Record, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	fields := []string{
		strconv.FormatInt(r.No, 10),
		r.Company, r.Department, r.Contact, r.CarModel,
		r.PartNumber, r.PartName, r.ShipFrom, r.Requirements,
		r.MaterialPrep, r.ShippingMethod, r.Remarks,
	}
	for _, v := range r.Extra {
		fields = append(fields, v)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
