package ledger

import "strings"

// Status is a record's workflow stage.
type Status string

const (
	StatusReceived     Status = "RECEIVED"
	StatusMaterialPrep Status = "MATERIAL_PREP"
	StatusInProduction Status = "IN_PRODUCTION"
	StatusShipped      Status = "SHIPPED"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusReceived, StatusMaterialPrep, StatusInProduction, StatusShipped}

// DeriveStatus computes a record's status from its milestone fields. The
// first match wins: shipped, sample completed, material prepared. Anything
// else is RECEIVED, whether or not the intake date is set.
func DeriveStatus(r Record) Status {
	switch {
	case !r.Shipped.IsZero():
		return StatusShipped
	case !r.SampleCompleted.IsZero():
		return StatusInProduction
	case !IsAbsent(r.MaterialPrep):
		return StatusMaterialPrep
	default:
		return StatusReceived
	}
}

// Vocabulary maps status codes to the labels shown in sheets and exports,
// and names the text written into MaterialPrep when a record is moved to
// MATERIAL_PREP by hand.
type Vocabulary struct {
	Labels         map[Status]string
	MaterialMarker string
}

// DefaultVocabulary returns the Korean labels used by the sample sheet.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Labels: map[Status]string{
			StatusReceived:     "접수",
			StatusMaterialPrep: "자재준비중",
			StatusInProduction: "생산중",
			StatusShipped:      "출하완료",
		},
		MaterialMarker: "진행중",
	}
}

// Label returns the display label for s, falling back to the code.
func (v Vocabulary) Label(s Status) string {
	if l, ok := v.Labels[s]; ok && l != "" {
		return l
	}
	return string(s)
}

// Parse accepts either a label or a status code (any case).
func (v Vocabulary) Parse(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for code, label := range v.Labels {
		if label == s {
			return code, true
		}
	}
	for _, code := range Statuses {
		if strings.EqualFold(string(code), s) {
			return code, true
		}
	}
	return "", false
}

// Marker returns the material-prep marker, defaulting to "진행중".
func (v Vocabulary) Marker() string {
	if v.MaterialMarker == "" {
		return "진행중"
	}
	return v.MaterialMarker
}

// backfill fills the milestone that status s stands for when it is absent.
// With force, SHIPPED overwrites an existing ship date.
func backfill(r *Record, s Status, today Date, marker string, force bool) {
	switch s {
	case StatusShipped:
		if force || r.Shipped.IsZero() {
			r.Shipped = today
		}
	case StatusInProduction:
		if r.SampleCompleted.IsZero() {
			r.SampleCompleted = today
		}
	case StatusMaterialPrep:
		if IsAbsent(r.MaterialPrep) {
			r.MaterialPrep = marker
		}
	}
}
