package ledger

// Summary holds the dashboard figures for a table.
type Summary struct {
	Total          int            `json:"total"`
	Quantity       int64          `json:"quantity"`
	Completed      int            `json:"completed"`
	Delayed        int            `json:"delayed"`
	CompletionRate int            `json:"completionRate"`
	ByStatus       map[Status]int `json:"byStatus"`
}

// IsDelayed reports whether r is past due and not shipped.
func IsDelayed(r Record, today Date) bool {
	return r.Shipped.IsZero() && !r.DueDate.IsZero() && r.DueDate.Before(today)
}

// CountDelayed counts the delayed records.
func CountDelayed(records []Record, today Date) int {
	n := 0
	for _, r := range records {
		if IsDelayed(r, today) {
			n++
		}
	}
	return n
}

// Summarize computes the dashboard figures. The completion rate is an
// integer percentage rounded down.
func Summarize(records []Record, today Date) Summary {
	s := Summary{
		Total:    len(records),
		ByStatus: make(map[Status]int, len(Statuses)),
	}
	for _, st := range Statuses {
		s.ByStatus[st] = 0
	}
	for _, r := range records {
		s.Quantity += r.Quantity
		if !r.Shipped.IsZero() {
			s.Completed++
		}
		if IsDelayed(r, today) {
			s.Delayed++
		}
		s.ByStatus[DeriveStatus(r)]++
	}
	if s.Total > 0 {
		s.CompletionRate = s.Completed * 100 / s.Total
	}
	return s
}
