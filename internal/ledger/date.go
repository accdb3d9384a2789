package ledger

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the plain calendar-day form used in sheets, exports and
// snapshots.
const DateLayout = "2006-01-02"

// Date is a calendar day without time or zone. The zero value means the
// date is absent.
type Date struct {
	t time.Time
}

// NewDate returns the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

var datePrefix = regexp.MustCompile(`^(\d{4})\s*[-./년]\s*(\d{1,2})\s*[-./월]\s*(\d{1,2})`)

// ParseDate reads the date forms that show up in sheets and form exports:
// 2024-12-01, 2024.12.01, 2024/12/01, "2024. 12. 1 오후 3:04:05",
// "2024-12-01 15:04:05", RFC 3339 and 2024년 12월 1일. Anything absent or
// unreadable yields the zero Date.
func ParseDate(s string) Date {
	if IsAbsent(s) {
		return Date{}
	}
	m := datePrefix.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Date{}
	}
	y, _ := strconv.Atoi(m[1])
	mon, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if mon < 1 || mon > 12 || day < 1 || day > 31 {
		return Date{}
	}

	d := NewDate(y, time.Month(mon), day)
	// time.Date normalizes Feb 30 into March; reject instead.
	if d.t.Day() != day {
		return Date{}
	}
	return d
}

func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

func (d Date) After(o Date) bool { return d.t.After(o.t) }

// AddDays returns the day n days later; a zero Date stays zero.
func (d Date) AddDays(n int) Date {
	if d.IsZero() {
		return d
	}
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		// Non-string values are treated as absent.
		*d = Date{}
		return nil
	}
	if s == nil {
		*d = Date{}
		return nil
	}
	*d = ParseDate(*s)
	return nil
}
