package ledger

import (
	"strconv"
	"strings"
)

var absentLiterals = map[string]struct{}{
	"":     {},
	"nan":  {},
	"none": {},
	"null": {},
	"nat":  {},
	"n/a":  {},
}

// IsAbsent reports whether a raw cell value means "no value". Empty
// strings and the literals nan, none, null, nat and n/a (any case) all
// count as absent.
func IsAbsent(s string) bool {
	_, ok := absentLiterals[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// CleanText trims s and maps absent literals to "".
func CleanText(s string) string {
	if IsAbsent(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

func numericOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '-' || r == '.' {
			return r
		}
		return -1
	}, s)
}

// ParseAmount coerces a cell to a number by dropping every character other
// than digits, '-' and '.'; unreadable input is 0.
func ParseAmount(s string) float64 {
	if IsAbsent(s) {
		return 0
	}
	v, err := strconv.ParseFloat(numericOnly(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseInt is ParseAmount truncated toward zero.
func ParseInt(s string) int64 {
	return int64(ParseAmount(s))
}

// FormatAmount renders v without trailing zeros ("0", "1500", "12.5").
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
