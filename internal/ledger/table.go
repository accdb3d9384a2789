package ledger

import (
	"slices"
	"sort"
)

// Table is the interchange shape shared by the remote sheet, Excel files
// and CSV uploads: a header row plus string cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the table carries no data rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// DecodeTable turns every row into a Record. Status labels are read with
// vocab; all other cells go through Record.SetValue. Rows shorter than the
// header are treated as padded with blanks.
func DecodeTable(t Table, vocab Vocabulary) []Record {
	out := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, DecodeRow(t.Header, row, vocab))
	}
	return out
}

// DecodeRow decodes a single row against header.
func DecodeRow(header, row []string, vocab Vocabulary) Record {
	var r Record
	for i, col := range header {
		v := ""
		if i < len(row) {
			v = row[i]
		}
		if col == ColStatus {
			if s, ok := vocab.Parse(v); ok {
				r.Status = s
			}
			continue
		}
		if _, known := canonicalSet[col]; !known && CleanText(v) == "" {
			continue
		}
		r.SetValue(col, v)
	}
	return r
}

// EncodeTable renders records under header. The status column carries
// vocab labels.
func EncodeTable(records []Record, header []string, vocab Vocabulary) Table {
	t := Table{Header: slices.Clone(header), Rows: make([][]string, 0, len(records))}
	for _, r := range records {
		row := make([]string, len(header))
		for i, col := range header {
			if col == ColStatus {
				row[i] = vocab.Label(r.Status)
				continue
			}
			row[i] = r.Value(col)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// HeaderFor returns the canonical columns followed by every extra column
// found in records. Extras listed in known keep that order; the rest are
// sorted.
func HeaderFor(columns []string, records []Record, known []string) []string {
	header := slices.Clone(columns)
	seen := make(map[string]struct{}, len(header))
	for _, c := range header {
		seen[c] = struct{}{}
	}

	for _, c := range known {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		header = append(header, c)
	}

	var rest []string
	for _, r := range records {
		for k := range r.Extra {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)

	return append(header, rest...)
}

var canonicalSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(DefaultColumns))
	for _, c := range DefaultColumns {
		m[c] = struct{}{}
	}
	return m
}()
