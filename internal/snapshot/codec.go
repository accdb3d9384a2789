package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/sampleledger/internal/ledger"
)

// deletedAtKey is the trash-only field carrying the deletion time.
const deletedAtKey = "deletedAt"

// keyAliases accepts the alternate row keys older snapshot files used.
var keyAliases = map[string]string{
	"no": ledger.ColNo,
	"id": ledger.ColNo,
}

// row is one JSON object with a fixed key order.
type row struct {
	keys []string
	vals []any
}

func (r *row) add(k string, v any) {
	r.keys = append(r.keys, k)
	r.vals = append(r.vals, v)
}

func (r row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.vals[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Codec converts records to and from the row-object layout.
type Codec struct {
	Vocabulary ledger.Vocabulary
	// Location is used to format and parse trash deletion times.
	Location *time.Location
}

// DefaultCodec uses the default vocabulary and the local time zone.
func DefaultCodec() Codec {
	return Codec{Vocabulary: ledger.DefaultVocabulary(), Location: time.Local}
}

func (c Codec) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c Codec) encode(r ledger.Record, header []string) row {
	var out row
	for _, col := range header {
		switch col {
		case ledger.ColNo:
			out.add(col, r.No)
		case ledger.ColQuantity:
			out.add(col, r.Quantity)
		case ledger.ColUnitPrice:
			out.add(col, r.UnitPrice)
		case ledger.ColTotalPrice:
			out.add(col, r.TotalPrice)
		case ledger.ColStatus:
			out.add(col, c.Vocabulary.Label(r.Status))
		default:
			if _, extra := r.Extra[col]; !extra && !isCanonical(col) {
				continue
			}
			out.add(col, r.Value(col))
		}
	}
	return out
}

func (c Codec) encodeTrash(t ledger.TrashEntry, header []string) row {
	out := c.encode(t.Record, header)
	out.add(deletedAtKey, t.DeletedAt.In(c.loc()).Format(ledger.DeletedAtLayout))
	return out
}

func (c Codec) decode(fields map[string]any) ledger.Record {
	var r ledger.Record
	for k, v := range fields {
		if k == deletedAtKey {
			continue
		}
		col := k
		if a, ok := keyAliases[strings.ToLower(k)]; ok && !isCanonical(k) {
			col = a
		} else if a, ok := ledger.EnglishAliases[k]; ok {
			col = a
		}
		s := cellString(v)
		if col == ledger.ColStatus {
			if st, ok := c.Vocabulary.Parse(s); ok {
				r.Status = st
			}
			continue
		}
		if !isCanonical(col) && ledger.CleanText(s) == "" {
			continue
		}
		r.SetValue(col, s)
	}
	return r
}

func (c Codec) decodeTrash(fields map[string]any) ledger.TrashEntry {
	t := ledger.TrashEntry{Record: c.decode(fields)}
	if s := cellString(fields[deletedAtKey]); s != "" {
		t.DeletedAt = c.parseDeletedAt(s)
	}
	return t
}

func (c Codec) parseDeletedAt(s string) time.Time {
	if t, err := time.ParseInLocation(ledger.DeletedAtLayout, s, c.loc()); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return time.Time{}
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return ledger.FormatAmount(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func isCanonical(col string) bool {
	for _, c := range ledger.DefaultColumns {
		if c == col {
			return true
		}
	}
	return false
}

// MarshalRecords renders records as a JSON array of row objects.
func (c Codec) MarshalRecords(records []ledger.Record) ([]byte, error) {
	header := ledger.HeaderFor(ledger.DefaultColumns, records, nil)
	rows := make([]row, 0, len(records))
	for _, r := range records {
		rows = append(rows, c.encode(r, header))
	}
	return json.MarshalIndent(rows, "", "  ")
}

// UnmarshalRecords parses a JSON array of row objects.
func (c Codec) UnmarshalRecords(b []byte) ([]ledger.Record, error) {
	objs, err := decodeObjects(b)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Record, 0, len(objs))
	for _, o := range objs {
		out = append(out, c.decode(o))
	}
	return out, nil
}

// MarshalTrash renders trash entries as a JSON array of row objects with a
// deletedAt field.
func (c Codec) MarshalTrash(trash []ledger.TrashEntry) ([]byte, error) {
	records := make([]ledger.Record, len(trash))
	for i, t := range trash {
		records[i] = t.Record
	}
	header := ledger.HeaderFor(ledger.DefaultColumns, records, nil)
	rows := make([]row, 0, len(trash))
	for _, t := range trash {
		rows = append(rows, c.encodeTrash(t, header))
	}
	return json.MarshalIndent(rows, "", "  ")
}

// UnmarshalTrash parses a JSON array of trash row objects. Entries without
// a usable NO cannot suppress anything and are dropped.
func (c Codec) UnmarshalTrash(b []byte) ([]ledger.TrashEntry, error) {
	objs, err := decodeObjects(b)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.TrashEntry, 0, len(objs))
	for _, o := range objs {
		t := c.decodeTrash(o)
		if t.No <= 0 {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (c Codec) marshalOne(r ledger.Record) ([]byte, error) {
	return json.Marshal(c.encode(r, ledger.HeaderFor(ledger.DefaultColumns, []ledger.Record{r}, nil)))
}

func (c Codec) unmarshalOne(b []byte) (ledger.Record, error) {
	var o map[string]any
	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()
	if err := d.Decode(&o); err != nil {
		return ledger.Record{}, err
	}
	return c.decode(o), nil
}

func decodeObjects(b []byte) ([]map[string]any, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}
	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()
	var objs []map[string]any
	if err := d.Decode(&objs); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return objs, nil
}
