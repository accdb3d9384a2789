// Package csvx reads and writes ledger tables as CSV. Input may be UTF-8
// (with or without a BOM) or EUC-KR, which is what Excel on Korean Windows
// produces by default.
package csvx

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode returns r's content as UTF-8, converting from EUC-KR when the
// input is not valid UTF-8.
func Decode(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimPrefix(b, utf8BOM)
	if utf8.Valid(b) {
		return b, nil
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(b), korean.EUCKR.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("decode euc-kr: %w", err)
	}
	return out, nil
}

// ReadTable parses a CSV document whose first row is the header. Rows that
// fail to parse are skipped; rows with every cell blank are dropped.
// skipped reports how many malformed rows were left out.
func ReadTable(r io.Reader) (t ledger.Table, skipped int, err error) {
	b, err := Decode(r)
	if err != nil {
		return ledger.Table{}, 0, err
	}

	cr := csv.NewReader(bytes.NewReader(b))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			skipped++
			continue
		}
		if err != nil {
			return ledger.Table{}, skipped, fmt.Errorf("read csv: %w", err)
		}
		if first {
			t.Header = rec
			first = false
			continue
		}
		if blankRow(rec) {
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, skipped, nil
}

// WriteTable writes t as UTF-8 CSV with a BOM so Excel detects the
// encoding.
func WriteTable(w io.Writer, t ledger.Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

func blankRow(row []string) bool {
	for _, c := range row {
		if !ledger.IsAbsent(c) {
			return false
		}
	}
	return true
}
