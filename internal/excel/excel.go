// Package excel converts the sample table to and from .xlsx workbooks and
// CSV uploads.
package excel

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/sampleledger/internal/csvx"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"

	// SheetName is the worksheet written by Export and Template.
	SheetName = "Sheet1"

	// FirstDataRow is the 1-based line of the first data row in an upload,
	// used to point import messages at the right line.
	FirstDataRow = 2
)

// Codec carries the column and status vocabulary used for files.
type Codec struct {
	Stabilizer ledger.Stabilizer
	Vocabulary ledger.Vocabulary
}

// DefaultCodec uses the default stabilizer (which knows the English
// template headers) and the default status labels.
func DefaultCodec() Codec {
	return Codec{Stabilizer: ledger.DefaultStabilizer(), Vocabulary: ledger.DefaultVocabulary()}
}

// Export writes records under header into a single-sheet workbook. Numbers
// stay numeric; dates are written as 2006-01-02 text so they survive any
// locale.
func (c Codec) Export(records []ledger.Record, header []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeHeader(f, header); err != nil {
		return nil, err
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+FirstDataRow)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, c.rowValues(r, header)); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r.No, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportCSV writes the same table as UTF-8 CSV.
func (c Codec) ExportCSV(records []ledger.Record, header []string) ([]byte, error) {
	var buf bytes.Buffer
	if err := csvx.WriteTable(&buf, ledger.EncodeTable(records, header, c.Vocabulary)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Template returns an empty workbook with the upload header. The status
// column is left out since it is always derived.
func (c Codec) Template() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]string, 0, len(ledger.DefaultColumns))
	for _, col := range ledger.DefaultColumns {
		if col != ledger.ColStatus {
			header = append(header, col)
		}
	}
	if err := writeHeader(f, header); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, header []string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &cells); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
			return fmt.Errorf("header style: %w", err)
		}
	}
	return nil
}

func (c Codec) rowValues(r ledger.Record, header []string) *[]any {
	out := make([]any, len(header))
	for i, col := range header {
		switch col {
		case ledger.ColNo:
			out[i] = r.No
		case ledger.ColQuantity:
			out[i] = r.Quantity
		case ledger.ColUnitPrice:
			out[i] = r.UnitPrice
		case ledger.ColTotalPrice:
			out[i] = r.TotalPrice
		case ledger.ColStatus:
			out[i] = c.Vocabulary.Label(r.Status)
		default:
			out[i] = r.Value(col)
		}
	}
	return &out
}

// Import reads the first worksheet of an .xlsx upload. Headers may be the
// Korean sheet names or the English template names. Date cells stored as
// Excel serial numbers are converted.
func (c Codec) Import(r io.Reader) ([]ledger.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	t := ledger.Table{Header: rows[0]}
	for _, row := range rows[1:] {
		if !blank(row) {
			t.Rows = append(t.Rows, row)
		}
	}
	return c.decode(t, true), nil
}

// ImportCSV reads a CSV upload in UTF-8 or EUC-KR.
func (c Codec) ImportCSV(r io.Reader) ([]ledger.Record, error) {
	t, _, err := csvx.ReadTable(r)
	if err != nil {
		return nil, err
	}
	if len(t.Header) == 0 {
		return nil, nil
	}
	return c.decode(t, false), nil
}

func (c Codec) decode(t ledger.Table, serialDates bool) []ledger.Record {
	t = c.Stabilizer.Stabilize(t)
	if serialDates {
		convertSerialDates(t)
	}
	return ledger.DecodeTable(t, c.Vocabulary)
}

func convertSerialDates(t ledger.Table) {
	idx := make([]int, 0, len(ledger.DateColumns))
	for i, h := range t.Header {
		for _, dc := range ledger.DateColumns {
			if h == dc {
				idx = append(idx, i)
			}
		}
	}
	for _, row := range t.Rows {
		for _, i := range idx {
			if i >= len(row) {
				continue
			}
			row[i] = serialToDate(row[i])
		}
	}
}

// serialToDate turns an Excel date serial ("45627" or "45627.5") into
// 2006-01-02. Anything else is returned unchanged.
func serialToDate(v string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || serial < 1 {
		return v
	}
	tm, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return tm.Format(ledger.DateLayout)
}

func blank(row []string) bool {
	for _, c := range row {
		if !ledger.IsAbsent(c) {
			return false
		}
	}
	return true
}
