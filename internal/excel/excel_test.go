package excel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sample() []ledger.Record {
	return []ledger.Record{
		{
			No: 1001, RequestDate: ledger.NewDate(2025, 3, 3), Company: "현대자동차",
			PartName: "브라켓", PartNumber: "BR-01", Quantity: 4, UnitPrice: 12500,
			DueDate: ledger.NewDate(2025, 3, 20), Status: ledger.StatusReceived,
			Extra: map[string]string{"연락처": "010-1234-5678"},
		},
		{
			No: 1002, Company: "기아", PartName: "커버", Quantity: 1,
			Shipped: ledger.NewDate(2025, 3, 5), Status: ledger.StatusShipped,
		},
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	c := DefaultCodec()
	header := ledger.HeaderFor(ledger.DefaultColumns, sample(), nil)

	data, err := c.Export(sample(), header)
	require.NoError(t, err)

	got, err := c.Import(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(1001), got[0].No)
	assert.Equal(t, "현대자동차", got[0].Company)
	assert.Equal(t, int64(4), got[0].Quantity)
	assert.InDelta(t, 12500, got[0].UnitPrice, 0.001)
	assert.True(t, got[0].RequestDate.Equal(ledger.NewDate(2025, 3, 3)))
	assert.Equal(t, "010-1234-5678", got[0].Extra["연락처"])
	assert.Equal(t, ledger.StatusShipped, got[1].Status)
	assert.True(t, got[1].Shipped.Equal(ledger.NewDate(2025, 3, 5)))
}

func TestExport_HeaderIsBold(t *testing.T) {
	data, err := DefaultCodec().Export(sample(), ledger.DefaultColumns)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(SheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, ledger.ColNo, v)

	id, err := f.GetCellStyle(SheetName, "B1")
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestTemplate_OmitsStatus(t *testing.T) {
	data, err := DefaultCodec().Template()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(ledger.DefaultColumns)-1)
	assert.NotContains(t, rows[0], ledger.ColStatus)
}

func TestImport_EnglishHeadersAndSerialDates(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow(SheetName, "A1", &[]any{"companyName", "partName", "quantity", "requestDate"}))
	require.NoError(t, f.SetSheetRow(SheetName, "A2", &[]any{"기아", "커버", 3, 45726}))
	require.NoError(t, f.SetSheetRow(SheetName, "A3", &[]any{"", nil, "", ""}))
	require.NoError(t, f.SetSheetRow(SheetName, "A4", &[]any{"현대", "휠", 1, "2025-03-11"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	got, err := DefaultCodec().Import(buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "기아", got[0].Company)
	assert.Equal(t, int64(3), got[0].Quantity)
	assert.Equal(t, "2025-03-10", got[0].RequestDate.String())
	assert.Equal(t, "2025-03-11", got[1].RequestDate.String())
}

func TestImport_NotAWorkbook(t *testing.T) {
	_, err := DefaultCodec().Import(strings.NewReader("no,company\n1,x\n"))
	assert.Error(t, err)
}

func TestImportCSV(t *testing.T) {
	in := "\ufeff업체명,품명,요청수량\n기아,커버,2\n,,\n"
	got, err := DefaultCodec().ImportCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "기아", got[0].Company)
	assert.Equal(t, int64(2), got[0].Quantity)
}

func TestExportCSV(t *testing.T) {
	data, err := DefaultCodec().ExportCSV(sample(), ledger.DefaultColumns)
	require.NoError(t, err)

	got, err := DefaultCodec().ImportCSV(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "기아", got[1].Company)
}

func TestSerialToDate(t *testing.T) {
	assert.Equal(t, "2025-03-10", serialToDate("45726"))
	assert.Equal(t, "2025-03-10", serialToDate("45726.75"))
	assert.Equal(t, "2025-03-10", serialToDate("2025-03-10"))
	assert.Equal(t, "", serialToDate(""))
	assert.Equal(t, "완료", serialToDate("완료"))
}
