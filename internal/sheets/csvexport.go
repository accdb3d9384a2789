package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/sampleledger/internal/csvx"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/dmitrijs2005/sampleledger/internal/logging"
)

// ExportURL returns the public CSV export link of a spreadsheet.
func ExportURL(spreadsheetID string) string {
	return "https://docs.google.com/spreadsheets/d/" + spreadsheetID + "/export?format=csv"
}

// CSVExport reads a spreadsheet through its CSV export link. It only works
// when the sheet is shared with "anyone with the link".
type CSVExport struct {
	URL    string
	Client *http.Client
	Logger logging.Logger
}

// NewCSVExport returns a reader for url with a 10 second timeout.
func NewCSVExport(url string, logger logging.Logger) *CSVExport {
	if logger == nil {
		logger = logging.Nop()
	}
	return &CSVExport{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
		Logger: logger.With("module", "sheets-csv"),
	}
}

func (c *CSVExport) FetchTable(ctx context.Context) (ledger.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return ledger.Table{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return ledger.Table{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ledger.Table{}, fmt.Errorf("%w: csv export returned %s; share the sheet with anyone who has the link",
			ErrUnavailable, resp.Status)
	case resp.StatusCode != http.StatusOK:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ledger.Table{}, fmt.Errorf("%w: csv export returned %s: %s", ErrUnavailable, resp.Status, b)
	}

	t, skipped, err := csvx.ReadTable(resp.Body)
	if err != nil {
		return ledger.Table{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if skipped > 0 {
		c.Logger.Warn(ctx, "skipped malformed csv rows", "count", skipped)
	}
	return t, nil
}

func (c *CSVExport) WriteTable(context.Context, ledger.Table) error {
	return ErrReadOnly
}
