package sheets

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/dmitrijs2005/sampleledger/internal/logging"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Config locates the spreadsheet and the service-account key.
type Config struct {
	SpreadsheetID   string
	Worksheet       string
	CredentialsFile string
	CredentialsJSON string
	// Endpoint overrides the API base URL; used against emulators.
	Endpoint string
}

// api is the slice of the Sheets service the adapter needs.
type api interface {
	titles(ctx context.Context) ([]string, error)
	get(ctx context.Context, rng string) ([][]any, error)
	clear(ctx context.Context, rng string) error
	update(ctx context.Context, rng string, values [][]any) error
}

type serviceAPI struct {
	svc *sheetsapi.Service
	id  string
}

func (s serviceAPI) titles(ctx context.Context) ([]string, error) {
	ss, err := s.svc.Spreadsheets.Get(s.id).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			out = append(out, sh.Properties.Title)
		}
	}
	return out, nil
}

func (s serviceAPI) get(ctx context.Context, rng string) ([][]any, error) {
	vr, err := s.svc.Spreadsheets.Values.Get(s.id, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return vr.Values, nil
}

func (s serviceAPI) clear(ctx context.Context, rng string) error {
	_, err := s.svc.Spreadsheets.Values.Clear(s.id, rng, &sheetsapi.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (s serviceAPI) update(ctx context.Context, rng string, values [][]any) error {
	_, err := s.svc.Spreadsheets.Values.Update(s.id, rng, &sheetsapi.ValueRange{Values: values}).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// GoogleSheet is a ledger.Remote over one worksheet of a spreadsheet.
type GoogleSheet struct {
	api       api
	worksheet string
	logger    logging.Logger

	mu       sync.Mutex
	resolved string
}

// NewGoogleSheet builds the Sheets client from the service-account key.
func NewGoogleSheet(ctx context.Context, cfg Config, logger logging.Logger) (*GoogleSheet, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	var opts []option.ClientOption
	key := []byte(cfg.CredentialsJSON)
	if len(key) == 0 && cfg.CredentialsFile != "" {
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		key = b
	}
	switch {
	case len(key) > 0:
		creds, err := google.CredentialsFromJSON(ctx, key, sheetsapi.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("parse credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	case cfg.Endpoint != "":
		opts = append(opts, option.WithoutAuthentication())
	default:
		return nil, fmt.Errorf("no credentials configured")
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newGoogleSheet(serviceAPI{svc: svc, id: cfg.SpreadsheetID}, cfg.Worksheet, logger), nil
}

func newGoogleSheet(a api, worksheet string, logger logging.Logger) *GoogleSheet {
	if logger == nil {
		logger = logging.Nop()
	}
	return &GoogleSheet{api: a, worksheet: worksheet, logger: logger.With("module", "sheets")}
}

// Worksheet returns the worksheet title chosen by the last fetch or write.
func (g *GoogleSheet) Worksheet() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolved
}

func (g *GoogleSheet) resolve(ctx context.Context) (string, error) {
	titles, err := g.api.titles(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: list worksheets: %w", ErrUnavailable, err)
	}
	probe := func(ctx context.Context, title string) ([]string, error) {
		vals, err := g.api.get(ctx, quoteTitle(title)+"!1:1")
		if err != nil {
			return nil, err
		}
		if len(vals) == 0 {
			return nil, nil
		}
		return cells(vals[0]), nil
	}
	title, err := SelectWorksheet(ctx, titles, g.worksheet, probe)
	if err != nil {
		return "", err
	}

	g.mu.Lock()
	if g.resolved != title {
		g.logger.Info(ctx, "worksheet selected", "title", title, "configured", g.worksheet)
	}
	g.resolved = title
	g.mu.Unlock()
	return title, nil
}

// FetchTable reads every value of the worksheet. The first row is the
// header.
func (g *GoogleSheet) FetchTable(ctx context.Context) (ledger.Table, error) {
	title, err := g.resolve(ctx)
	if err != nil {
		return ledger.Table{}, err
	}
	vals, err := g.api.get(ctx, quoteTitle(title))
	if err != nil {
		return ledger.Table{}, fmt.Errorf("%w: read %s: %w", ErrUnavailable, title, err)
	}
	if len(vals) == 0 {
		return ledger.Table{}, nil
	}

	t := ledger.Table{Header: cells(vals[0]), Rows: make([][]string, 0, len(vals)-1)}
	for _, v := range vals[1:] {
		t.Rows = append(t.Rows, cells(v))
	}
	g.logger.Debug(ctx, "sheet fetched", "title", title, "rows", len(t.Rows))
	return t, nil
}

// WriteTable replaces the worksheet contents with t.
func (g *GoogleSheet) WriteTable(ctx context.Context, t ledger.Table) error {
	title, err := g.resolve(ctx)
	if err != nil {
		return err
	}
	if err := g.api.clear(ctx, quoteTitle(title)); err != nil {
		return fmt.Errorf("%w: clear %s: %w", ErrUnavailable, title, err)
	}

	values := make([][]any, 0, len(t.Rows)+1)
	values = append(values, anyRow(t.Header))
	for _, r := range t.Rows {
		values = append(values, anyRow(r))
	}
	if err := g.api.update(ctx, quoteTitle(title)+"!A1", values); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrUnavailable, title, err)
	}
	g.logger.Debug(ctx, "sheet written", "title", title, "rows", len(t.Rows))
	return nil
}

// quoteTitle renders a worksheet title for A1 notation.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func cells(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch x := v.(type) {
		case nil:
		case string:
			out[i] = x
		case float64:
			out[i] = ledger.FormatAmount(x)
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}

func anyRow(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
