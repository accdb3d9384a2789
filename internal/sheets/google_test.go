package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGoogleSheet_AgainstEmulator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(r.URL.Path, "/values/"):
			_, _ = w.Write([]byte(`{"range":"Sheet1!A1:B2","values":[["NO","업체명","품명"],["7","A","X"]]}`))
		case strings.HasSuffix(r.URL.Path, "/v4/spreadsheets/sheet-id"):
			_, _ = w.Write([]byte(`{"sheets":[{"properties":{"title":"Sheet1"}}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	g, err := NewGoogleSheet(context.Background(), Config{SpreadsheetID: "sheet-id", Endpoint: srv.URL + "/"}, nil)
	require.NoError(t, err)

	tbl, err := g.FetchTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", g.Worksheet())
	assert.Equal(t, [][]string{{"7", "A", "X"}}, tbl.Rows)
}

func TestNewGoogleSheet_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewGoogleSheet(ctx, Config{}, nil)
	assert.Error(t, err)

	_, err = NewGoogleSheet(ctx, Config{SpreadsheetID: "x"}, nil)
	assert.ErrorContains(t, err, "no credentials")

	_, err = NewGoogleSheet(ctx, Config{SpreadsheetID: "x", CredentialsJSON: "{"}, nil)
	assert.ErrorContains(t, err, "parse credentials")

	_, err = NewGoogleSheet(ctx, Config{SpreadsheetID: "x", CredentialsFile: "/does/not/exist.json"}, nil)
	assert.ErrorContains(t, err, "read credentials")
}
