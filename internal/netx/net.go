// Package netx holds plain HTTP helpers for the command-line client.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Download GETs url and copies the body to w. A non-empty token is sent as
// a bearer Authorization header. Any status other than 200 is an error that
// quotes the start of the response body.
func Download(ctx context.Context, client *http.Client, url, token string, w io.Writer) (int64, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}
	return io.Copy(w, resp.Body)
}
