package sheets

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/sampleledger/internal/ledger"
)

// HeaderTokens are the column names that identify the sample worksheet
// when no worksheet name is configured or the configured one is missing.
var HeaderTokens = []string{ledger.ColNo, ledger.ColCompany, ledger.ColPartName}

// ProbeFunc returns the first row of the named worksheet.
type ProbeFunc func(ctx context.Context, title string) ([]string, error)

// SelectWorksheet picks the worksheet to use: the configured one when it
// exists, else the first whose header row contains every HeaderTokens
// entry, else the first worksheet. Probe errors only disqualify that
// worksheet.
func SelectWorksheet(ctx context.Context, titles []string, configured string, probe ProbeFunc) (string, error) {
	if len(titles) == 0 {
		return "", ErrNoWorksheet
	}
	if configured != "" {
		for _, t := range titles {
			if t == configured {
				return t, nil
			}
		}
	}
	if probe != nil {
		for _, t := range titles {
			header, err := probe(ctx, t)
			if err != nil {
				continue
			}
			if hasTokens(header) {
				return t, nil
			}
		}
	}
	return titles[0], nil
}

func hasTokens(header []string) bool {
	seen := make(map[string]struct{}, len(header))
	for _, h := range header {
		seen[strings.TrimSpace(h)] = struct{}{}
	}
	for _, tok := range HeaderTokens {
		if _, ok := seen[tok]; !ok {
			return false
		}
	}
	return true
}
