package httpapi

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/gin-gonic/gin"
)

// parseFilter reads a ledger.Filter from the query string. List parameters
// may repeat or carry comma-separated values; statuses accept codes or
// labels.
func parseFilter(c *gin.Context, vocab ledger.Vocabulary) (ledger.Filter, error) {
	f := ledger.Filter{
		Search:        c.Query("search"),
		Companies:     queryList(c, "company"),
		Departments:   queryList(c, "department"),
		CarModels:     queryList(c, "carModel"),
		ShipFroms:     queryList(c, "shipFrom"),
		Contacts:      queryList(c, "contact"),
		MaterialPreps: queryList(c, "materialPrep"),
		PartNumber:    c.Query("partNumber"),
		PartName:      c.Query("partName"),
	}

	switch ledger.Completion(c.Query("completion")) {
	case ledger.CompletionAll, "all":
	case ledger.CompletionDone:
		f.Completion = ledger.CompletionDone
	case ledger.CompletionOpen:
		f.Completion = ledger.CompletionOpen
	default:
		return f, fmt.Errorf("completion must be all, done or open")
	}

	for _, s := range queryList(c, "status") {
		st, ok := vocab.Parse(s)
		if !ok {
			return f, fmt.Errorf("unknown status %q", s)
		}
		f.Statuses = append(f.Statuses, st)
	}

	dates := []struct {
		name string
		dst  *ledger.Date
	}{
		{"dueFrom", &f.DueFrom},
		{"dueTo", &f.DueTo},
		{"shippedFrom", &f.ShippedFrom},
		{"shippedTo", &f.ShippedTo},
	}
	for _, d := range dates {
		v := strings.TrimSpace(c.Query(d.name))
		if v == "" {
			continue
		}
		*d.dst = ledger.ParseDate(v)
		if d.dst.IsZero() {
			return f, fmt.Errorf("%s: invalid date %q", d.name, v)
		}
	}
	return f, nil
}

func queryList(c *gin.Context, name string) []string {
	var out []string
	for _, v := range c.QueryArray(name) {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
