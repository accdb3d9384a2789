package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/spf13/cobra"
)

type listFlags struct {
	search     string
	completion string
	companies  []string
	statuses   []string
	dueFrom    string
	dueTo      string
}

func (f listFlags) filter(vocab ledger.Vocabulary) (ledger.Filter, error) {
	out := ledger.Filter{Search: f.search, Companies: f.companies}

	switch c := ledger.Completion(f.completion); c {
	case ledger.CompletionAll, ledger.CompletionDone, ledger.CompletionOpen:
		out.Completion = c
	default:
		return out, fmt.Errorf("unknown completion %q (want done or open)", f.completion)
	}

	for _, s := range f.statuses {
		st, ok := vocab.Parse(s)
		if !ok {
			return out, fmt.Errorf("unknown status %q", s)
		}
		out.Statuses = append(out.Statuses, st)
	}

	var err error
	if out.DueFrom, err = flagDate("due-from", f.dueFrom); err != nil {
		return out, err
	}
	if out.DueTo, err = flagDate("due-to", f.dueTo); err != nil {
		return out, err
	}
	return out, nil
}

func flagDate(name, v string) (ledger.Date, error) {
	if v == "" {
		return ledger.Date{}, nil
	}
	d := ledger.ParseDate(v)
	if d.IsZero() {
		return d, fmt.Errorf("--%s: %q is not a date", name, v)
	}
	return d, nil
}

func (a *App) listCmd() *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the records you can see",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vocab := ledger.DefaultVocabulary()
			f, err := lf.filter(vocab)
			if err != nil {
				return err
			}

			c, err := a.connect()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := a.withTimeout(cmd)
			defer cancel()

			records, err := c.ListRecords(ctx, f)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintln(a.out, recordTable(records, vocab))
			fmt.Fprintf(a.out, "%d record(s)\n", len(records))
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&lf.search, "search", "s", "", "free-text search")
	fl.StringVar(&lf.completion, "completion", "", "done or open")
	fl.StringSliceVar(&lf.companies, "company", nil, "company name, repeatable")
	fl.StringSliceVar(&lf.statuses, "status", nil, "status code or label, repeatable")
	fl.StringVar(&lf.dueFrom, "due-from", "", "earliest due date YYYY-MM-DD")
	fl.StringVar(&lf.dueTo, "due-to", "", "latest due date YYYY-MM-DD")
	return cmd
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func recordTable(records []ledger.Record, vocab ledger.Vocabulary) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.FormatInt(r.No, 10),
			r.Company,
			r.PartNumber,
			r.PartName,
			strconv.FormatInt(r.Quantity, 10),
			r.DueDate.String(),
			r.Shipped.String(),
			vocab.Label(r.Status),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(ledger.ColNo, ledger.ColCompany, ledger.ColPartNumber, ledger.ColPartName,
			ledger.ColQuantity, ledger.ColDueDate, ledger.ColShipped, ledger.ColStatus).
		Rows(rows...)
	return t.String()
}

func (a *App) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show dashboard figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := a.withTimeout(cmd)
			defer cancel()

			s, err := c.Summary(ctx)
			if err != nil {
				return explain(err)
			}

			vocab := ledger.DefaultVocabulary()
			fmt.Fprintf(a.out, "Total:      %d\n", s.Total)
			fmt.Fprintf(a.out, "Quantity:   %d\n", s.Quantity)
			fmt.Fprintf(a.out, "Completed:  %d (%d%%)\n", s.Completed, s.CompletionRate)
			fmt.Fprintf(a.out, "Delayed:    %d\n", s.Delayed)
			for _, st := range ledger.Statuses {
				fmt.Fprintf(a.out, "  %-10s %d\n", vocab.Label(st), s.ByStatus[st])
			}
			return nil
		},
	}
}

func parseNos(args []string) ([]int64, error) {
	nos := make([]int64, 0, len(args))
	for _, s := range args {
		no, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a record number", s)
		}
		nos = append(nos, no)
	}
	return nos, nil
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <no>...",
		Short: "Move records to the trash (admin)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nos, err := parseNos(args)
			if err != nil {
				return err
			}

			c, err := a.connect()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := a.withTimeout(cmd)
			defer cancel()

			out, err := c.DeleteRecords(ctx, nos)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(a.out, "Moved %d record(s) to the trash\n", len(out.Deleted))
			if out.Warning != "" {
				fmt.Fprintf(a.out, "warning: %s\n", out.Warning)
			}
			return nil
		},
	}
}

func (a *App) restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <no>",
		Short: "Bring a record back from the trash (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nos, err := parseNos(args)
			if err != nil {
				return err
			}

			c, err := a.connect()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := a.withTimeout(cmd)
			defer cancel()

			out, err := c.RestoreRecord(ctx, nos[0])
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(a.out, "Restored %d (%s)\n", out.Record.No, out.Record.Company)
			if out.Warning != "" {
				fmt.Fprintf(a.out, "warning: %s\n", out.Warning)
			}
			return nil
		},
	}
}
