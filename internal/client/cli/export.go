package cli

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/dmitrijs2005/sampleledger/internal/netx"
	"github.com/spf13/cobra"
)

func (a *App) exportCmd() *cobra.Command {
	var format, output, search string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the visible records as xlsx or csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(format)
			if format != "xlsx" && format != "csv" {
				return fmt.Errorf("unknown format %q (want xlsx or csv)", format)
			}
			token, err := readToken(a.config.TokenFile)
			if err != nil {
				return err
			}
			if token == "" {
				return errors.New("not logged in (run 'ledgerctl login')")
			}

			q := url.Values{"format": {format}}
			if search != "" {
				q.Set("search", search)
			}
			target := strings.TrimRight(a.config.HTTPBase, "/") + "/api/export?" + q.Encode()

			if output == "" {
				output = "samples." + format
			}
			var w io.Writer = a.out
			if output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			ctx, cancel := a.withTimeout(cmd)
			defer cancel()

			n, err := netx.Download(ctx, a.http, target, token, w)
			if err != nil {
				return err
			}
			if output != "-" {
				fmt.Fprintf(a.out, "Wrote %d bytes to %s\n", n, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "xlsx", "xlsx or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout`)
	cmd.Flags().StringVarP(&search, "search", "s", "", "free-text search")
	return cmd
}
