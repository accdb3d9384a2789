package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sampleledger/internal/buildinfo"
	"github.com/dmitrijs2005/sampleledger/internal/client/client"
	"github.com/dmitrijs2005/sampleledger/internal/client/config"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configFile string
	server     string
	httpBase   string
	tokenFile  string
	timeout    time.Duration
}

// RootCmd builds the ledgerctl command tree bound to a.
func (a *App) RootCmd() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Command-line client for the sample request ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(g.configFile, a.lookup)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("server") {
				cfg.ServerAddr = g.server
			}
			if flags.Changed("http") {
				cfg.HTTPBase = g.httpBase
			}
			if flags.Changed("token-file") {
				cfg.TokenFile = g.tokenFile
			}
			if flags.Changed("timeout") {
				cfg.Timeout = g.timeout
			}
			a.config = cfg
			a.out = cmd.OutOrStdout()
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configFile, "config", "", "config file (JSON or YAML)")
	pf.StringVar(&g.server, "server", "", "gRPC server address host:port")
	pf.StringVar(&g.httpBase, "http", "", "HTTP API base URL, used by export")
	pf.StringVar(&g.tokenFile, "token-file", "", "where the session token is kept")
	pf.DurationVar(&g.timeout, "timeout", 0, "per-request timeout")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.pingCmd(),
		a.listCmd(),
		a.summaryCmd(),
		a.deleteCmd(),
		a.restoreCmd(),
		a.exportCmd(),
		a.versionCmd(),
	)

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\n\n%s", err, cmd.UsageString())
	})
	return root
}

func (a *App) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := a.withTimeout(cmd)
			defer cancel()
			if err := c.Ping(ctx); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "OK %s\n", a.config.ServerAddr)
			return nil
		},
	}
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(a.out)
		},
	}
}

// explain adds a hint to errors the user can act on.
func explain(err error) error {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return fmt.Errorf("%w (run 'ledgerctl login')", err)
	case errors.Is(err, client.ErrUnavailable):
		return fmt.Errorf("%w (is the server running?)", err)
	}
	return err
}
