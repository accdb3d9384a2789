package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/sampleledger/internal/client/client"
	"github.com/dmitrijs2005/sampleledger/internal/client/config"
	"github.com/spf13/cobra"
)

// Dialer opens a Client for the given gRPC target.
type Dialer func(target string) (client.Client, error)

func grpcDialer(target string) (client.Client, error) {
	return client.NewLedgerClient(target)
}

type App struct {
	config *config.Config
	dial   Dialer
	http   *http.Client
	reader *bufio.Reader
	out    io.Writer
	lookup func(string) (string, bool)
}

// Option adjusts an App, mostly for tests.
type Option func(*App)

func WithDialer(d Dialer) Option { return func(a *App) { a.dial = d } }

func WithHTTPClient(c *http.Client) Option { return func(a *App) { a.http = c } }

func WithInput(r io.Reader) Option { return func(a *App) { a.reader = bufio.NewReader(r) } }

func WithEnv(lookup func(string) (string, bool)) Option { return func(a *App) { a.lookup = lookup } }

func NewApp(opts ...Option) *App {
	a := &App{
		dial:   grpcDialer,
		http:   http.DefaultClient,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		lookup: os.LookupEnv,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run executes the command line in args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	root := a.RootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

// connect dials the server and loads the saved token, if any.
func (a *App) connect() (client.Client, error) {
	c, err := a.dial(a.config.ServerAddr)
	if err != nil {
		return nil, err
	}
	token, err := readToken(a.config.TokenFile)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.SetToken(token)
	return c, nil
}

func (a *App) withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.config.Timeout)
}
