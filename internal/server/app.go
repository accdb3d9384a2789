// Package server wires the ledger service together and runs its HTTP and
// gRPC front ends until a shutdown signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/sampleledger/internal/auth"
	"github.com/dmitrijs2005/sampleledger/internal/backup"
	"github.com/dmitrijs2005/sampleledger/internal/excel"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/dmitrijs2005/sampleledger/internal/logging"
	"github.com/dmitrijs2005/sampleledger/internal/server/config"
	"github.com/dmitrijs2005/sampleledger/internal/server/httpapi"
	"github.com/dmitrijs2005/sampleledger/internal/sheets"
	"github.com/dmitrijs2005/sampleledger/internal/snapshot"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/sampleledger/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	local    snapshot.Store
	ledger   *ledger.Reconciler
	auth     *auth.Service
	archiver *backup.S3Archiver
	redis    *redis.Client
}

// NewApp builds every component from c. Log output goes to w.
func NewApp(ctx context.Context, c *config.Config, w io.Writer) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, w)
	if err != nil {
		return nil, err
	}
	app := &App{config: c, logger: logger}

	app.local, err = snapshot.Open(ctx, snapshot.Config{
		Driver:    c.SnapshotDriver,
		DSN:       c.SnapshotDSN,
		DataPath:  c.DataFile,
		TrashPath: c.TrashFile,
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot init error: %w", err)
	}

	remote, err := app.buildRemote(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.ledger = ledger.NewReconciler(ledger.NewStore(), remote, app.local, ledger.Options{Logger: logger})

	accounts, err := auth.NewAccounts(c.Accounts)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("accounts: %w", err)
	}
	app.auth = auth.NewService(accounts, app.buildSessions(), []byte(c.SecretKey), c.AccessTokenValidityDuration, logger)

	app.archiver, err = backup.NewS3Archiver(ctx, backup.Config{
		Region:    c.S3Region,
		Endpoint:  c.S3BaseEndpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Bucket:    c.S3Bucket,
		Prefix:    c.S3Prefix,
	}, logger)
	if err != nil && !errors.Is(err, backup.ErrDisabled) {
		app.Close()
		return nil, fmt.Errorf("s3 init error: %w", err)
	}

	return app, nil
}

// buildRemote returns nil when no spreadsheet is configured. Without a
// service-account key the public CSV export is the only, read-only source.
func (app *App) buildRemote(ctx context.Context) (ledger.Remote, error) {
	c := app.config
	if c.SpreadsheetID == "" {
		app.logger.Info(ctx, "no spreadsheet configured, running on the local snapshot")
		return nil, nil
	}

	var fb sheets.Fallback
	if c.CredentialsFile != "" {
		gsheet, err := sheets.NewGoogleSheet(ctx, sheets.Config{
			SpreadsheetID:   c.SpreadsheetID,
			Worksheet:       c.Worksheet,
			CredentialsFile: c.CredentialsFile,
		}, app.logger)
		if err != nil {
			return nil, fmt.Errorf("sheets init error: %w", err)
		}
		fb.Primary = gsheet
	}
	if c.CSVFallback {
		fb.Secondary = sheets.NewCSVExport(sheets.ExportURL(c.SpreadsheetID), app.logger)
	}
	if fb.Primary == nil && fb.Secondary == nil {
		app.logger.Warn(ctx, "spreadsheet configured without credentials or csv fallback")
		return nil, nil
	}
	return sheets.Bounded{Remote: fb, Timeout: c.RemoteTimeout}, nil
}

func (app *App) buildSessions() auth.SessionStore {
	c := app.config
	if c.RedisAddr == "" {
		return auth.NewMemorySessionStore()
	}
	app.redis = redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
	return auth.NewRedisSessionStore(app.redis, "")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// deps collects the HTTP handler dependencies. A disabled archiver stays a
// nil interface, not a typed nil.
func (app *App) deps() httpapi.Deps {
	deps := httpapi.Deps{
		Ledger:      app.ledger,
		Auth:        app.auth,
		Files:       excel.DefaultCodec(),
		Local:       app.local,
		CORSOrigins: app.config.CORSOrigins,
		Logger:      app.logger,
	}
	if app.archiver != nil {
		deps.Archiver = app.archiver
	}
	return deps
}

// Run loads the table and serves HTTP and gRPC until ctx ends or a signal
// arrives. The first server error stops the other one.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	report, err := app.ledger.Load(ctx)
	if err != nil {
		app.logger.Error(ctx, "initial load failed, retrying on first request", "error", err)
	} else {
		app.logger.Info(ctx, "table loaded", "source", report.Source, "records", report.Total)
	}
	if report.RemoteErr != nil {
		app.logger.Warn(ctx, "remote sheet unavailable, serving the local copy", "error", report.RemoteErr)
	}

	httpServer := httpapi.NewServer(app.config.HTTPAddr, httpapi.NewRouter(app.deps()), app.config.ShutdownTimeout, app.logger)
	grpcServer := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.ledger, app.auth)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Run(gctx) })
	g.Go(func() error { return grpcServer.Run(gctx) })

	err = g.Wait()
	app.logger.Info(ctx, "App stopped")
	return errors.Join(err, app.Close())
}

// Close releases the snapshot store and the Redis client.
func (app *App) Close() error {
	var errs []error
	if app.local != nil {
		errs = append(errs, app.local.Close())
		app.local = nil
	}
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
		app.redis = nil
	}
	return errors.Join(errs...)
}
