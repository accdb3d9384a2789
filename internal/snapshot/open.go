package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sync"

	"github.com/dmitrijs2005/sampleledger/internal/dbx"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/dmitrijs2005/sampleledger/internal/snapshot/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Store is a ledger.Local that can also describe itself and be closed.
type Store interface {
	ledger.Local
	Info(ctx context.Context) (Info, bool, error)
	Close() error
}

// Drivers accepted by Open.
const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects and configures a snapshot backend.
type Config struct {
	Driver    string
	DSN       string
	DataPath  string
	TrashPath string
}

// Open returns the configured backend, running migrations for SQL ones.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverJSON:
		return NewJSONStore(cfg.DataPath, cfg.TrashPath), nil
	case DriverSQLite:
		return OpenSQLite(ctx, cfg.DSN)
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// OpenSQLite opens (creating if needed) a SQLite database and migrates it.
func OpenSQLite(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes
	// writers, which SQLite needs anyway.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db, dbx.SQLite); err != nil {
		db.Close()
		return nil, err
	}
	return NewSQLStore(db, dbx.SQLite), nil
}

// OpenPostgres connects through the pgx stdlib driver and migrates.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := RunMigrations(ctx, db, dbx.Postgres); err != nil {
		db.Close()
		return nil, err
	}
	return NewSQLStore(db, dbx.Postgres), nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// goose keeps its base FS and dialect in package globals.
var migrateMu sync.Mutex

// RunMigrations applies the embedded migrations for dialect d.
func RunMigrations(ctx context.Context, db *sql.DB, d dbx.Dialect) error {
	dir := "sqlite"
	if d == dbx.Postgres {
		dir = "postgres"
	}
	sub, err := fs.Sub(migrations.Migrations, dir)
	if err != nil {
		return fmt.Errorf("migrations %s: %w", dir, err)
	}

	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(sub)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(string(d)); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
