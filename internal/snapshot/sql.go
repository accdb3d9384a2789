package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sampleledger/internal/dbx"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
)

const (
	metaRecordsSaved = "records_saved_at"
	metaTrashSaved   = "trash_saved_at"
)

// SQLStore keeps the snapshot in a SQL database. Each save replaces the
// whole table inside one transaction.
type SQLStore struct {
	db      *sql.DB
	dialect dbx.Dialect
	codec   Codec
	now     func() time.Time
}

// NewSQLStore wraps an open, migrated database.
func NewSQLStore(db *sql.DB, dialect dbx.Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, codec: DefaultCodec(), now: time.Now}
}

func (s *SQLStore) q(query string) string { return dbx.Rebind(s.dialect, query) }

func (s *SQLStore) meta(ctx context.Context, db dbx.DBTX, key string) (string, bool, error) {
	var v string
	err := db.QueryRowContext(ctx, s.q(`SELECT value FROM snapshot_meta WHERE key = ?`), key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read meta %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLStore) setMeta(ctx context.Context, db dbx.DBTX, key, value string) error {
	query := `INSERT INTO snapshot_meta (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`
	if _, err := db.ExecContext(ctx, s.q(query), key, value); err != nil {
		return fmt.Errorf("write meta %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) LoadRecords(ctx context.Context) ([]ledger.Record, bool, error) {
	if _, found, err := s.meta(ctx, s.db, metaRecordsSaved); err != nil || !found {
		return nil, false, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM records ORDER BY position`)
	if err != nil {
		return nil, false, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	result := []ledger.Record{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, false, err
		}
		r, err := s.codec.unmarshalOne(payload)
		if err != nil {
			return nil, false, fmt.Errorf("decode record: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return result, true, nil
}

func (s *SQLStore) SaveRecords(ctx context.Context, records []ledger.Record) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
			return fmt.Errorf("failed to clear records: %w", err)
		}
		insert := s.q(`INSERT INTO records (position, no, payload) VALUES (?, ?, ?)`)
		for i, r := range records {
			payload, err := s.codec.marshalOne(r)
			if err != nil {
				return fmt.Errorf("encode record %d: %w", r.No, err)
			}
			if _, err := tx.ExecContext(ctx, insert, i, r.No, string(payload)); err != nil {
				return fmt.Errorf("failed to insert record %d: %w", r.No, err)
			}
		}
		return s.setMeta(ctx, tx, metaRecordsSaved, s.now().UTC().Format(time.RFC3339Nano))
	})
}

func (s *SQLStore) LoadTrash(ctx context.Context) ([]ledger.TrashEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT deleted_at, payload FROM trash ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to select trash: %w", err)
	}
	defer rows.Close()

	result := []ledger.TrashEntry{}
	for rows.Next() {
		var (
			deletedAt string
			payload   []byte
		)
		if err := rows.Scan(&deletedAt, &payload); err != nil {
			return nil, err
		}
		r, err := s.codec.unmarshalOne(payload)
		if err != nil {
			return nil, fmt.Errorf("decode trash entry: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, deletedAt)
		if err != nil {
			return nil, fmt.Errorf("trash entry %d: bad deleted_at %q: %w", r.No, deletedAt, err)
		}
		result = append(result, ledger.TrashEntry{Record: r, DeletedAt: t})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SQLStore) SaveTrash(ctx context.Context, trash []ledger.TrashEntry) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM trash`); err != nil {
			return fmt.Errorf("failed to clear trash: %w", err)
		}
		insert := s.q(`INSERT INTO trash (position, no, deleted_at, payload) VALUES (?, ?, ?, ?)`)
		for i, t := range trash {
			payload, err := s.codec.marshalOne(t.Record)
			if err != nil {
				return fmt.Errorf("encode trash entry %d: %w", t.No, err)
			}
			deletedAt := t.DeletedAt.UTC().Format(time.RFC3339Nano)
			if _, err := tx.ExecContext(ctx, insert, i, t.No, deletedAt, string(payload)); err != nil {
				return fmt.Errorf("failed to insert trash entry %d: %w", t.No, err)
			}
		}
		return s.setMeta(ctx, tx, metaTrashSaved, s.now().UTC().Format(time.RFC3339Nano))
	})
}

// Info reports the row count and last save time of the active table.
func (s *SQLStore) Info(ctx context.Context) (Info, bool, error) {
	v, found, err := s.meta(ctx, s.db, metaRecordsSaved)
	if err != nil || !found {
		return Info{}, false, err
	}
	saved, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return Info{}, false, fmt.Errorf("bad %s %q: %w", metaRecordsSaved, v, err)
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return Info{}, false, fmt.Errorf("count records: %w", err)
	}
	return Info{Name: "records (" + string(s.dialect) + ")", Size: n, ModTime: saved}, true, nil
}

func (s *SQLStore) Close() error { return s.db.Close() }
