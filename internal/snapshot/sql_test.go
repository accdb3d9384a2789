package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/sampleledger/internal/dbx"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "snapshot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_NeverSavedIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	records, found, err := s.LoadRecords(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, records)

	trash, err := s.LoadTrash(ctx)
	require.NoError(t, err)
	assert.Empty(t, trash)
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)
	want := sampleRecords()

	require.NoError(t, s.SaveRecords(ctx, want))
	got, found, err := s.LoadRecords(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "record %d: %+v", i, got[i])
	}

	// A second save replaces rather than appends.
	require.NoError(t, s.SaveRecords(ctx, want[1:]))
	got, _, err = s.LoadRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	info, found, err := s.Info(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(1), info.Size)
}

func TestSQLite_EmptySaveIsFound(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)
	require.NoError(t, s.SaveRecords(ctx, []ledger.Record{}))

	got, found, err := s.LoadRecords(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, got)
}

func TestSQLite_Trash(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)
	deleted := time.Date(2025, 3, 10, 14, 5, 6, 123, time.UTC)

	require.NoError(t, s.SaveTrash(ctx, []ledger.TrashEntry{
		{Record: sampleRecords()[0], DeletedAt: deleted},
		{Record: sampleRecords()[1], DeletedAt: deleted.Add(time.Minute)},
	}))
	got, err := s.LoadTrash(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1001), got[0].No)
	assert.True(t, got[0].DeletedAt.Equal(deleted))
	assert.Equal(t, "x", got[0].Extra["메모"])
}

func TestSQLite_MigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)
	require.NoError(t, RunMigrations(ctx, s.db, dbx.SQLite))
}

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()

	st, err := Open(ctx, Config{Driver: DriverJSON, DataPath: filepath.Join(t.TempDir(), "d.json")})
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, st)

	st, err = Open(ctx, Config{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "s.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, st)
	require.NoError(t, st.Close())

	_, err = Open(ctx, Config{Driver: "mongo"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func newPostgresMock(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s := NewSQLStore(db, dbx.Postgres)
	s.now = func() time.Time { return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) }
	return s, mock
}

func TestPostgres_SaveRecords(t *testing.T) {
	s, mock := newPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM records`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO records (position, no, payload) VALUES ($1, $2, $3)`)).
		WithArgs(0, int64(1001), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO records (position, no, payload) VALUES ($1, $2, $3)`)).
		WithArgs(1, int64(1002), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO snapshot_meta .* VALUES \(\$1, \$2\)\s+ON CONFLICT \(key\) DO UPDATE`).
		WithArgs(metaRecordsSaved, "2025-03-10T00:00:00Z").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SaveRecords(context.Background(), sampleRecords()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SaveRecordsRollsBack(t *testing.T) {
	s, mock := newPostgresMock(t)
	boom := errors.New("disk full")

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM records`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO records`).WillReturnError(boom)
	mock.ExpectRollback()

	err := s.SaveRecords(context.Background(), sampleRecords())
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_LoadRecordsNeverSaved(t *testing.T) {
	s, mock := newPostgresMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM snapshot_meta WHERE key = $1`)).
		WithArgs(metaRecordsSaved).
		WillReturnError(sql.ErrNoRows)

	records, found, err := s.LoadRecords(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, records)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_LoadRecords(t *testing.T) {
	s, mock := newPostgresMock(t)

	mock.ExpectQuery(`SELECT value FROM snapshot_meta`).
		WithArgs(metaRecordsSaved).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("2025-03-10T00:00:00Z"))
	mock.ExpectQuery(`SELECT payload FROM records ORDER BY position`).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).
			AddRow([]byte(`{"NO": 5, "업체명": "A", "진행상태": "접수"}`)).
			AddRow([]byte(`{"NO": 6, "업체명": "B", "출하일": "2025-01-02"}`)))

	got, found, err := s.LoadRecords(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Company)
	assert.Equal(t, "2025-01-02", got[1].Shipped.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_Postgres(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, RunMigrations(context.Background(), nil, dbx.Postgres))
	assert.Equal(t, ".", gotDir)

	boom := errors.New("migrate failed")
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error { return boom }
	assert.ErrorIs(t, RunMigrations(context.Background(), nil, dbx.Postgres), boom)
}
