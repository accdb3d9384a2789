package server

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/sampleledger/internal/server/config"
	"github.com/dmitrijs2005/sampleledger/internal/sheets"
	"github.com/dmitrijs2005/sampleledger/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	c := &config.Config{}
	c.LoadDefaults()
	c.HTTPAddr = "127.0.0.1:0"
	c.GRPCAddr = "127.0.0.1:0"
	c.DataFile = filepath.Join(dir, "data.json")
	c.TrashFile = filepath.Join(dir, "trash.json")
	c.SpreadsheetID = ""
	return c
}

func TestNewApp_LocalOnly(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t), io.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.NotNil(t, app.ledger)
	assert.NotNil(t, app.auth)
	assert.Nil(t, app.archiver)
	assert.Nil(t, app.redis)
	assert.Nil(t, app.deps().Archiver)
}

func TestNewApp_SQLite(t *testing.T) {
	c := testConfig(t)
	c.SnapshotDriver = snapshot.DriverSQLite
	c.SnapshotDSN = filepath.Join(t.TempDir(), "ledger.db")

	app, err := NewApp(context.Background(), c, io.Discard)
	require.NoError(t, err)
	require.NoError(t, app.Close())
}

func TestNewApp_Errors(t *testing.T) {
	c := testConfig(t)
	c.LogLevel = "loud"
	_, err := NewApp(context.Background(), c, io.Discard)
	assert.Error(t, err)

	c = testConfig(t)
	c.SnapshotDriver = "mongo"
	_, err = NewApp(context.Background(), c, io.Discard)
	assert.ErrorIs(t, err, snapshot.ErrUnknownDriver)

	c = testConfig(t)
	c.SpreadsheetID = config.DefaultSpreadsheetID
	c.CredentialsFile = filepath.Join(t.TempDir(), "missing.json")
	_, err = NewApp(context.Background(), c, io.Discard)
	assert.ErrorContains(t, err, "sheets init error")
}

func TestBuildRemote(t *testing.T) {
	c := testConfig(t)
	c.SpreadsheetID = config.DefaultSpreadsheetID
	c.RemoteTimeout = 5 * time.Second

	app, err := NewApp(context.Background(), c, io.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	remote, err := app.buildRemote(context.Background())
	require.NoError(t, err)
	bounded, ok := remote.(sheets.Bounded)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, bounded.Timeout)
	fb, ok := bounded.Remote.(sheets.Fallback)
	require.True(t, ok)
	assert.Nil(t, fb.Primary)
	assert.NotNil(t, fb.Secondary)

	app.config.CSVFallback = false
	remote, err = app.buildRemote(context.Background())
	require.NoError(t, err)
	assert.Nil(t, remote)
}

func TestRun_StopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t), io.Discard)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 2, app.ledger.Store().Len(), "seed loaded on start")
}

func TestRun_ListenError(t *testing.T) {
	c := testConfig(t)
	c.GRPCAddr = "256.0.0.1:1"

	app, err := NewApp(context.Background(), c, io.Discard)
	require.NoError(t, err)
	assert.Error(t, app.Run(context.Background()))
}
