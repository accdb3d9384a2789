package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/sampleledger/internal/auth"
	"github.com/dmitrijs2005/sampleledger/internal/client/client"
	"github.com/dmitrijs2005/sampleledger/internal/ledger"
	"github.com/dmitrijs2005/sampleledger/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	token      string
	loginUser  string
	loginPass  string
	lastFilter ledger.Filter
	lastNos    []int64
	records    []ledger.Record
	err        error
	closed     bool
}

func (f *fakeClient) Close() error          { f.closed = true; return nil }
func (f *fakeClient) SetToken(token string) { f.token = token }
func (f *fakeClient) Ping(context.Context) error {
	return f.err
}

func (f *fakeClient) Login(_ context.Context, username, password string) (string, auth.Principal, error) {
	f.loginUser, f.loginPass = username, password
	if f.err != nil {
		return "", auth.Principal{}, f.err
	}
	return "tok-" + username, auth.Principal{Username: username, Name: "관리자", Role: auth.RoleAdmin}, nil
}

func (f *fakeClient) ListRecords(_ context.Context, flt ledger.Filter) ([]ledger.Record, error) {
	f.lastFilter = flt
	return f.records, f.err
}

func (f *fakeClient) Summary(context.Context) (ledger.Summary, error) {
	return ledger.Summary{Total: 2, Quantity: 410, Delayed: 2, ByStatus: map[ledger.Status]int{ledger.StatusReceived: 2}}, f.err
}

func (f *fakeClient) DeleteRecords(_ context.Context, nos []int64) (rpc.DeleteRecordsReply, error) {
	f.lastNos = nos
	return rpc.DeleteRecordsReply{Deleted: nos, Warning: "sheet offline"}, f.err
}

func (f *fakeClient) RestoreRecord(_ context.Context, no int64) (rpc.RestoreRecordReply, error) {
	f.lastNos = []int64{no}
	return rpc.RestoreRecordReply{Record: ledger.Record{No: no, Company: "기아"}}, f.err
}

type harness struct {
	app       *App
	fake      *fakeClient
	tokenFile string
	dialed    string
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		fake:      &fakeClient{},
		tokenFile: filepath.Join(t.TempDir(), "token"),
	}
	base := []Option{
		WithEnv(func(string) (string, bool) { return "", false }),
		WithDialer(func(target string) (client.Client, error) {
			h.dialed = target
			return h.fake, nil
		}),
		WithInput(strings.NewReader("")),
	}
	h.app = NewApp(append(base, opts...)...)
	return h
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := h.app.RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--token-file", h.tokenFile}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLogin_SavesToken(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "login", "-u", "admin", "--password", "1234", "--server", "ledger:6000")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as 관리자")
	assert.Equal(t, "ledger:6000", h.dialed)
	assert.Equal(t, "1234", h.fake.loginPass)
	assert.True(t, h.fake.closed)

	b, err := os.ReadFile(h.tokenFile)
	require.NoError(t, err)
	assert.Equal(t, "tok-admin\n", string(b))

	info, err := os.Stat(h.tokenFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLogin_Prompts(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }

	h := newHarness(t, WithInput(strings.NewReader("user\n")))
	_, err := h.run(t, "login")
	require.NoError(t, err)
	assert.Equal(t, "user", h.fake.loginUser)
	assert.Equal(t, "secret", h.fake.loginPass)
}

func TestLogin_Failure(t *testing.T) {
	h := newHarness(t)
	h.fake.err = client.ErrUnauthorized

	_, err := h.run(t, "login", "-u", "admin", "--password", "bad")
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrUnauthorized))
	assert.Contains(t, err.Error(), "ledgerctl login")

	_, statErr := os.Stat(h.tokenFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, writeToken(h.tokenFile, "tok"))

	out, err := h.run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")
	_, statErr := os.Stat(h.tokenFile)
	assert.True(t, os.IsNotExist(statErr))

	_, err = h.run(t, "logout")
	assert.NoError(t, err)
}

func TestList_SendsFilterAndToken(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, writeToken(h.tokenFile, "tok-admin"))
	h.fake.records = []ledger.Record{
		{No: 1001, Company: "INFAC 일렉스", Quantity: 360, DueDate: ledger.NewDate(2024, 12, 20), Status: ledger.StatusReceived},
	}

	out, err := h.run(t, "list", "--search", "INFAC", "--completion", "open",
		"--status", "접수", "--company", "INFAC 일렉스", "--due-from", "2024-12-01")
	require.NoError(t, err)

	assert.Equal(t, "tok-admin", h.fake.token)
	f := h.fake.lastFilter
	assert.Equal(t, "INFAC", f.Search)
	assert.Equal(t, ledger.CompletionOpen, f.Completion)
	assert.Equal(t, []ledger.Status{ledger.StatusReceived}, f.Statuses)
	assert.Equal(t, []string{"INFAC 일렉스"}, f.Companies)
	assert.Equal(t, "2024-12-01", f.DueFrom.String())

	assert.Contains(t, out, "1001")
	assert.Contains(t, out, "2024-12-20")
	assert.Contains(t, out, "1 record(s)")
}

func TestList_BadFlags(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "list", "--completion", "maybe")
	assert.ErrorContains(t, err, "unknown completion")

	_, err = h.run(t, "list", "--status", "nope")
	assert.ErrorContains(t, err, "unknown status")

	_, err = h.run(t, "list", "--due-to", "soon")
	assert.ErrorContains(t, err, "not a date")
}

func TestSummary(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Total:      2")
	assert.Contains(t, out, "Delayed:    2")
	assert.Contains(t, out, "접수")
}

func TestDeleteRestore(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "delete", "1001", "1002")
	require.NoError(t, err)
	assert.Equal(t, []int64{1001, 1002}, h.fake.lastNos)
	assert.Contains(t, out, "Moved 2 record(s)")
	assert.Contains(t, out, "warning: sheet offline")

	out, err = h.run(t, "restore", "1001")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 1001 (기아)")

	_, err = h.run(t, "delete", "abc")
	assert.ErrorContains(t, err, "not a record number")

	_, err = h.run(t, "restore")
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "ping")
	require.NoError(t, err)
	assert.Contains(t, out, "OK 127.0.0.1:50051")

	h.fake.err = client.ErrUnavailable
	_, err = h.run(t, "ping")
	assert.ErrorIs(t, err, client.ErrUnavailable)
}

func TestExport(t *testing.T) {
	var gotAuth, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte("NO,업체명\n"))
	}))
	defer ts.Close()

	h := newHarness(t, WithHTTPClient(ts.Client()))

	_, err := h.run(t, "export", "--http", ts.URL)
	assert.ErrorContains(t, err, "not logged in")

	require.NoError(t, writeToken(h.tokenFile, "tok-admin"))
	dest := filepath.Join(t.TempDir(), "out.csv")
	out, err := h.run(t, "export", "--http", ts.URL, "--format", "csv", "-o", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")
	assert.Equal(t, "Bearer tok-admin", gotAuth)
	assert.Equal(t, "format=csv", gotQuery)

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "NO,업체명\n", string(b))

	out, err = h.run(t, "export", "--http", ts.URL, "--format", "csv", "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, "NO,업체명\n", out)

	_, err = h.run(t, "export", "--format", "pdf")
	assert.ErrorContains(t, err, "unknown format")
}

func TestGetSimpleText(t *testing.T) {
	var w bytes.Buffer
	got, err := GetSimpleText(rdr("  admin  \n"), "Username", &w)
	require.NoError(t, err)
	assert.Equal(t, "admin", got)
	assert.Equal(t, "Username: ", w.String())

	got, err = GetSimpleText(rdr("partial"), "x", &w)
	require.NoError(t, err)
	assert.Equal(t, "partial", got)

	_, err = GetSimpleText(rdr(""), "x", &w)
	assert.Error(t, err)
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return nil, errors.New("no tty") }

	var w bytes.Buffer
	_, err := GetPassword(&w)
	assert.Error(t, err)
	assert.Contains(t, w.String(), "Password: ")
}

func TestRun_ExitCode(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 1, h.app.Run(context.Background(), []string{"restore"}))
}

func rdr(s string) *bufio.Reader { return bufio.NewReader(strings.NewReader(s)) }

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Build version:")
}
