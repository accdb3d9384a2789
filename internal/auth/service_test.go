package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/sampleledger/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSessions struct{ SessionStore }

func (failingSessions) Create(context.Context, string, string, time.Duration) error {
	return errors.New("redis down")
}

func newTestService(t *testing.T, sessions SessionStore) *Service {
	t.Helper()
	return NewService(defaultAccounts(t), sessions, []byte("secret"), time.Hour, logging.Nop())
}

func TestService_LoginVerifyLogout(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, NewMemorySessionStore())

	token, p, err := s.Login(ctx, "user", "1234")
	require.NoError(t, err)
	assert.Equal(t, "현대자동차", p.Company)

	got, err := s.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	require.NoError(t, s.Logout(ctx, token))
	_, err = s.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_RevokeAll(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, NewMemorySessionStore())

	t1, _, err := s.Login(ctx, "admin", "1234")
	require.NoError(t, err)
	t2, _, err := s.Login(ctx, "admin", "1234")
	require.NoError(t, err)

	n, err := s.RevokeAll(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, tok := range []string{t1, t2} {
		_, err := s.Verify(ctx, tok)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	}
}

func TestService_Errors(t *testing.T) {
	ctx := context.Background()

	_, _, err := newTestService(t, NewMemorySessionStore()).Login(ctx, "admin", "nope")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = newTestService(t, failingSessions{}).Login(ctx, "admin", "1234")
	assert.ErrorContains(t, err, "redis down")

	_, err = newTestService(t, NewMemorySessionStore()).Verify(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
