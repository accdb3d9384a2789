package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sampleledger/internal/logging"
	"github.com/google/uuid"
)

// Service ties accounts, tokens and sessions together for the transports.
type Service struct {
	accounts *Accounts
	sessions SessionStore
	secret   []byte
	ttl      time.Duration
	logger   logging.Logger
}

func NewService(accounts *Accounts, sessions SessionStore, secret []byte, ttl time.Duration, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{accounts: accounts, sessions: sessions, secret: secret, ttl: ttl, logger: logger.With("module", "auth")}
}

// Login checks the credentials, opens a session and returns its token.
func (s *Service) Login(ctx context.Context, username, password string) (string, Principal, error) {
	p, err := s.accounts.Authenticate(username, password)
	if err != nil {
		s.logger.Warn(ctx, "login failed", "username", username)
		return "", Principal{}, err
	}

	id := uuid.NewString()
	if err := s.sessions.Create(ctx, id, p.Username, s.ttl); err != nil {
		return "", Principal{}, fmt.Errorf("create session: %w", err)
	}
	token, err := GenerateToken(p, id, s.secret, s.ttl)
	if err != nil {
		return "", Principal{}, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info(ctx, "login", "username", p.Username, "role", p.Role)
	return token, p, nil
}

// Verify parses token and checks that its session is still open.
func (s *Service) Verify(ctx context.Context, token string) (Principal, error) {
	claims, err := ParseToken(token, s.secret)
	if err != nil {
		return Principal{}, err
	}
	ok, err := s.sessions.Exists(ctx, claims.ID)
	if err != nil {
		return Principal{}, fmt.Errorf("check session: %w", err)
	}
	if !ok {
		return Principal{}, ErrSessionNotFound
	}
	return claims.Principal(), nil
}

// Logout closes the token's session. An already closed session is not an
// error.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := ParseToken(token, s.secret)
	if err != nil {
		return err
	}
	return s.sessions.Delete(ctx, claims.ID)
}

// RevokeAll closes every session of username.
func (s *Service) RevokeAll(ctx context.Context, username string) (int, error) {
	n, err := s.sessions.RevokeAll(ctx, username)
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "sessions revoked", "username", username, "count", n)
	return n, nil
}
