package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore tracks live sessions so tokens can be revoked before they
// expire.
type SessionStore interface {
	Create(ctx context.Context, id, username string, ttl time.Duration) error
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	// RevokeAll ends every session of username and returns how many there were.
	RevokeAll(ctx context.Context, username string) (int, error)
}

type memSession struct {
	username string
	expires  time.Time
}

// MemorySessionStore keeps sessions in process memory.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memSession
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]memSession{}, now: time.Now}
}

func (m *MemorySessionStore) Create(_ context.Context, id, username string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	m.sessions[id] = memSession{username: username, expires: m.now().Add(ttl)}
	return nil
}

func (m *MemorySessionStore) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return false, nil
	}
	if !m.now().Before(s.expires) {
		delete(m.sessions, id)
		return false, nil
	}
	return true, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemorySessionStore) RevokeAll(_ context.Context, username string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.username == username {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// sweep drops expired sessions. The caller holds mu.
func (m *MemorySessionStore) sweep() {
	now := m.now()
	for id, s := range m.sessions {
		if !now.Before(s.expires) {
			delete(m.sessions, id)
		}
	}
}

// RedisSessionStore keeps one key per session plus a set of session ids
// per user for RevokeAll.
type RedisSessionStore struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisSessionStore(rdb redis.UniversalClient, prefix string) *RedisSessionStore {
	if prefix == "" {
		prefix = "ledger"
	}
	return &RedisSessionStore{rdb: rdb, prefix: prefix}
}

func (r *RedisSessionStore) sessionKey(id string) string { return r.prefix + ":session:" + id }
func (r *RedisSessionStore) userKey(username string) string {
	return r.prefix + ":user-sessions:" + username
}

func (r *RedisSessionStore) Create(ctx context.Context, id, username string, ttl time.Duration) error {
	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, r.sessionKey(id), username, ttl)
	pipe.SAdd(ctx, r.userKey(username), id)
	pipe.Expire(ctx, r.userKey(username), ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisSessionStore) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.sessionKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	username, err := r.rdb.Get(ctx, r.sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, r.sessionKey(id))
	pipe.SRem(ctx, r.userKey(username), id)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisSessionStore) RevokeAll(ctx context.Context, username string) (int, error) {
	ids, err := r.rdb.SMembers(ctx, r.userKey(username)).Result()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, r.sessionKey(id))
	}
	n, err := r.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, err
	}
	if err := r.rdb.Del(ctx, r.userKey(username)).Err(); err != nil {
		return int(n), err
	}
	return int(n), nil
}
