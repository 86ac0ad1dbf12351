package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/cardbank/internal/account"
)

const sessionPrefix = "session:v1:"

// ErrSessionNotFound indicates the session expired, was logged out, or never existed.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps authenticated sessions between requests.
type SessionStore interface {
	Save(ctx context.Context, id string, sess account.Session, ttl time.Duration) error
	Load(ctx context.Context, id string) (account.Session, error)
	Delete(ctx context.Context, id string) error
}

// RedisSessionStore stores sessions as JSON values with a Redis TTL.
type RedisSessionStore struct {
	cache *redis.Client
}

// NewRedisSessionStore builds a Redis-backed session store.
func NewRedisSessionStore(cache *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{cache: cache}
}

// Save stores the session under id for ttl.
func (s *RedisSessionStore) Save(ctx context.Context, id string, sess account.Session, ttl time.Duration) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, sessionPrefix+id, payload, ttl).Err()
}

// Load fetches the session stored under id.
func (s *RedisSessionStore) Load(ctx context.Context, id string) (account.Session, error) {
	raw, err := s.cache.Get(ctx, sessionPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return account.Session{}, ErrSessionNotFound
		}
		return account.Session{}, err
	}
	var sess account.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return account.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

// Delete removes the session stored under id.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.cache.Del(ctx, sessionPrefix+id).Err()
}

type memoryEntry struct {
	session   account.Session
	expiresAt time.Time
}

// MemorySessionStore keeps sessions in process memory. Expired entries are
// ignored on Load and removed by Sweep.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemorySessionStore builds an in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemorySessionStore) Save(_ context.Context, id string, sess account.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = memoryEntry{session: sess, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemorySessionStore) Load(_ context.Context, id string) (account.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[id]
	if !ok || !s.now().Before(entry.expiresAt) {
		return account.Session{}, ErrSessionNotFound
	}
	return entry.session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Sweep drops expired sessions and reports how many were removed.
func (s *MemorySessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, entry := range s.sessions {
		if !now.Before(entry.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
