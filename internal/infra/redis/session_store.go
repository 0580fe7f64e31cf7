package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/StarRy7c/Gamebot/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionStore.
// Notes:
//   - It still keeps a local in-memory map of live sessions; a session's
//     timers and guess state are process-local by design.
//   - Redis holds a TTL'd liveness marker per room, handy for operational
//     visibility into which rooms have games running.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) PutIfAbsent(roomID string, session *app.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[roomID]; ok {
		return false
	}
	s.sessions[roomID] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(roomID), "1", s.ttl).Err()
	return true
}

func (s *SessionStore) Get(roomID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[roomID]
	return session, ok
}

func (s *SessionStore) Delete(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[roomID]; !ok {
		return
	}
	delete(s.sessions, roomID)
	_ = s.client.Del(context.Background(), s.key(roomID)).Err()
}

func (s *SessionStore) key(roomID string) string {
	return "game:active:" + roomID
}
