package redis

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"netquest-service/internal/app"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Sessions still live in a local map so snapshots fan out in-process.
//   - Redis only carries a liveness marker per game, so operators can list
//     running games across instances. Game state is never persisted.
//   - Sweep refreshes the marker of every surviving game, so it must run more
//     often than ttl.
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

func (s *SessionStore) GetOrCreate(gameID string, create func() *app.Session) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[gameID]; ok {
		return session
	}
	session := create()
	s.sessions[gameID] = session
	s.mark(gameID)
	return session
}

func (s *SessionStore) Attach(gameID string, create func() *app.Session) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[gameID]
	if !ok {
		session = create()
		s.sessions[gameID] = session
	}
	session.Attach()
	s.mark(gameID)
	return session
}

func (s *SessionStore) Get(gameID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[gameID]
	return session, ok
}

func (s *SessionStore) Detach(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[gameID]
	if !ok {
		return
	}
	session.Detach()
	if session.IsEmpty() {
		delete(s.sessions, gameID)
		_ = s.client.Del(context.Background(), s.key(gameID)).Err()
	}
}

func (s *SessionStore) Sweep(cutoff time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := context.Background()
	var dropped []string
	pipe := s.client.Pipeline()
	for id, session := range s.sessions {
		if session.IdleSince(cutoff) {
			delete(s.sessions, id)
			dropped = append(dropped, id)
			pipe.Del(ctx, s.key(id))
			continue
		}
		pipe.Set(ctx, s.key(id), "1", s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("refresh session markers: %v", err)
	}
	return dropped
}

// mark sets the best-effort liveness marker.
func (s *SessionStore) mark(gameID string) {
	_ = s.client.Set(context.Background(), s.key(gameID), "1", s.ttl).Err()
}

func (s *SessionStore) key(gameID string) string {
	return "netquest:session:" + gameID
}
