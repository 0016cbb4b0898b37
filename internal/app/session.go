package app

import (
	"sync"
	"time"

	"netquest-service/internal/domain"
)

// Session is an in-memory game. It owns the current GameState and replaces it
// by value on every transition.
type Session struct {
	id          string
	engine      *Engine
	createdAt   time.Time
	now         func() time.Time
	mu          sync.RWMutex
	state       domain.GameState
	updatedAt   time.Time
	lastActive  time.Time
	connections int
	held        bool
	subscribers map[chan domain.Snapshot]struct{}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string, engine *Engine) *Session {
	return newSessionWithClock(id, engine, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, engine *Engine, now func() time.Time) *Session {
	return newSessionWithClock(id, engine, now)
}

func newSessionWithClock(id string, engine *Engine, now func() time.Time) *Session {
	created := now()
	return &Session{
		id:          id,
		engine:      engine,
		createdAt:   created,
		now:         now,
		state:       engine.Reset(),
		updatedAt:   created,
		lastActive:  created,
		subscribers: make(map[chan domain.Snapshot]struct{}),
	}
}

func (s *Session) ID() string {
	return s.id
}

// State returns a copy of the current game state.
func (s *Session) State() domain.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Snapshot returns the current state wrapped with session metadata.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// IsEmpty reports whether the session can be dropped: no client is connected
// and it was not created to outlive its connections.
func (s *Session) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connections == 0 && !s.held
}

// IdleSince reports whether nobody is connected and nothing touched the
// session after cutoff. Held sessions expire this way too.
func (s *Session) IdleSince(cutoff time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connections == 0 && s.lastActive.Before(cutoff)
}

// Attach registers a connected client. Stores call it under their own lock so
// a concurrent Detach cannot drop the session in between.
func (s *Session) Attach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections++
	s.lastActive = s.now()
}

// Detach unregisters a connected client.
func (s *Session) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connections > 0 {
		s.connections--
	}
	s.lastActive = s.now()
}

// hold keeps the session alive without connections until it idles out.
func (s *Session) hold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.held = true
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.now()
}

func (s *Session) start(teamNames []string) (domain.Snapshot, error) {
	return s.transition(func(domain.GameState) (domain.GameState, error) {
		return s.engine.Start(teamNames)
	})
}

func (s *Session) selectQuestion(questionID string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Select(s.state, questionID)
}

func (s *Session) resolve(questionID string, awarded int) (domain.Snapshot, error) {
	return s.transition(func(state domain.GameState) (domain.GameState, error) {
		return s.engine.Resolve(state, questionID, awarded)
	})
}

func (s *Session) answer(questionID, optionID string) (domain.Snapshot, domain.AnswerResult, error) {
	var result domain.AnswerResult
	snap, err := s.transition(func(state domain.GameState) (domain.GameState, error) {
		next, res, err := s.engine.Answer(state, questionID, optionID)
		result = res
		return next, err
	})
	return snap, result, err
}

func (s *Session) reset() domain.Snapshot {
	snap, _ := s.transition(func(domain.GameState) (domain.GameState, error) {
		return s.engine.Reset(), nil
	})
	return snap
}

func (s *Session) board() domain.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Board{GameID: s.id, Columns: s.engine.Board(s.state)}
}

func (s *Session) leaderboard() domain.Leaderboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := Rank(s.state.Teams)
	return domain.Leaderboard{
		GameID:    s.id,
		Entries:   entries,
		Winners:   winners(entries),
		UpdatedAt: s.updatedAt,
	}
}

// transition swaps in the next state only when fn succeeds.
func (s *Session) transition(fn func(domain.GameState) (domain.GameState, error)) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.state.Clone())
	if err != nil {
		return s.snapshotLocked(), err
	}
	s.state = next
	s.updatedAt = s.now()
	return s.broadcastLocked(), nil
}

func (s *Session) subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() domain.Snapshot {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// slow subscriber: replace its oldest pending snapshot
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (s *Session) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		GameID:         s.id,
		BankID:         s.engine.Bank().ID(),
		State:          s.state.Clone(),
		TotalQuestions: s.engine.Bank().TotalQuestions(),
		UpdatedAt:      s.updatedAt,
	}
}
