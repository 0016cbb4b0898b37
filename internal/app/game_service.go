package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"netquest-service/internal/domain"
)

// SessionRepository abstracts how game sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(gameID string, create func() *Session) *Session
	// Attach finds or creates the session and registers a client atomically.
	Attach(gameID string, create func() *Session) *Session
	Get(gameID string) (*Session, bool)
	// Detach unregisters a client and drops the session once IsEmpty.
	Detach(gameID string)
	// Sweep drops every session idle since cutoff and returns their IDs.
	Sweep(cutoff time.Time) []string
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (*domain.Bank, error)
}

// GameService contains the game use cases shared by every transport.
type GameService struct {
	sessions      SessionRepository
	banks         BankRepository
	palette       Palette
	defaultBankID string
	newID         func() string
	now           func() time.Time
}

func NewGameService(store SessionRepository, banks BankRepository, palette Palette, defaultBankID string) *GameService {
	return &GameService{
		sessions:      store,
		banks:         banks,
		palette:       palette,
		defaultBankID: defaultBankID,
		newID:         uuid.NewString,
		now:           time.Now,
	}
}

// SetClock replaces the clock stamped on new sessions and used by SweepIdle.
func (s *GameService) SetClock(now func() time.Time) {
	s.now = now
}

// Categories lists the board columns of a bank without opening a game.
func (s *GameService) Categories(ctx context.Context, bankID string) ([]domain.Category, error) {
	bank, err := s.banks.GetBank(ctx, s.bankOrDefault(bankID))
	if err != nil {
		return nil, err
	}
	return bank.Categories(), nil
}

// CreateGame opens a session under a fresh ID. The session is held: it
// survives clients coming and going and is only dropped by SweepIdle.
func (s *GameService) CreateGame(ctx context.Context, bankID string) (domain.Snapshot, error) {
	gameID := s.newID()
	create, err := s.factory(ctx, gameID, bankID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	session := s.sessions.GetOrCreate(gameID, func() *Session {
		session := create()
		session.hold()
		return session
	})
	return session.Snapshot(), nil
}

// Join opens (or reuses) a session and registers a connected client.
func (s *GameService) Join(ctx context.Context, gameID, bankID string) (domain.Snapshot, error) {
	create, err := s.factory(ctx, gameID, bankID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return s.sessions.Attach(gameID, create).Snapshot(), nil
}

// Leave unregisters a client. A session nobody holds is dropped with its last client.
func (s *GameService) Leave(_ context.Context, gameID string) {
	s.sessions.Detach(gameID)
}

// SweepIdle drops sessions with no clients and no activity for idle.
func (s *GameService) SweepIdle(_ context.Context, idle time.Duration) []string {
	return s.sessions.Sweep(s.now().Add(-idle))
}

// Start seeds the session with teams and moves it to the playing phase.
func (s *GameService) Start(_ context.Context, gameID string, teamNames []string) (domain.Snapshot, error) {
	session, err := s.session(gameID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return session.start(teamNames)
}

// Select returns the question to show. It does not change the game.
func (s *GameService) Select(_ context.Context, gameID, questionID string) (domain.Question, error) {
	session, err := s.session(gameID)
	if err != nil {
		return domain.Question{}, err
	}
	return session.selectQuestion(questionID)
}

// Answer judges optionID for the current team and resolves the question.
func (s *GameService) Answer(_ context.Context, gameID, questionID, optionID string) (domain.Snapshot, domain.AnswerResult, error) {
	session, err := s.session(gameID)
	if err != nil {
		return domain.Snapshot{}, domain.AnswerResult{}, err
	}
	return session.answer(questionID, optionID)
}

// Resolve closes a question with a caller-judged award.
func (s *GameService) Resolve(_ context.Context, gameID, questionID string, awarded int) (domain.Snapshot, error) {
	session, err := s.session(gameID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return session.resolve(questionID, awarded)
}

// Reset returns the session to setup.
func (s *GameService) Reset(_ context.Context, gameID string) (domain.Snapshot, error) {
	session, err := s.session(gameID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return session.reset(), nil
}

func (s *GameService) Snapshot(_ context.Context, gameID string) (domain.Snapshot, error) {
	session, err := s.session(gameID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

func (s *GameService) Board(_ context.Context, gameID string) (domain.Board, error) {
	session, err := s.session(gameID)
	if err != nil {
		return domain.Board{}, err
	}
	return session.board(), nil
}

func (s *GameService) Leaderboard(_ context.Context, gameID string) (domain.Leaderboard, error) {
	session, err := s.session(gameID)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return session.leaderboard(), nil
}

// Subscribe returns a channel that receives snapshots for a game.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, gameID string) (<-chan domain.Snapshot, func(), error) {
	session, err := s.session(gameID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// factory resolves the bank up front so stores can create sessions under their
// lock. A live session keeps its pinned bank, even if it is dropped before the
// store runs create.
func (s *GameService) factory(ctx context.Context, gameID, bankID string) (func() *Session, error) {
	var bank *domain.Bank
	if existing, ok := s.sessions.Get(gameID); ok {
		bank = existing.engine.Bank()
	} else {
		var err error
		bank, err = s.banks.GetBank(ctx, s.bankOrDefault(bankID))
		if err != nil {
			return nil, err
		}
	}
	return func() *Session {
		return newSessionWithClock(gameID, NewEngine(bank, s.palette), s.now)
	}, nil
}

func (s *GameService) session(gameID string) (*Session, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	session.touch()
	return session, nil
}

func (s *GameService) bankOrDefault(bankID string) string {
	if bankID == "" {
		return s.defaultBankID
	}
	return bankID
}
