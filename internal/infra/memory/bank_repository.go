package memory

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"netquest-service/internal/domain"
)

// BankLoader fetches bank content from a backing store (compiled-in data, Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.BankData, error)
}

// BankRepository caches indexed banks with TTL to avoid repeated loads.
// Sessions pin the *domain.Bank they were opened with, so expiry only affects new games.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedBank
}

type cachedBank struct {
	bank      *domain.Bank
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (*domain.Bank, error) {
	if bank, ok := r.cached(bankID); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		if bank, ok := r.cached(bankID); ok {
			return bank, nil
		}

		data, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return nil, err
		}
		if err := data.Validate(); err != nil {
			return nil, fmt.Errorf("bank %s: %w", bankID, err)
		}
		bank := domain.NewBank(data)

		r.mu.Lock()
		r.cache[bankID] = cachedBank{
			bank:      bank,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Bank), nil
}

func (r *BankRepository) cached(bankID string) (*domain.Bank, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[bankID]
	if !ok {
		return nil, false
	}
	// a non-positive TTL caches forever
	if r.ttl > 0 && !entry.expiresAt.After(now) {
		return nil, false
	}
	return entry.bank, true
}

// StaticBankLoader is a loader backed by an in-memory map (compiled-in content, tests).
type StaticBankLoader struct {
	banks map[string]domain.BankData
}

func NewStaticBankLoader(banks map[string]domain.BankData) *StaticBankLoader {
	return &StaticBankLoader{banks: banks}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, bankID string) (domain.BankData, error) {
	if data, ok := l.banks[bankID]; ok {
		return data, nil
	}
	return domain.BankData{}, domain.ErrBankNotFound
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// ChainLoader tries each loader in order, moving on only when a bank is not found.
type ChainLoader []BankLoader

func (c ChainLoader) LoadBank(ctx context.Context, bankID string) (domain.BankData, error) {
	for _, loader := range c {
		data, err := loader.LoadBank(ctx, bankID)
		if errors.Is(err, domain.ErrBankNotFound) {
			continue
		}
		return data, err
	}
	return domain.BankData{}, domain.ErrBankNotFound
}
