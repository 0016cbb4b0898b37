package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"netquest-service/internal/domain"
	"netquest-service/internal/infra/memory"
)

// BankRepository caches bank content in Redis and falls back to a loader on cache miss.
// Content is stored as: SET netquest:bank:{bankID} {BankData JSON} EX ttl
// Redis lets a fleet of instances share one load per TTL. Each instance keeps the
// indexed bank for the same TTL; running games keep the bank they were opened with.
type BankRepository struct {
	client *redis.Client
	loader memory.BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu      sync.RWMutex
	indexed map[string]indexedBank
}

type indexedBank struct {
	bank      *domain.Bank
	expiresAt time.Time
}

func NewBankRepository(client *redis.Client, loader memory.BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client:  client,
		loader:  loader,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		indexed: make(map[string]indexedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (*domain.Bank, error) {
	if bank, ok := r.local(bankID); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		if bank, ok := r.local(bankID); ok {
			return bank, nil
		}
		// an unreadable or invalid cache entry counts as a miss
		data, err := r.cachedData(ctx, bankID)
		if err == nil {
			err = data.Validate()
		}
		if err != nil {
			data, err = r.loader.LoadBank(ctx, bankID)
			if err != nil {
				return nil, err
			}
			if err := data.Validate(); err != nil {
				return nil, fmt.Errorf("bank %s: %w", bankID, err)
			}
			r.store(ctx, bankID, data)
		}
		return r.index(bankID, data), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Bank), nil
}

func (r *BankRepository) cachedData(ctx context.Context, bankID string) (domain.BankData, error) {
	raw, err := r.client.Get(ctx, r.key(bankID)).Bytes()
	if err != nil {
		return domain.BankData{}, err
	}
	var data domain.BankData
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.BankData{}, fmt.Errorf("decode cached bank: %w", err)
	}
	return data, nil
}

// store is best-effort; a failed write only costs a reload next time.
func (r *BankRepository) store(ctx context.Context, bankID string, data domain.BankData) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("encode bank %s: %v", bankID, err)
		return
	}
	if err := r.client.Set(ctx, r.key(bankID), raw, r.ttlWithJitter()).Err(); err != nil {
		log.Printf("cache bank %s: %v", bankID, err)
	}
}

func (r *BankRepository) local(bankID string) (*domain.Bank, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.indexed[bankID]
	if !ok {
		return nil, false
	}
	if r.ttl > 0 && !entry.expiresAt.After(now) {
		return nil, false
	}
	return entry.bank, true
}

func (r *BankRepository) index(bankID string, data domain.BankData) *domain.Bank {
	bank := domain.NewBank(data)
	expiresAt := r.clock().Add(r.ttlWithJitter())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexed[bankID] = indexedBank{bank: bank, expiresAt: expiresAt}
	return bank
}

func (r *BankRepository) key(bankID string) string {
	return "netquest:bank:" + bankID
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
