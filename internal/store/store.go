// Package store persists the single best-guess exchange rate across restarts.
package store

import (
	"context"
	"fmt"
	"sync"

	"ratesprovider/internal/rates"
)

//go:generate mockgen -package=storetest -destination=storetest/mock_store.go -source=store.go BestGuessStore

// BestGuessStore keeps one exchange rate. Get returns nil, nil when nothing
// has been stored yet. Writes are last-writer-wins.
type BestGuessStore interface {
	Get(ctx context.Context) (*rates.ExchangeRate, error)
	Set(ctx context.Context, rate rates.ExchangeRate) error
}

// Memory is a process-local BestGuessStore.
type Memory struct {
	mu   sync.RWMutex
	rate *rates.ExchangeRate
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Get(_ context.Context) (*rates.ExchangeRate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.rate == nil {
		return nil, nil
	}
	r := *m.rate
	return &r, nil
}

func (m *Memory) Set(_ context.Context, rate rates.ExchangeRate) error {
	if err := rate.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	m.mu.Lock()
	m.rate = &rate
	m.mu.Unlock()
	return nil
}
