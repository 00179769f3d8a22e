package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"ratesprovider/internal/provider"
	"ratesprovider/internal/rates"
)

// Provider remembers the last quote the wrapped provider returned successfully.
// When a fetch fails it serves that quote again, marked stale. Remembered quotes
// never expire.
type Provider struct {
	P provider.Provider

	mu   sync.RWMutex
	last *provider.Quote
}

func (c *Provider) Name() string { return c.P.Name() }

// Fetch returns a fresh quote, the remembered one, or an error wrapping
// rates.ErrNoValue when neither exists.
func (c *Provider) Fetch(ctx context.Context) (provider.Quote, error) {
	q, err := c.P.Fetch(ctx)
	if err == nil {
		q.Stale = false
		c.mu.Lock()
		c.last = &q
		c.mu.Unlock()
		return q, nil
	}

	c.mu.RLock()
	last := c.last
	c.mu.RUnlock()
	if last == nil {
		return provider.Quote{}, fmt.Errorf("%s: %w: %w", c.P.Name(), rates.ErrNoValue, err)
	}
	slog.Debug("reusing last good quote", slog.String("provider", c.P.Name()), slog.Any("error", err))
	out := *last
	out.Stale = true
	return out, nil
}
