// Package exchange owns the rate table: when it is refreshed, how a refresh is
// assembled from the upstream fetchers, and how queries are answered from it.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"ratesprovider/internal/aggregate"
	"ratesprovider/internal/events"
	"ratesprovider/internal/metrics"
	"ratesprovider/internal/provider"
	"ratesprovider/internal/provider/cache"
	"ratesprovider/internal/query"
	"ratesprovider/internal/rates"
	"ratesprovider/internal/store"
)

// ErrAborted wraps the reason a refresh cycle gave up without publishing.
var ErrAborted = errors.New("refresh aborted")

// ErrClosed is returned by a refresh that runs into a closed Service.
var ErrClosed = errors.New("exchange: service closed")

const refreshKey = "refresh"

type Config struct {
	RefreshThreshold time.Duration // default: 10m
	FetchTimeout     time.Duration // default: 15s
	BaseCode         string        // default: GLT
	Resolver         query.Resolver
}

// Deps are the collaborators of a Service. Markets are in slot order and must
// not be empty; the first one is the reference market.
type Deps struct {
	Markets  []provider.Provider
	Basket   provider.BasketProvider
	Store    store.BestGuessStore // default: in-memory
	Notifier events.Notifier      // default: events.Nop
	Metrics  *metrics.RatesMetrics
	Now      func() time.Time
}

// Request selects the query mode: Code for an exact lookup, otherwise Q for a
// substring match, otherwise everything. Offline never triggers a refresh.
type Request struct {
	Code    string
	Q       string
	Offline bool
}

// Service serves exchange rates from an in-memory table that is rebuilt on
// demand once it is older than the refresh threshold.
type Service struct {
	cfg      Config
	slots    []*cache.Provider
	basket   provider.BasketProvider
	store    store.BestGuessStore
	notifier events.Notifier
	metrics  *metrics.RatesMetrics
	now      func() time.Time

	table       atomic.Pointer[rates.Table]
	lastRefresh atomic.Int64 // unix nanos of the last published refresh, 0 if none
	sf          singleflight.Group

	// mu orders publishing a table against Close.
	mu     sync.Mutex
	closed bool
}

func New(cfg Config, deps Deps) (*Service, error) {
	if len(deps.Markets) == 0 {
		return nil, errors.New("exchange: no markets configured")
	}
	if deps.Basket == nil {
		return nil, errors.New("exchange: no basket provider configured")
	}
	if cfg.RefreshThreshold <= 0 {
		cfg.RefreshThreshold = 10 * time.Minute
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	if cfg.BaseCode == "" {
		cfg.BaseCode = "GLT"
	}
	if deps.Store == nil {
		deps.Store = store.NewMemory()
	}
	if deps.Notifier == nil {
		deps.Notifier = events.Nop{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Discard()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	slots := make([]*cache.Provider, 0, len(deps.Markets))
	for _, p := range deps.Markets {
		slots = append(slots, &cache.Provider{P: p})
	}
	return &Service{
		cfg:      cfg,
		slots:    slots,
		basket:   deps.Basket,
		store:    deps.Store,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		now:      deps.Now,
	}, nil
}

// Start seeds the table with the persisted best guess, if there is one. The
// seeded table is served but never counts as fresh.
func (s *Service) Start(ctx context.Context) error {
	best, err := s.store.Get(ctx)
	if err != nil {
		s.metrics.StoreErrorsTotal.WithLabelValues("get").Inc()
		slog.Warn("problem loading cached exchange rate", slog.Any("error", err))
		return nil
	}
	if best == nil {
		return nil
	}
	seed := rates.NewTable(map[string]rates.ExchangeRate{best.Code: *best}, s.now())
	if s.table.CompareAndSwap(nil, seed) {
		slog.Info("seeded exchange rates from cache",
			slog.String("code", best.Code), slog.String("source", best.Source))
	}
	return nil
}

// Close releases the notifier and drops the table. It waits for a table that
// is being published; a refresh still fetching at that point is discarded.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.table.Store(nil)
	s.lastRefresh.Store(0)
	return s.notifier.Close()
}

func (s *Service) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Table returns the current snapshot, nil if none has been populated.
func (s *Service) Table() *rates.Table { return s.table.Load() }

// Fresh reports whether the table was refreshed within the threshold.
func (s *Service) Fresh() bool {
	last := s.lastRefresh.Load()
	if last == 0 {
		return false
	}
	return s.now().Sub(time.Unix(0, last)) <= s.cfg.RefreshThreshold
}

// Query answers req from the current table, refreshing it first when it is
// stale and req is not offline. It returns rates.ErrUnavailable when no table
// has ever been populated and an empty slice when nothing matches.
func (s *Service) Query(ctx context.Context, req Request) ([]rates.Row, error) {
	if !req.Offline && !s.Fresh() {
		err := s.await(ctx, func(ctx context.Context) error {
			if s.Fresh() {
				return nil
			}
			return s.refresh(ctx)
		})
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			slog.Warn("serving previous exchange rates", slog.Any("error", err))
		}
	}

	mode := modeOf(req)
	t := s.table.Load()
	if t == nil {
		s.metrics.QueryTotal.WithLabelValues(mode, "unavailable").Inc()
		return nil, rates.ErrUnavailable
	}

	var found []rates.ExchangeRate
	switch mode {
	case "exact":
		if e, ok := query.Exact(t, req.Code, s.cfg.Resolver); ok {
			found = []rates.ExchangeRate{e}
		}
	case "fuzzy":
		found = query.Fuzzy(t, req.Q)
	default:
		found = query.All(t)
	}

	result := "hit"
	if len(found) == 0 {
		result = "miss"
	}
	s.metrics.QueryTotal.WithLabelValues(mode, result).Inc()
	return rates.Rows(found), nil
}

func modeOf(req Request) string {
	switch {
	case req.Code != "":
		return "exact"
	case req.Q != "":
		return "fuzzy"
	default:
		return "all"
	}
}

// Refresh rebuilds the table regardless of its age. It joins a refresh that is
// already in flight instead of starting another one.
func (s *Service) Refresh(ctx context.Context) error {
	return s.await(ctx, s.refresh)
}

// await runs fn at most once at a time. Callers that arrive while it runs wait
// for and share its outcome; the run itself is not canceled with any caller.
func (s *Service) await(ctx context.Context, fn func(context.Context) error) error {
	ch := s.sf.DoChan(refreshKey, func() (any, error) {
		return nil, fn(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func (s *Service) refresh(ctx context.Context) (err error) {
	if s.isClosed() {
		return ErrClosed
	}
	cycle := uuid.NewString()
	log := slog.With(slog.String("cycle", cycle))
	start := time.Now()
	defer func() {
		s.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
		switch {
		case err == nil:
			s.metrics.RefreshTotal.WithLabelValues(metrics.OutcomeOK).Inc()
		case errors.Is(err, ErrAborted):
			s.metrics.RefreshTotal.WithLabelValues(metrics.OutcomeAborted).Inc()
		default:
			s.metrics.RefreshTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		}
	}()

	quotes, errs := s.fetchSlots(ctx)
	scalars, stale, err := s.fold(quotes, errs)
	if err != nil {
		log.Warn("aborting exchange rate refresh", slog.Any("error", err))
		return err
	}

	basket, err := s.fetchBasket(ctx)
	if err != nil {
		log.Warn("aborting exchange rate refresh", slog.Any("error", err))
		return fmt.Errorf("%w: %s: %w", ErrAborted, s.basket.Name(), err)
	}

	now := s.now()
	table, err := aggregate.Combine(scalars, basket, aggregate.Options{
		BaseCode:         s.cfg.BaseCode,
		AggregatorSource: s.basket.Name(),
		Now:              now,
	})
	if err != nil {
		return fmt.Errorf("combine rates: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		log.Info("discarding exchange rates, service closed")
		return ErrClosed
	}
	s.table.Store(table)
	s.lastRefresh.Store(now.UnixNano())
	s.metrics.TableSize.Set(float64(table.Len()))
	s.metrics.TableUpdatedTime.Set(float64(now.Unix()))
	log.Info("published exchange rates",
		slog.Int("entries", table.Len()),
		slog.Any("stale_sources", stale),
		slog.Duration("took", time.Since(start)))

	best := s.persist(ctx, table, log)
	if err := s.notifier.TablePublished(ctx, events.TablePublished{
		CycleID:      cycle,
		UpdatedAt:    now,
		Entries:      table.Len(),
		BestGuess:    best,
		StaleSources: stale,
	}); err != nil {
		log.Warn("problem publishing table event", slog.Any("error", err))
	}
	return nil
}

// fetchSlots fetches every slot concurrently, each bounded by the fetch timeout.
func (s *Service) fetchSlots(ctx context.Context) ([]provider.Quote, []error) {
	quotes := make([]provider.Quote, len(s.slots))
	errs := make([]error, len(s.slots))

	var g errgroup.Group
	for i, slot := range s.slots {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
			defer cancel()
			t0 := time.Now()
			q, err := slot.Fetch(fctx)
			s.metrics.FetchDuration.WithLabelValues(slot.Name()).Observe(time.Since(t0).Seconds())

			result := "ok"
			switch {
			case err != nil:
				result = "error"
			case q.Stale:
				result = "stale"
			}
			s.metrics.FetchTotal.WithLabelValues(slot.Name(), result).Inc()
			quotes[i], errs[i] = q, err
			return nil
		})
	}
	_ = g.Wait()
	return quotes, errs
}

// fold walks the slots in order and stops at the first one without a value.
func (s *Service) fold(quotes []provider.Quote, errs []error) (aggregate.Scalars, []string, error) {
	var stale []string
	for i, q := range quotes {
		if errs[i] != nil {
			return nil, nil, fmt.Errorf("%w: slot %d (%s): %w", ErrAborted, i, s.slots[i].Name(), errs[i])
		}
		if q.Stale {
			stale = append(stale, s.slots[i].Name())
		}
	}
	return aggregate.ScalarsFrom(quotes), stale, nil
}

func (s *Service) fetchBasket(ctx context.Context) (provider.Basket, error) {
	fctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()
	t0 := time.Now()
	basket, err := s.basket.FetchBasket(fctx)
	s.metrics.FetchDuration.WithLabelValues(s.basket.Name()).Observe(time.Since(t0).Seconds())
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.metrics.FetchTotal.WithLabelValues(s.basket.Name(), result).Inc()
	return basket, err
}

// persist stores the entry the resolver picks for the preferred currency.
func (s *Service) persist(ctx context.Context, t *rates.Table, log *slog.Logger) *rates.ExchangeRate {
	best, ok := query.Exact(t, "", s.cfg.Resolver)
	if !ok {
		log.Warn("no entry to cache for preferred currency")
		return nil
	}
	if err := s.store.Set(ctx, best); err != nil {
		s.metrics.StoreErrorsTotal.WithLabelValues("set").Inc()
		log.Warn("problem caching exchange rate", slog.String("code", best.Code), slog.Any("error", err))
	}
	return &best
}
