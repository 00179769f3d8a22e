package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ratesprovider/internal/rates"
)

// DefaultKey is the key the best guess is stored under.
const DefaultKey = "exchangerates:best_guess"

// Client is the subset of redis.Cmdable the store uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Store keeps the best guess as JSON under one key.
type Store struct {
	rdb Client
	key string
}

func New(rdb Client, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{rdb: rdb, key: key}
}

// Dial connects to redis at addr and checks the connection.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (s *Store) Get(ctx context.Context) (*rates.ExchangeRate, error) {
	b, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	var r rates.ExchangeRate
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("redis get %s: %w: %v", s.key, rates.ErrParse, err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return &r, nil
}

func (s *Store) Set(ctx context.Context, rate rates.ExchangeRate) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	b, err := json.Marshal(rate)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key, b, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
