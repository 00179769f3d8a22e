package store

import (
	"context"
	"io"

	"ratesprovider/internal/config"
	"ratesprovider/internal/store/pgstore"
	"ratesprovider/internal/store/redisstore"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the backend selected by cfg and a closer for its connections.
func Open(ctx context.Context, cfg config.Store) (BestGuessStore, io.Closer, error) {
	switch cfg.Backend {
	case "redis":
		rdb, err := redisstore.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.New(rdb, cfg.RedisKey), rdb, nil
	case "postgres":
		s, err := pgstore.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return NewMemory(), nopCloser{}, nil
	}
}
