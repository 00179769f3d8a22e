package bitcoinaverage

import (
	"context"
	"log/slog"
	"time"

	"ratesprovider/internal/provider"
)

type Config struct {
	Name   string // provenance label, default: BitcoinAverage.com
	Anchor string // crypto whose fiat prices are fetched, default: BTC
}

// Provider adapts the client to provider.BasketProvider.
type Provider struct {
	cfg    Config
	client *Client
}

func New(cfg Config, client *Client) *Provider {
	if cfg.Name == "" {
		cfg.Name = "BitcoinAverage.com"
	}
	if cfg.Anchor == "" {
		cfg.Anchor = "BTC"
	}
	return &Provider{cfg: cfg, client: client}
}

func (p *Provider) Name() string { return p.cfg.Name }

// FetchBasket returns nil and an error only when the whole request fails.
func (p *Provider) FetchBasket(ctx context.Context) (provider.Basket, error) {
	start := time.Now()
	u := p.client.TickerURL(p.cfg.Anchor)
	body, err := p.client.GetTickers(ctx, p.cfg.Anchor)
	if err != nil {
		slog.Warn("problem fetching exchange rates", slog.String("url", u), slog.Any("error", err))
		return nil, err
	}
	basket, err := ParseBasket(body, p.cfg.Anchor)
	if err != nil {
		slog.Warn("problem parsing exchange rates", slog.String("url", u), slog.Any("error", err))
		return nil, err
	}
	slog.Info("fetched exchange rates",
		slog.String("url", u),
		slog.Int("chars", len(body)),
		slog.Int("pairs", len(basket)),
		slog.Duration("took", time.Since(start)))
	return basket, nil
}
