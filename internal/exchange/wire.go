package exchange

import (
	"fmt"
	"net/http"

	"ratesprovider/internal/config"
	"ratesprovider/internal/httpx"
	"ratesprovider/internal/provider"
	"ratesprovider/internal/provider/bitcoinaverage"
	"ratesprovider/internal/provider/market"
	"ratesprovider/internal/provider/ratelimit"
	"ratesprovider/internal/query"
)

// Upstreams builds the rate-limited market fetchers and the basket provider
// described by cfg.
func Upstreams(cfg config.Config) ([]provider.Provider, *bitcoinaverage.Provider, error) {
	client := httpx.New(cfg.Exchange.FetchTimeout)
	if cfg.Exchange.UserAgent != "" {
		client.UserAgent = cfg.Exchange.UserAgent
	}

	markets := make([]provider.Provider, 0, len(cfg.Markets))
	for _, m := range cfg.Markets {
		schema, err := market.ParseSchema(m.Schema)
		if err != nil {
			return nil, nil, fmt.Errorf("market %s: %w", m.Code, err)
		}
		p := market.New(market.Config{Code: m.Code, Source: m.Source, URL: m.URL, Schema: schema}, client)
		markets = append(markets, ratelimit.Wrap(p, m.MaxRequestsPerMinute, m.Burst, m.MinRequestInterval))
	}

	header := http.Header{}
	header.Set("User-Agent", client.UserAgent)
	header.Set("Accept", "application/json")
	if cfg.Aggregator.APIKey != "" {
		header.Set("X-ba-key", cfg.Aggregator.APIKey)
	}
	ba, err := bitcoinaverage.NewClient(
		bitcoinaverage.WithBaseURL(cfg.Aggregator.BaseURL),
		bitcoinaverage.WithHTTPClient(client.HTTP),
		bitcoinaverage.WithHeader(header),
	)
	if err != nil {
		return nil, nil, err
	}
	basket := bitcoinaverage.New(bitcoinaverage.Config{Name: cfg.Aggregator.Source, Anchor: cfg.Aggregator.Anchor}, ba)
	return markets, basket, nil
}

// ServiceConfig extracts the service settings from cfg.
func ServiceConfig(cfg config.Config) Config {
	return Config{
		RefreshThreshold: cfg.Exchange.RefreshThreshold,
		FetchTimeout:     cfg.Exchange.FetchTimeout,
		BaseCode:         cfg.Exchange.BaseCode,
		Resolver: query.Resolver{
			Preferred:     cfg.Exchange.PreferredCurrency,
			Locale:        cfg.Exchange.Locale,
			SystemDefault: cfg.Exchange.SystemDefault,
		},
	}
}

// FromConfig assembles a Service from cfg. deps.Markets and deps.Basket are
// built from cfg; the other collaborators are taken from deps.
func FromConfig(cfg config.Config, deps Deps) (*Service, error) {
	markets, basket, err := Upstreams(cfg)
	if err != nil {
		return nil, err
	}
	deps.Markets = markets
	deps.Basket = basket
	return New(ServiceConfig(cfg), deps)
}
