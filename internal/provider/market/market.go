// Package market fetches the base asset's last traded price on a single exchange market.
//
// All markets share one fetcher; they differ only in endpoint, provenance label and
// response Schema.
package market

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"ratesprovider/internal/provider"
	"ratesprovider/internal/rates"
)

// Schema names the response layout of a market-summary endpoint.
type Schema string

const (
	SchemaCoinExchange Schema = "coinexchange"
	SchemaNovaExchange Schema = "novaexchange"
)

type layout struct {
	okPath    string
	okValue   string
	pricePath string
}

var layouts = map[Schema]layout{
	// {"success":"1","result":{"MarketID":"263","LastPrice":"0.00000123",...}}
	SchemaCoinExchange: {okPath: "success", okValue: "1", pricePath: "result.LastPrice"},
	// {"status":"success","markets":[{"marketname":"DOGE_GLT","last_price":"12.5",...}]}
	SchemaNovaExchange: {okPath: "status", okValue: "success", pricePath: "markets.0.last_price"},
}

// ParseSchema validates a schema name from configuration.
func ParseSchema(s string) (Schema, error) {
	schema := Schema(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := layouts[schema]; !ok {
		return "", fmt.Errorf("unknown market schema %q", s)
	}
	return schema, nil
}

// Getter is the network collaborator; *httpx.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) (int, []byte, error)
}

type Config struct {
	Code   string // quote asset, e.g. BTC
	Source string // provenance label, e.g. Coinexchange.io
	URL    string
	Schema Schema
}

type Provider struct {
	cfg    Config
	client Getter
}

func New(cfg Config, client Getter) *Provider {
	if cfg.Schema == "" {
		cfg.Schema = SchemaNovaExchange
	}
	return &Provider{cfg: cfg, client: client}
}

func (p *Provider) Name() string { return p.cfg.Source + ":" + p.cfg.Code }

// Fetch performs one request and returns the last price. Every failure is logged
// and classified as a transport, protocol, parse or validation error.
func (p *Provider) Fetch(ctx context.Context) (provider.Quote, error) {
	start := time.Now()
	price, size, err := p.fetch(ctx)
	if err != nil {
		slog.Warn("problem fetching conversion",
			slog.String("source", p.cfg.Source),
			slog.String("code", p.cfg.Code),
			slog.String("url", p.cfg.URL),
			slog.Any("error", err))
		return provider.Quote{}, err
	}
	slog.Debug("fetched conversion",
		slog.String("source", p.cfg.Source),
		slog.String("code", p.cfg.Code),
		slog.Int("chars", size),
		slog.Duration("took", time.Since(start)))
	return provider.Quote{
		Code:       p.cfg.Code,
		Price:      price,
		Source:     p.cfg.Source,
		ReceivedAt: time.Now().UTC(),
	}, nil
}

func (p *Provider) fetch(ctx context.Context) (float64, int, error) {
	status, body, err := p.client.Get(ctx, p.cfg.URL)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: GET %s: %v", rates.ErrTransport, p.cfg.URL, err)
	}
	if status < 200 || status >= 300 {
		return 0, len(body), fmt.Errorf("%w: GET %s -> %d", rates.ErrProtocol, p.cfg.URL, status)
	}
	price, err := Extract(p.cfg.Schema, body)
	return price, len(body), err
}

// Extract reads the last price out of a market-summary body.
func Extract(schema Schema, body []byte) (float64, error) {
	l, ok := layouts[schema]
	if !ok {
		return 0, fmt.Errorf("%w: unknown schema %q", rates.ErrParse, schema)
	}
	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("%w: malformed json", rates.ErrParse)
	}
	flag := gjson.GetBytes(body, l.okPath)
	if !flag.Exists() {
		return 0, fmt.Errorf("%w: missing %s", rates.ErrParse, l.okPath)
	}
	if flag.String() != l.okValue {
		return 0, fmt.Errorf("%w: %s=%q", rates.ErrProtocol, l.okPath, flag.String())
	}

	v := gjson.GetBytes(body, l.pricePath)
	var price float64
	switch v.Type {
	case gjson.Number:
		price = v.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q is not numeric", rates.ErrParse, l.pricePath, v.Str)
		}
		price = f
	default:
		if !v.Exists() {
			return 0, fmt.Errorf("%w: missing %s", rates.ErrParse, l.pricePath)
		}
		return 0, fmt.Errorf("%w: %s has type %s", rates.ErrParse, l.pricePath, v.Type)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("%w: %s=%v", rates.ErrValidation, l.pricePath, price)
	}
	return price, nil
}
