package provider

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -package=providertest -destination=providertest/mock_provider.go -source=provider.go Provider,BasketProvider

// Quote is the price of the base asset in one quote asset, as reported by one market.
type Quote struct {
	Code       string    `json:"code"`
	Price      float64   `json:"price"`
	Source     string    `json:"source"`
	ReceivedAt time.Time `json:"received_at"`
	// Stale is set when the quote is a remembered value rather than a fresh fetch.
	Stale bool `json:"stale"`
}

// Provider fetches a single conversion quote.
type Provider interface {
	Name() string
	Fetch(ctx context.Context) (Quote, error)
}

// Basket maps fiat currency codes to the anchor asset's price in that currency.
type Basket map[string]decimal.Decimal

// BasketProvider fetches the fiat basket from an aggregator.
type BasketProvider interface {
	Name() string
	FetchBasket(ctx context.Context) (Basket, error)
}
