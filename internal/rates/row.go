package rates

import "github.com/cespare/xxhash/v2"

// Row is the flat record exposed to callers of a query.
type Row struct {
	ID       uint64 `json:"id"`
	Code     string `json:"currency_code"`
	RateCoin int64  `json:"rate_coin"`
	RateFiat int64  `json:"rate_fiat"`
	Source   string `json:"source"`
}

// RowOf flattens e. The id is a hash of the code so it is stable across refreshes.
func RowOf(e ExchangeRate) Row {
	return Row{
		ID:       xxhash.Sum64String(e.Code),
		Code:     e.Code,
		RateCoin: e.Rate.Coin,
		RateFiat: e.Rate.Fiat,
		Source:   e.Source,
	}
}

// ExchangeRate rebuilds the rate a row was flattened from.
func (r Row) ExchangeRate() ExchangeRate {
	return ExchangeRate{
		Code:   r.Code,
		Rate:   Rate{Coin: r.RateCoin, Fiat: r.RateFiat},
		Source: r.Source,
	}
}

// Rows flattens rates preserving order.
func Rows(entries []ExchangeRate) []Row {
	out := make([]Row, 0, len(entries))
	for _, e := range entries {
		out = append(out, RowOf(e))
	}
	return out
}
