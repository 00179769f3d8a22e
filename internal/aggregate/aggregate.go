package aggregate

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"ratesprovider/internal/provider"
	"ratesprovider/internal/rates"
)

// Scalar is the base asset's price in one market's quote asset.
type Scalar struct {
	Code   string
	Price  float64
	Source string
}

// Scalars holds one value per conversion slot in slot order. Slot 0 is the
// reference market whose quote asset the basket is priced in.
type Scalars []Scalar

// ScalarsFrom converts fetched quotes to scalars, keeping their order.
func ScalarsFrom(quotes []provider.Quote) Scalars {
	out := make(Scalars, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, Scalar{Code: q.Code, Price: q.Price, Source: q.Source})
	}
	return out
}

// Options names the base asset and the basket provenance.
type Options struct {
	BaseCode         string    // base asset code, default: GLT
	AggregatorSource string    // source of basket-derived rates
	Now              time.Time // table timestamp, default: time.Now()
}

const satoshiCode = "SATOSHI"

// atomCode names the 10^-8 denomination of code.
func atomCode(code string) string {
	if code == "BTC" {
		return satoshiCode
	}
	return "µ" + code
}

var (
	thousand = decimal.NewFromInt(1000)
	sats     = decimal.NewFromInt(rates.OneCoin)
)

// Combine builds the rate table of the base asset. Every basket price is
// multiplied by the reference scalar; the reference asset, the base asset and the
// remaining scalars are then written as direct entries and win on collision.
// Values that round to zero or below are dropped.
func Combine(scalars Scalars, basket provider.Basket, opts Options) (*rates.Table, error) {
	if len(scalars) == 0 || scalars[0].Price <= 0 {
		return nil, fmt.Errorf("%w: missing reference scalar", rates.ErrValidation)
	}
	if opts.BaseCode == "" {
		opts.BaseCode = "GLT"
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	ref := scalars[0]
	r := decimal.NewFromFloat(ref.Price)
	out := make(map[string]rates.ExchangeRate, len(basket)+len(scalars)+4)

	put := func(code string, value decimal.Decimal, source string) {
		rate, err := rates.NewRate(value)
		if err != nil {
			slog.Debug("dropping rate", slog.String("code", code), slog.Any("error", err))
			return
		}
		e := rates.ExchangeRate{Code: code, Rate: rate, Source: source}
		if err := e.Validate(); err != nil {
			slog.Debug("dropping rate", slog.String("code", code), slog.Any("error", err))
			return
		}
		out[code] = e
	}

	for code, price := range basket {
		put(code, price.Mul(r), opts.AggregatorSource)
	}

	put(ref.Code, r, ref.Source)
	put("m"+ref.Code, r.Mul(thousand).Round(6), ref.Source)
	put(atomCode(ref.Code), r.Mul(sats).Round(2), ref.Source)
	put(opts.BaseCode, decimal.NewFromInt(1), ref.Source)

	for _, s := range scalars[1:] {
		put(s.Code, decimal.NewFromFloat(s.Price), s.Source)
	}

	return rates.NewTable(out, opts.Now), nil
}
