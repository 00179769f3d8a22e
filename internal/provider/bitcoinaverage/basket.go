package bitcoinaverage

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"ratesprovider/internal/provider"
	"ratesprovider/internal/rates"
)

// ParseBasket extracts the day average of every anchor/fiat pair. Keys look like
// "BTCUSD"; pairs quoting one of the anchor's own denominations are ignored. A
// malformed pair is logged and skipped, a malformed document is an error.
func ParseBasket(body []byte, anchor string) (provider.Basket, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed json", rates.ErrParse)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: root is %s, want object", rates.ErrParse, root.Type)
	}

	own := ownDenominations(anchor)
	basket := make(provider.Basket)
	root.ForEach(func(key, value gjson.Result) bool {
		pair := key.String()
		if !strings.HasPrefix(pair, anchor) {
			return true
		}
		code := pair[len(anchor):]
		if code == "" {
			return true
		}
		if _, skip := own[code]; skip {
			return true
		}
		price, err := dayAverage(value)
		if err != nil {
			slog.Warn("problem parsing fiat rate", slog.String("pair", pair), slog.Any("error", err))
			return true
		}
		basket[code] = price
		return true
	})
	return basket, nil
}

func dayAverage(v gjson.Result) (decimal.Decimal, error) {
	day := v.Get("averages.day")
	var raw string
	switch day.Type {
	case gjson.Number:
		raw = day.Raw
	case gjson.String:
		raw = strings.TrimSpace(day.Str)
	default:
		if !day.Exists() {
			return decimal.Zero, fmt.Errorf("%w: missing averages.day", rates.ErrParse)
		}
		return decimal.Zero, fmt.Errorf("%w: averages.day has type %s", rates.ErrParse, day.Type)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: averages.day=%q: %v", rates.ErrParse, raw, err)
	}
	return d, nil
}

func ownDenominations(anchor string) map[string]struct{} {
	return map[string]struct{}{
		anchor:       {},
		"m" + anchor: {},
		"µ" + anchor: {},
		"u" + anchor: {},
	}
}
