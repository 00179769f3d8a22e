package rates

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	// CoinExponent is the number of decimal places of the smallest coin unit.
	CoinExponent = 8
	// FiatExponent is the number of decimal places of the smallest fiat unit.
	FiatExponent = 8
	// Precision is the rounding scale applied before converting to smallest units.
	Precision = 8
)

// OneCoin is one whole coin in smallest coin units.
const OneCoin int64 = 100_000_000

var maxUnits = decimal.NewFromInt(math.MaxInt64)

// Rate prices Coin smallest coin units at Fiat smallest fiat units.
type Rate struct {
	Coin int64 `json:"coin"`
	Fiat int64 `json:"fiat"`
}

// NewRate prices one whole coin at value, rounded half-up to Precision places.
func NewRate(value decimal.Decimal) (Rate, error) {
	v := value.Round(Precision)
	if !v.IsPositive() {
		return Rate{}, fmt.Errorf("%w: non-positive price %s", ErrValidation, v.String())
	}
	units := v.Shift(FiatExponent)
	if units.GreaterThan(maxUnits) {
		return Rate{}, fmt.Errorf("%w: price %s overflows", ErrValidation, v.String())
	}
	return Rate{Coin: OneCoin, Fiat: units.IntPart()}, nil
}

// Value returns the fiat price of one whole coin.
func (r Rate) Value() decimal.Decimal {
	if r.Coin == 0 {
		return decimal.Zero
	}
	fiat := decimal.New(r.Fiat, -FiatExponent)
	if r.Coin == OneCoin {
		return fiat
	}
	return fiat.Mul(decimal.NewFromInt(OneCoin)).DivRound(decimal.NewFromInt(r.Coin), Precision)
}

// ExchangeRate is one row of the rate table.
type ExchangeRate struct {
	Code   string `json:"currency_code"`
	Rate   Rate   `json:"rate"`
	Source string `json:"source"`
}

// Validate checks the invariants every stored rate must hold.
func (e ExchangeRate) Validate() error {
	if n := len(e.Code); n < 3 || n > 7 {
		return fmt.Errorf("%w: currency code %q must be 3-7 chars", ErrValidation, e.Code)
	}
	if e.Rate.Coin <= 0 || e.Rate.Fiat <= 0 {
		return fmt.Errorf("%w: non-positive rate for %s", ErrValidation, e.Code)
	}
	return nil
}
