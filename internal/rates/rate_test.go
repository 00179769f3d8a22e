package rates

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewRate_RoundsHalfUpAtEightPlaces(t *testing.T) {
	t.Parallel()

	r, err := NewRate(decimal.RequireFromString("0.000000015"))
	require.NoError(t, err)
	require.Equal(t, OneCoin, r.Coin)
	require.Equal(t, int64(2), r.Fiat)

	r, err = NewRate(decimal.RequireFromString("0.0553501518518394"))
	require.NoError(t, err)
	require.Equal(t, int64(5535015), r.Fiat)
	require.Equal(t, "0.05535015", r.Value().String())
}

func TestNewRate_RejectsNonPositive(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"0", "-1.5", "0.000000004"} {
		_, err := NewRate(decimal.RequireFromString(s))
		require.Truef(t, errors.Is(err, ErrValidation), "want validation error for %s, got %v", s, err)
	}
}

func TestNewRate_RejectsOverflow(t *testing.T) {
	t.Parallel()

	_, err := NewRate(decimal.RequireFromString("100000000000000"))
	require.ErrorIs(t, err, ErrValidation)
}

func TestRateValue_ScalesByCoinAmount(t *testing.T) {
	t.Parallel()

	r := Rate{Coin: OneCoin / 2, Fiat: 150_000_000}
	require.Equal(t, "3", r.Value().String())
	require.True(t, Rate{}.Value().IsZero())
}

func TestExchangeRateValidate(t *testing.T) {
	t.Parallel()

	ok := ExchangeRate{Code: "SATOSHI", Rate: Rate{Coin: OneCoin, Fiat: 1}, Source: "x"}
	require.NoError(t, ok.Validate())

	tooLong := ok
	tooLong.Code = "SATOSHIS"
	require.ErrorIs(t, tooLong.Validate(), ErrValidation)

	zero := ok
	zero.Rate.Fiat = 0
	require.ErrorIs(t, zero.Validate(), ErrValidation)
}
