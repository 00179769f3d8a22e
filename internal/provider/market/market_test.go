package market_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ratesprovider/internal/httpx"
	"ratesprovider/internal/provider/market"
	"ratesprovider/internal/rates"
)

const (
	coinexchangeOK = `{"success":"1","request":"/api/v1/getmarketsummary","message":"","result":{"MarketID":"263","LastPrice":"0.00000123","Volume":"1.2"}}`
	novaexchangeOK = `{"status":"success","message":"Info for market: DOGE_GLT","markets":[{"marketname":"DOGE_GLT","last_price":"12.50000000"}]}`
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_CoinExchange(t *testing.T) {
	t.Parallel()

	srv := serve(t, http.StatusOK, coinexchangeOK)
	p := market.New(market.Config{Code: "BTC", Source: "Coinexchange.io", URL: srv.URL, Schema: market.SchemaCoinExchange}, httpx.New(time.Second))

	q, err := p.Fetch(t.Context())
	require.NoError(t, err)
	require.Equal(t, "BTC", q.Code)
	require.Equal(t, "Coinexchange.io", q.Source)
	require.InEpsilon(t, 0.00000123, q.Price, 1e-12)
	require.False(t, q.Stale)
	require.Equal(t, "Coinexchange.io:BTC", p.Name())
}

func TestFetch_NovaExchange(t *testing.T) {
	t.Parallel()

	srv := serve(t, http.StatusOK, novaexchangeOK)
	p := market.New(market.Config{Code: "DOGE", Source: "Novaexchange.com", URL: srv.URL, Schema: market.SchemaNovaExchange}, httpx.New(time.Second))

	q, err := p.Fetch(t.Context())
	require.NoError(t, err)
	require.InEpsilon(t, 12.5, q.Price, 1e-12)
}

func TestFetch_ClassifiesFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"non-success status", http.StatusBadGateway, novaexchangeOK, rates.ErrProtocol},
		{"upstream failure flag", http.StatusOK, `{"status":"error","markets":[]}`, rates.ErrProtocol},
		{"malformed json", http.StatusOK, `{"status":`, rates.ErrParse},
		{"missing price", http.StatusOK, `{"status":"success","markets":[]}`, rates.ErrParse},
		{"non-numeric price", http.StatusOK, `{"status":"success","markets":[{"last_price":"n/a"}]}`, rates.ErrParse},
		{"zero price", http.StatusOK, `{"status":"success","markets":[{"last_price":"0"}]}`, rates.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := serve(t, tc.status, tc.body)
			p := market.New(market.Config{Code: "DOGE", Source: "Novaexchange.com", URL: srv.URL}, httpx.New(time.Second))
			_, err := p.Fetch(t.Context())
			require.Truef(t, errors.Is(err, tc.want), "want %v, got %v", tc.want, err)
		})
	}
}

func TestFetch_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	p := market.New(market.Config{Code: "LTC", Source: "Novaexchange.com", URL: url}, httpx.New(time.Second))
	_, err := p.Fetch(t.Context())
	require.ErrorIs(t, err, rates.ErrTransport)
}

func TestExtract_NumericPriceField(t *testing.T) {
	t.Parallel()

	price, err := market.Extract(market.SchemaCoinExchange, []byte(`{"success":1,"result":{"LastPrice":0.5}}`))
	require.NoError(t, err)
	require.InEpsilon(t, 0.5, price, 1e-12)
}

func TestParseSchema(t *testing.T) {
	t.Parallel()

	s, err := market.ParseSchema(" NovaExchange ")
	require.NoError(t, err)
	require.Equal(t, market.SchemaNovaExchange, s)

	_, err = market.ParseSchema("bittrex")
	require.Error(t, err)
}
