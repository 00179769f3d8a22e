package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ratesprovider/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.Markets, 6)
	require.Equal(t, "BTC", cfg.Markets[0].Code)
	require.Equal(t, "coinexchange", cfg.Markets[0].Schema)
	require.Equal(t, "https://novaexchange.com/remote/v2/market/info/LTC_GLT/", cfg.Markets[4].URL)
	require.Equal(t, 10*time.Minute, cfg.Exchange.RefreshThreshold)
	require.Equal(t, "USD", cfg.Exchange.SystemDefault)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
exchange:
  refresh_threshold: 5m
  preferred_currency: EUR
store:
  backend: redis
  redis_addr: cache:6379
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, 5*time.Minute, cfg.Exchange.RefreshThreshold)
	require.Equal(t, "EUR", cfg.Exchange.PreferredCurrency)
	require.Equal(t, "redis", cfg.Store.Backend)
	require.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	// untouched sections keep their defaults
	require.Len(t, cfg.Markets, 6)
	require.Equal(t, "BitcoinAverage.com", cfg.Aggregator.Source)
}

func TestLoad_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "exchange": {"preferred_currency": "EUR", "refresh_threshold": "5m"},
  "store": {"backend": "redis", "redis_addr": "cache:6379"},
  "kafka": {"brokers": ["k1:9092"]}
}`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "EUR", cfg.Exchange.PreferredCurrency)
	require.Equal(t, 5*time.Minute, cfg.Exchange.RefreshThreshold)
	require.Equal(t, "redis", cfg.Store.Backend)
	require.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	require.Equal(t, []string{"k1:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, 15*time.Second, cfg.Exchange.FetchTimeout)
	require.Len(t, cfg.Markets, 6)
}

func TestLoad_JSONFileEnvOverrides(t *testing.T) {
	t.Setenv("PREFERRED_CURRENCY", "CHF")
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"exchange":{"preferred_currency":"EUR"}}`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "CHF", cfg.Exchange.PreferredCurrency)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("PREFERRED_CURRENCY", "CHF")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("EXCHANGE_FETCH_TIMEOUT", "3s")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, "7070", cfg.Server.Port)
	require.Equal(t, "CHF", cfg.Exchange.PreferredCurrency)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, 3*time.Second, cfg.Exchange.FetchTimeout)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*config.Config){
		"no markets":       func(c *config.Config) { c.Markets = nil },
		"market url":       func(c *config.Config) { c.Markets[2].URL = "" },
		"threshold":        func(c *config.Config) { c.Exchange.RefreshThreshold = 0 },
		"fetch timeout":    func(c *config.Config) { c.Exchange.FetchTimeout = -time.Second },
		"unknown backend":  func(c *config.Config) { c.Store.Backend = "etcd" },
		"postgres dsn":     func(c *config.Config) { c.Store.Backend = "postgres" },
		"redis addr empty": func(c *config.Config) { c.Store.Backend = "redis"; c.Store.RedisAddr = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
