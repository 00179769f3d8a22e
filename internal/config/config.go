package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Server struct {
	Port            string        `json:"port" yaml:"port" env:"PORT"`
	RequestTimeout  time.Duration `json:"request_timeout" yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type Log struct {
	Level  string `json:"level" yaml:"level" env:"LOG_LEVEL"`     // debug|info|warn|error
	Format string `json:"format" yaml:"format" env:"LOG_FORMAT"` // json|text
	Output string `json:"output" yaml:"output" env:"LOG_OUTPUT"` // stdout|stderr|<file path>
}

type Exchange struct {
	UserAgent         string        `json:"user_agent" yaml:"user_agent" env:"EXCHANGE_USER_AGENT"`
	RefreshThreshold  time.Duration `json:"refresh_threshold" yaml:"refresh_threshold" env:"EXCHANGE_REFRESH_THRESHOLD"`
	FetchTimeout      time.Duration `json:"fetch_timeout" yaml:"fetch_timeout" env:"EXCHANGE_FETCH_TIMEOUT"`
	PreferredCurrency string        `json:"preferred_currency" yaml:"preferred_currency" env:"PREFERRED_CURRENCY"`
	Locale            string        `json:"locale" yaml:"locale" env:"LOCALE"`
	SystemDefault     string        `json:"system_default" yaml:"system_default" env:"SYSTEM_DEFAULT_CURRENCY"`
	BaseCode          string        `json:"base_code" yaml:"base_code"`
}

// Market is one conversion slot. The first configured market is the reference.
type Market struct {
	Code                 string        `json:"code" yaml:"code"`
	Source               string        `json:"source" yaml:"source"`
	URL                  string        `json:"url" yaml:"url"`
	Schema               string        `json:"schema" yaml:"schema"` // coinexchange|novaexchange
	MaxRequestsPerMinute int           `json:"max_requests_per_minute" yaml:"max_requests_per_minute"`
	Burst                int           `json:"burst" yaml:"burst"`
	MinRequestInterval   time.Duration `json:"min_request_interval" yaml:"min_request_interval"`
}

type Aggregator struct {
	BaseURL string `json:"base_url" yaml:"base_url" env:"AGGREGATOR_BASE_URL"`
	Source  string `json:"source" yaml:"source"`
	Anchor  string `json:"anchor" yaml:"anchor"`
	APIKey  string `json:"api_key" yaml:"api_key" env:"AGGREGATOR_API_KEY"`
}

type Store struct {
	Backend       string `json:"backend" yaml:"backend" env:"STORE_BACKEND"` // memory|redis|postgres
	RedisAddr     string `json:"redis_addr" yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `json:"redis_password" yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `json:"redis_db" yaml:"redis_db" env:"REDIS_DB"`
	RedisKey      string `json:"redis_key" yaml:"redis_key" env:"REDIS_KEY"`
	PostgresDSN   string `json:"postgres_dsn" yaml:"postgres_dsn" env:"POSTGRES_DSN"`
}

// Kafka publishing is enabled when Brokers is non-empty.
type Kafka struct {
	Brokers []string `json:"brokers" yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `json:"topic" yaml:"topic" env:"KAFKA_TOPIC"`
}

type Metrics struct {
	Enabled   bool   `json:"enabled" yaml:"enabled" env:"METRICS_ENABLED"`
	Path      string `json:"path" yaml:"path" env:"METRICS_PATH"`
	Namespace string `json:"namespace" yaml:"namespace"`
}

type Config struct {
	Server     Server     `json:"server" yaml:"server"`
	Log        Log        `json:"log" yaml:"log"`
	Exchange   Exchange   `json:"exchange" yaml:"exchange"`
	Markets    []Market   `json:"markets" yaml:"markets"`
	Aggregator Aggregator `json:"aggregator" yaml:"aggregator"`
	Store      Store      `json:"store" yaml:"store"`
	Kafka      Kafka      `json:"kafka" yaml:"kafka"`
	Metrics    Metrics    `json:"metrics" yaml:"metrics"`
}

func novaexchange(code string) Market {
	return Market{
		Code:                 code,
		Source:               "Novaexchange.com",
		URL:                  "https://novaexchange.com/remote/v2/market/info/" + code + "_GLT/",
		Schema:               "novaexchange",
		MaxRequestsPerMinute: 30,
		Burst:                2,
	}
}

// DefaultMarkets are the six conversion slots of the base asset GLT.
func DefaultMarkets() []Market {
	return []Market{
		{
			Code:                 "BTC",
			Source:               "Coinexchange.io",
			URL:                  "https://www.coinexchange.io/api/v1/getmarketsummary?market_id=263",
			Schema:               "coinexchange",
			MaxRequestsPerMinute: 30,
			Burst:                2,
		},
		novaexchange("DOGE"),
		novaexchange("ESP2"),
		novaexchange("KIC"),
		novaexchange("LTC"),
		novaexchange("MOON"),
	}
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeout: 30 * time.Second, ShutdownTimeout: 10 * time.Second},
		Log:    Log{Level: "info", Format: "json", Output: "stdout"},
		Exchange: Exchange{
			UserAgent:        "rates-provider/1.0",
			RefreshThreshold: 10 * time.Minute,
			FetchTimeout:     15 * time.Second,
			Locale:           "en-US",
			SystemDefault:    "USD",
			BaseCode:         "GLT",
		},
		Markets: DefaultMarkets(),
		Aggregator: Aggregator{
			BaseURL: "https://apiv2.bitcoinaverage.com",
			Source:  "BitcoinAverage.com",
			Anchor:  "BTC",
		},
		Store:   Store{Backend: "memory", RedisAddr: "localhost:6379"},
		Kafka:   Kafka{Topic: "exchange-rates"},
		Metrics: Metrics{Enabled: true, Path: "/metrics", Namespace: "rates"},
	}
}

// Load reads a YAML or JSON config from path on top of Default. If path is
// empty, config.yaml is used when present. Environment variables override
// the tagged fields in either case.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if err := readFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("read config: %w", err)
			}
			return cfg, cfg.Validate()
		case !errors.Is(err, os.ErrNotExist):
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("read env: %w", err)
	}
	return cfg, cfg.Validate()
}

// readFile decodes path into cfg and then applies the environment. JSON goes
// through the YAML decoder so durations can be written as "5m" in both formats.
func readFile(path string, cfg *Config) error {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return cleanenv.ReadConfig(path, cfg)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := cleanenv.ParseYAML(f, cfg); err != nil {
		return fmt.Errorf("config file parsing error: %w", err)
	}
	return cleanenv.ReadEnv(cfg)
}

// Validate reports the first setting the service cannot run with.
func (c Config) Validate() error {
	if len(c.Markets) == 0 {
		return errors.New("config: at least one market is required")
	}
	for i, m := range c.Markets {
		if m.Code == "" || m.URL == "" {
			return fmt.Errorf("config: market %d needs code and url", i)
		}
	}
	if c.Exchange.RefreshThreshold <= 0 {
		return errors.New("config: exchange.refresh_threshold must be positive")
	}
	if c.Exchange.FetchTimeout <= 0 {
		return errors.New("config: exchange.fetch_timeout must be positive")
	}
	switch c.Store.Backend {
	case "memory", "":
	case "redis":
		if c.Store.RedisAddr == "" {
			return errors.New("config: store.redis_addr is required for redis")
		}
	case "postgres":
		if c.Store.PostgresDSN == "" {
			return errors.New("config: store.postgres_dsn is required for postgres")
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// Description lists the environment variables the config understands.
func Description() string {
	cfg := Default()
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
