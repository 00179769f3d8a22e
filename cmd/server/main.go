package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ratesprovider/internal/config"
	"ratesprovider/internal/events"
	"ratesprovider/internal/exchange"
	"ratesprovider/internal/logging"
	"ratesprovider/internal/metrics"
	"ratesprovider/internal/store"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logCloser, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bestGuess, storeCloser, err := store.Open(ctx, cfg.Store)
	if err != nil {
		slog.Error("opening best guess store", slog.String("backend", cfg.Store.Backend), slog.Any("error", err))
		os.Exit(1)
	}
	defer storeCloser.Close()

	var notifier events.Notifier = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		notifier = events.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	var m *metrics.RatesMetrics
	if cfg.Metrics.Enabled {
		m = metrics.New(reg, cfg.Metrics.Namespace)
	}

	svc, err := exchange.FromConfig(cfg, exchange.Deps{Store: bestGuess, Notifier: notifier, Metrics: m})
	if err != nil {
		slog.Error("building exchange service", slog.Any("error", err))
		os.Exit(1)
	}
	defer svc.Close()
	if err := svc.Start(ctx); err != nil {
		slog.Error("starting exchange service", slog.Any("error", err))
		os.Exit(1)
	}

	root := http.NewServeMux()
	if cfg.Metrics.Enabled {
		root.Handle(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	root.Handle("/", withJSONHeaders(withGzip(recoverPanic(limitBody(routes(svc, cfg.Server.RequestTimeout))))))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           root,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server", slog.Any("error", err))
			stop()
		}
	}()

	// graceful shutdown
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
