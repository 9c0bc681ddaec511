package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booking-service/internal/handler/middleware"
	"booking-service/internal/infra/dedupe"
	"booking-service/internal/infra/messaging"
	"booking-service/internal/infra/notifier"
	"booking-service/internal/pkg/config"
	"booking-service/internal/pkg/metrics"
	"booking-service/internal/usecase/notify"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("notifier stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("notifier stopped")
}

func run() error {
	cfg, err := config.LoadNotifierConfig()
	if err != nil {
		return err
	}
	logger := middleware.NewLogger(cfg.Log).GetSlogLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := dedupe.NewClient(cfg.Redis)
	defer rdb.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = rdb.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		return err
	}

	consumer, err := messaging.NewRabbitConsumer(cfg.RabbitMQ, logger)
	if err != nil {
		return err
	}
	defer consumer.Close()

	reg := prometheus.NewRegistry()
	processor := notify.NewProcessor(
		dedupe.NewRedisDeduper(rdb, cfg.Redis),
		notifier.NewLogSender(logger),
		metrics.New(reg),
	)

	metricsSrv := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Start(gctx, processor.Handle)
	})
	g.Go(func() error {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down notifier")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
