package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	cataloghttp "github.com/storeops/storefront/internal/catalog/infrastructure/http"
	catalogpg "github.com/storeops/storefront/internal/catalog/infrastructure/postgres"
	"github.com/storeops/storefront/internal/config"
	orderapp "github.com/storeops/storefront/internal/order/application"
	orderhttp "github.com/storeops/storefront/internal/order/infrastructure/http"
	orderkafka "github.com/storeops/storefront/internal/order/infrastructure/kafka"
	orderpg "github.com/storeops/storefront/internal/order/infrastructure/postgres"
	"github.com/storeops/storefront/internal/platform/postgres"
	searchapp "github.com/storeops/storefront/internal/search/application"
	searchhttp "github.com/storeops/storefront/internal/search/infrastructure/http"
	searchpg "github.com/storeops/storefront/internal/search/infrastructure/postgres"
	storehttp "github.com/storeops/storefront/internal/store/infrastructure/http"
	storepg "github.com/storeops/storefront/internal/store/infrastructure/postgres"
	"github.com/storeops/storefront/pkg/logging"
	"github.com/storeops/storefront/pkg/ratelimit"
	"github.com/storeops/storefront/pkg/shutdown"
	"github.com/storeops/storefront/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logging.New("storefront", cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, "storefront", cfg.OTLPEndpoint)
	if err != nil {
		log.Error("tracing init failed", "err", err)
		os.Exit(1)
	}
	if tp != nil {
		defer func() { _ = tp.Shutdown(ctx) }()
	}

	pool, err := postgres.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Error("schema bootstrap failed", "err", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() { _ = rdb.Close() }()

	notifier := orderkafka.NewNotifier(log, cfg.KafkaBrokers, cfg.NotifyTopic)
	defer func() { _ = notifier.Close() }()

	storeRepo := storepg.NewRepository(log, pool)
	catalogRepo := catalogpg.NewRepository(log, pool)
	orderRepo := orderpg.NewRepository(log, pool)
	searchRepo := searchpg.NewRepository(log, pool)

	orderSvc := orderapp.NewService(log, orderRepo, storeRepo, catalogRepo, notifier)
	searchSvc := searchapp.NewService(log, searchRepo)
	limiter := ratelimit.New(log, rdb, "suggest", cfg.SuggestRate, cfg.SuggestWin)

	r := chi.NewRouter()
	orderhttp.NewHandler(log, orderSvc).Register(r)
	cataloghttp.NewHandler(log, catalogRepo).Register(r)
	storehttp.NewHandler(log, storeRepo).Register(r)
	searchhttp.NewHandler(log, searchSvc, limiter).Register(r)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("storefront shutdown complete")
}
