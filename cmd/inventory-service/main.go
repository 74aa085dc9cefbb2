package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/stockkeeper/inventory/internal/config"
	"github.com/stockkeeper/inventory/internal/inventory/application"
	inventoryHTTP "github.com/stockkeeper/inventory/internal/inventory/infrastructure/http"
	inventoryDB "github.com/stockkeeper/inventory/internal/inventory/infrastructure/postgres"
	"github.com/stockkeeper/inventory/pkg/idempotency"
	"github.com/stockkeeper/inventory/pkg/logging"
	"github.com/stockkeeper/inventory/pkg/shutdown"
	"github.com/stockkeeper/inventory/pkg/tracing"
)

func main() {
	log := logging.New()
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg := config.Load()

	tp, err := tracing.Init(ctx, "inventory-service", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	pool, err := pgxpool.New(ctx, cfg.PGURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	retry := inventoryDB.RetryConfig{
		Attempts: cfg.RetryCount,
		Delay:    cfg.RetryDelay,
		Backoff:  cfg.RetryBackoff,
	}
	if err := inventoryDB.EnsureSchema(ctx, log, pool, retry); err != nil {
		log.Error("schema init failed", "err", err)
		os.Exit(1)
	}

	var idem idempotency.Seener
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = rdb.Close() }()
		idem = idempotency.NewStore(rdb, cfg.IdempotencyTTL)
	}

	repo := inventoryDB.NewRepository(log, pool)
	svc := application.NewService(repo)
	handler := inventoryHTTP.NewHandler(log, svc, idem)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.Routes(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("inventory-service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
	log.Info("inventory-service shutdown")
}
