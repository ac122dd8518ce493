package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirrezaask/claimcache/cache"
	"github.com/amirrezaask/claimcache/claims"
	"github.com/amirrezaask/claimcache/config"
	"github.com/amirrezaask/claimcache/errors"
	"github.com/amirrezaask/claimcache/kv"
	"github.com/amirrezaask/claimcache/logging"
	"github.com/amirrezaask/claimcache/server"
	"github.com/amirrezaask/claimcache/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

type store interface {
	kv.Store
	kv.Pinger
}

func openStore(ctx context.Context, c config.Config) (store, func() error, error) {
	switch c.Store {
	case config.StoreMemory:
		return kv.NewMemory(), func() error { return nil }, nil
	case config.StoreSQLite, config.StoreMySQL:
		driver := "sqlite3"
		if c.Store == config.StoreMySQL {
			driver = "mysql"
		}
		db, err := sql.Open(driver, c.SQLDSN)
		if err != nil {
			return nil, nil, errors.Wrap(err, "error in opening %s database", driver)
		}
		s, err := kv.NewSQL(ctx, db, c.Namespace)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, db.Close, nil
	default:
		r, err := kv.NewRedis(ctx, c.Redis)
		if err != nil {
			return nil, nil, errors.Wrap(err, "error in connecting to redis at %s", c.Redis.Addr())
		}
		return r, r.Close, nil
	}
}

func run(ctx context.Context) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	if _, err := logging.Init(c.Logging); err != nil {
		return errors.Wrap(err, "error in initializing logging")
	}
	shutdownTracing, err := tracing.Init(tracing.Config{Enabled: c.Tracing})
	if err != nil {
		return errors.Wrap(err, "error in initializing tracing")
	}
	defer shutdownTracing(context.Background())

	if err := c.ResolveSecrets(ctx); err != nil {
		return err
	}

	raw, closeStore, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	instrumented := kv.Instrument(raw, reg, c.Service)

	claimRepo, err := cache.New[claims.Claim](instrumented, c.ClaimTTLSeconds)
	if err != nil {
		return err
	}
	searchRepo, err := cache.New[claims.SearchResult](instrumented, c.SearchTTLSeconds)
	if err != nil {
		return err
	}
	claimCache := claims.NewClaimCache(claimRepo, searchRepo)

	srv := &http.Server{
		Addr:              c.HTTPAddr,
		Handler:           server.New(claimCache, instrumented, reg).Handler(reg, c.Service),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("claim cache listening", "addr", c.HTTPAddr, "store", c.Store,
			"claim_ttl_seconds", c.ClaimTTLSeconds, "search_ttl_seconds", c.SearchTTLSeconds)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("claim cache stopped", "err", err)
		os.Exit(1)
	}
}
