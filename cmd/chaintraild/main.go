// Command chaintraild runs the chaintrail audit ledger server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chaintrail/chaintrail/internal/api"
	"github.com/chaintrail/chaintrail/internal/config"
	"github.com/chaintrail/chaintrail/internal/db"
	"github.com/chaintrail/chaintrail/internal/db/migrations"
	"github.com/chaintrail/chaintrail/internal/dbpool"
	"github.com/chaintrail/chaintrail/internal/service"
	"github.com/chaintrail/chaintrail/internal/signing"
	"github.com/chaintrail/chaintrail/internal/store"
	"github.com/chaintrail/chaintrail/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("loading configuration")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	if cfg.UsingDevSecret {
		log.Warn("SIGNING_SECRET not set: using the well-known development secret; entries signed now are NOT verifiable evidence")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	signer, err := newSigningProvider(cfg)
	if err != nil {
		return err
	}

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	ledgerStore := store.NewLedgerStore(store.Base{Pool: pool, Log: log})
	ledger := service.NewAuditService(ledgerStore, signer, hub, log)

	apiKeys := make([]string, len(cfg.APIKeys))
	for i, k := range cfg.APIKeys {
		apiKeys[i] = k.Value()
	}

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:         log,
		Pool:        pool,
		Hub:         hub,
		Ledger:      ledger,
		APIKeys:     apiKeys,
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
		WSEnabled:   cfg.WSEnabled,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.Addr(),
			"version": config.Version,
			"env":     cfg.Env,
		}).Info("chaintraild listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	hub.Shutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("shutdown complete")
	return nil
}

func newSigningProvider(cfg *config.Config) (signing.Provider, error) {
	switch cfg.SigningProvider {
	case "vault":
		return signing.NewVaultProvider(cfg.VaultAddr, cfg.VaultToken.Value()), nil
	default:
		return signing.NewStaticProvider(cfg.SigningSecret.Value())
	}
}
