package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/lol-draft-companion/internal/catalog"
	"github.com/DoyleJ11/lol-draft-companion/internal/config"
	"github.com/DoyleJ11/lol-draft-companion/internal/httpapi"
	"github.com/DoyleJ11/lol-draft-companion/internal/hub"
	"github.com/DoyleJ11/lol-draft-companion/internal/logging"
	"github.com/DoyleJ11/lol-draft-companion/internal/metrics"
	"github.com/DoyleJ11/lol-draft-companion/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.LoadFile(cfg.ChampionData)
	if err != nil {
		return err
	}
	log.Info("champion catalog loaded", zap.Int("champions", cat.Len()))

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	m := metrics.NewService(prometheus.DefaultRegisterer)
	h := hub.NewHub(ctx, log, m)

	// Build the router *with* the hub injected
	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Hub:       h,
			Store:     st,
			Catalog:   cat,
			Metrics:   m,
			Gatherer:  prometheus.DefaultGatherer,
			Logger:    log,
			WSOrigins: cfg.WSOrigins,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		if stopErr := h.Stop(shutdownCtx); stopErr != nil {
			log.Warn("hub did not stop before the shutdown timeout", zap.Error(stopErr))
		}
		return err
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (store.Store, error) {
	if cfg.DatabaseURL != "" {
		return store.OpenPostgres(ctx, cfg.DatabaseURL, log)
	}
	return store.OpenSQLite(cfg.SQLitePath, log)
}
