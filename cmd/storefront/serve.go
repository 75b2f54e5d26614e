package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	h "github.com/akshad21/Shop1t-Ecommerce-Application/internal/http"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	cat, closeCatalog, err := openCatalog(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCatalog()

	publisher := openPublisher(cfg, log)
	defer publisher.Close()

	sessions := session.NewManager(st, session.Config{
		IdleTimeout:    cfg.SessionIdleTimeout,
		SweepInterval:  cfg.SessionSweepInterval,
		PersistTimeout: cfg.PersistTimeout,
		HydrateTimeout: cfg.SessionHydrateTimeout,
	}, log.Named("session"))
	defer sessions.Close()

	storeHandler := h.NewStoreHandler(sessions, cat, publisher, cfg.RequestTimeout, log.Named("store"))
	defer storeHandler.Wait()
	catalogHandler := h.NewCatalogHandler(cat, sessions, cfg.RequestTimeout)

	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: h.NewRouter(storeHandler, catalogHandler, h.RouterConfig{
			RequestTimeout: cfg.RequestTimeout,
			Log:            log.Named("http"),
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("storefront starting", zap.String("addr", srv.Addr), zap.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}
	log.Info("server exited")
	return nil
}
