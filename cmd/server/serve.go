package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/soaringjerry/wellcheck/internal/api"
	"github.com/soaringjerry/wellcheck/internal/config"
	dbstore "github.com/soaringjerry/wellcheck/internal/db"
	"github.com/soaringjerry/wellcheck/internal/middleware"
	"github.com/soaringjerry/wellcheck/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cfg.Auth.JWTSecret == "" {
		logger.Warn("auth.jwt_secret not set, using development secret")
	}
	middleware.SetSecret(cfg.Auth.JWTSecret)

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeStore(); cerr != nil {
			logger.Warn("close store", zap.Error(cerr))
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(cfg, store, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("wellcheck server listening", zap.String("addr", cfg.Addr), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openStore returns the configured store and its closer.
func openStore(cfg *config.Config, logger *zap.Logger) (api.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		if cfg.Storage.SnapshotPath == "" {
			logger.Warn("memory store without snapshot_path; sessions are lost on restart")
			return api.NewMemoryStore(), noop, nil
		}
		store, err := api.OpenMemoryStore(cfg.Storage.SnapshotPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open snapshot: %w", err)
		}
		return store, noop, nil
	default:
		if err := MigrateIfNeeded(logger, cfg.Storage.Driver, cfg.Storage.SnapshotPath, cfg.Storage.Path, cfg.Storage.MigrationsDir); err != nil {
			return nil, nil, err
		}
		db, err := dbstore.Open(cfg.Storage.Driver, cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := dbstore.RunMigrations(db, cfg.Storage.MigrationsDir); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		store, err := dbstore.NewSQLiteStore(db, logger.Named("sqlite"))
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("init sqlite store: %w", err)
		}
		return store, db.Close, nil
	}
}

func newHandler(cfg *config.Config, store api.Store, logger *zap.Logger) http.Handler {
	commit := os.Getenv("WELLCHECK_COMMIT")
	buildTime := os.Getenv("WELLCHECK_BUILD_TIME")

	mux := http.NewServeMux()
	api.NewRouter(store, logger, cfg.Auth.TokenTTL).Register(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		locale := middleware.LocaleFromContext(r.Context())
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "wellcheck",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"commit":     commit,
			"build_time": buildTime,
		})
	})
	mux.HandleFunc("GET /version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"commit": commit, "build_time": buildTime})
	})
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return middleware.SecureHeaders(
		middleware.NoStore(
			middleware.CORS(
				middleware.LocaleMiddleware(
					middleware.RequestLogger(logger.Named("http"))(mux)))))
}
