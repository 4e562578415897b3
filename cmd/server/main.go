package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"

	"podcast-studio/internal/config"
	"podcast-studio/internal/db"
	"podcast-studio/internal/handlers"
	"podcast-studio/internal/logging"
	"podcast-studio/internal/memstore"
	"podcast-studio/internal/middleware"
	"podcast-studio/internal/store"
)

// CommitSHA is set at build time via -ldflags.
var CommitSHA = "dev"

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, st, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "driver", cfg.DBDriver, "version", CommitSHA)
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if cfg.DBDriver == config.DriverMemory {
		logger.Warn("using in-memory storage; data is lost on exit")
		return memstore.New(), nil
	}

	st, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, db.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if !cfg.SkipMigrations {
		if _, _, err := st.Migrate(); err != nil {
			_ = st.Close()
			return nil, err
		}
	}
	logger.Info("database connection established", "driver", cfg.DBDriver)
	return st, nil
}

func newRouter(cfg *config.Config, st store.Store, logger *slog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.UserMiddleware(cfg.DefaultUser))

	limiter := middleware.NewRateLimiterMiddleware(cfg.Limit(), cfg.RateBurst, logger)
	handlers.New(st, logger, CommitSHA).Register(r, limiter.Middleware)
	return r
}
