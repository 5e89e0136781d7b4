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

	"github.com/betterbets/betterbets/internal/api"
	"github.com/betterbets/betterbets/internal/clock"
	"github.com/betterbets/betterbets/internal/infra/logging"
	"github.com/betterbets/betterbets/internal/infra/metrics"
	"github.com/betterbets/betterbets/internal/infra/pgutils"
	"github.com/betterbets/betterbets/internal/services/account"
	"github.com/betterbets/betterbets/internal/services/wager"
	"github.com/betterbets/betterbets/pkg/envconf"
	"github.com/betterbets/betterbets/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	dbConns, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		return dbConns.Close()
	})

	accounts := account.New(dbConns)
	engine := wager.New(dbConns, accounts, clock.System{})

	// --- HTTP servers ---
	srv := api.NewServer(cfg.Port, accounts, engine)

	metricsSrv := metrics.NewServer(cfg.MetricsPort, dbConns.PingContext)

	// Register HTTP server graceful shutdown
	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	shutdownqueue.Add(func(c context.Context) error {
		err := metricsSrv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown metrics srv: %w", err)
		}

		return nil
	})

	// Run servers
	errCh := make(chan error, 2)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	go func() {
		serr := metricsSrv.ListenAndServe()
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port, "metrics_port", cfg.MetricsPort)

	// --- Wait until either context cancels or a server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
