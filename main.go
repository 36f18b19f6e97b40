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

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	httpapi "github.com/yourorg/realty-agent-api/http"
	"github.com/yourorg/realty-agent-api/internal/archive"
	"github.com/yourorg/realty-agent-api/internal/config"
	"github.com/yourorg/realty-agent-api/internal/redisx"
	"github.com/yourorg/realty-agent-api/internal/store"
	"github.com/yourorg/realty-agent-api/smythos"
)

func main() {
	if err := run(); err != nil {
		zap.L().Error("agent-api exited", zap.Error(err))
		fmt.Fprintln(os.Stderr, eris.ToString(err, true))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		return err
	}
	defer zap.L().Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := smythos.NewClient(smythos.Options{
		BaseURL:      cfg.Upstream.BaseURL,
		Timeout:      time.Duration(cfg.Upstream.TimeoutSecs) * time.Second,
		RatePerSec:   cfg.Upstream.RatePerSec,
		Burst:        cfg.Upstream.Burst,
		MaxBodyBytes: cfg.Upstream.MaxBodyBytes,
	})

	// Both sinks are optional; keep the interfaces nil when unconfigured.
	var (
		writer   archive.SnapshotWriter
		counter  archive.ShapeCounter
		diagDeps httpapi.DiagnosticsDeps
	)
	if cfg.Store.DatabaseURL != "" {
		st, err := store.Open(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		writer, diagDeps.Snapshots = st, st
		zap.L().Info("snapshot archive enabled")
	}
	if cfg.Redis.Addr != "" {
		rc := redisx.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rc.Close() //nolint:errcheck
		if err := rc.Ping(ctx); err != nil {
			zap.L().Warn("redis unreachable, shape counters disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			counter, diagDeps.Shapes = rc, rc
			zap.L().Info("shape counters enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}
	rec := archive.NewRecorder(writer, counter, archive.Options{
		QueueSize: cfg.Archive.QueueSize,
		Workers:   cfg.Archive.Workers,
	})

	router := BuildRouter(httpapi.Deps{Upstream: client, Recorder: rec}, diagDeps, RouterOptions{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// the agent may take up to the upstream timeout to answer
		WriteTimeout: time.Duration(cfg.Upstream.TimeoutSecs+10) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("agent-api listening", zap.Int("port", cfg.Server.Port), zap.String("upstream", cfg.Upstream.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return eris.Wrap(err, "http server")
		}
	case <-ctx.Done():
		zap.L().Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Warn("http shutdown", zap.Error(err))
	}
	if err := rec.Close(shutdownCtx); err != nil {
		zap.L().Warn("archive drain incomplete", zap.Int64("dropped", rec.Dropped()), zap.Error(err))
	}
	return nil
}
