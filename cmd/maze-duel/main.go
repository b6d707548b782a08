package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	appcfg "github.com/kapu/maze-duel-go/internal/config"
	"github.com/kapu/maze-duel-go/internal/duel"
	"github.com/kapu/maze-duel-go/internal/gateway"
	"github.com/kapu/maze-duel-go/internal/hub"
	"github.com/kapu/maze-duel-go/internal/obslog"
)

func main() {
	_ = godotenv.Load()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = obslog.L().Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		obslog.L().Fatal("session store init", zap.Error(err))
	}
	mgr := duel.NewManager(store)

	repo, err := duel.NewRepository(cfg.DatabaseURL)
	if err != nil {
		obslog.L().Fatal("result archive init", zap.Error(err))
	}
	if repo != nil {
		defer repo.Close()
		mgr.AttachRepository(repo)
		obslog.L().Info("result_archive_enabled")
	}

	h := hub.New()
	ws := gateway.New(h, mgr, cfg.AllowedOrigins)

	mux := http.NewServeMux()
	mux.Handle(cfg.WSPath, ws)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		obslog.L().Info("server_listen",
			zap.String("addr", cfg.ListenAddr),
			zap.String("ws_path", cfg.WSPath),
			zap.Bool("redis_store", cfg.RedisURL != ""),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		obslog.L().Info("shutdown_signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			obslog.L().Fatal("server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		obslog.L().Warn("shutdown_error", zap.Error(err))
	}
	obslog.L().Info("server_stopped")
}

func buildStore(ctx context.Context, cfg *appcfg.AppConfig) (duel.Store, error) {
	if cfg.RedisURL == "" {
		return duel.NewMemStore(cfg.SessionTTL), nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return duel.NewRedisStore(pingCtx, cfg.RedisURL)
}
