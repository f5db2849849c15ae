package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"eveanchor/internal/adapter/chat"
	"eveanchor/internal/bootstrap"
	"eveanchor/internal/config"
	"eveanchor/internal/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(strings.TrimSpace(os.Getenv("EVEANCHOR_CONFIG")))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("bootstrap", zap.Error(err))
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              cfg.Chat.Addr,
		Handler:           newMux(a, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("eveanchor chat gateway listening", zap.String("addr", cfg.Chat.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("chat gateway", zap.Error(err))
	}
}

func newMux(a *bootstrap.App, cfg config.Config, logger *zap.Logger) *http.ServeMux {
	dispatcher := chat.Dispatcher{
		Solve:    a.Solve,
		Outposts: a.Outposts,
		Problems: a.Problems,
		Items:    a.Ref,
		Names:    a.Ref,
		Logger:   logger.Named("chat"),
	}
	gateway := chat.NewGateway(dispatcher, logger.Named("gateway"), cfg.Chat.Rate, cfg.Chat.Burst, cfg.Chat.AllowedOrigins)

	mux := http.NewServeMux()
	mux.Handle("/chat", gateway.Handler())
	mux.Handle("/metrics", a.Metrics)
	return mux
}
