package main

import (
	"context"
	"log"
	"os"
	"strings"

	httpadapter "eveanchor/internal/adapter/http"
	"eveanchor/internal/bootstrap"
	"eveanchor/internal/config"
	"eveanchor/internal/logging"

	"github.com/cloudwego/hertz/pkg/app/server"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	a, err := bootstrap.Build(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("bootstrap", zap.Error(err))
	}
	defer a.Close()

	h := newHandler(a)
	s := server.Default(server.WithHostPorts(cfg.Server.Addr))
	h.RegisterRoutes(s)

	logger.Info("eveanchor server listening",
		zap.String("addr", cfg.Server.Addr),
		zap.String("corporation", a.Org.CorporationName),
		zap.String("cache", cfg.Cache.Backend),
	)
	s.Spin()
}

func newHandler(a *bootstrap.App) httpadapter.Handler {
	return httpadapter.Handler{
		SolveUC:   a.Solve,
		OutpostUC: a.Outposts,
		ProblemUC: a.Problems,
		Items:     a.Ref,
		Names:     a.Ref,
		History:   a.History,
		Metrics:   a.Metrics,
		KPI:       a.KPI,
	}
}

// configPath is the -config style override shared by the binaries. An empty
// path falls back to ./eveanchor.yaml when present.
func configPath() string {
	return strings.TrimSpace(os.Getenv("EVEANCHOR_CONFIG"))
}
