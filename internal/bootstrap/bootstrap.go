// Package bootstrap wires the reference data, repositories, caches and use
// cases shared by the server and chat binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	localcache "eveanchor/internal/adapter/cache/local"
	rediscache "eveanchor/internal/adapter/cache/redis"
	sqlitehistory "eveanchor/internal/adapter/history/sqlite"
	metricsinmem "eveanchor/internal/adapter/metrics/inmemory"
	metricsprom "eveanchor/internal/adapter/metrics/prom"
	gormrepo "eveanchor/internal/adapter/repo/gorm"
	"eveanchor/internal/adapter/repo/memory"
	"eveanchor/internal/app/org"
	"eveanchor/internal/app/outpost"
	"eveanchor/internal/app/ports"
	"eveanchor/internal/app/problem"
	"eveanchor/internal/app/solve"
	"eveanchor/internal/config"
	"eveanchor/internal/domain/harvest"
	"eveanchor/internal/refdata"
	"eveanchor/migrations"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type repos struct {
	tx           ports.TxManager
	alliances    ports.AllianceRepository
	corporations ports.CorporationRepository
	members      ports.MemberRepository
	capsuleers   ports.CapsuleerRepository
	outposts     ports.OutpostRepository
	problems     ports.ProblemRepository
}

// App holds everything a front-end needs. Close releases the connections it
// opened.
type App struct {
	Ref      *refdata.Store
	Tuning   harvest.Tuning
	Org      org.Organisation
	Solve    solve.UseCase
	Outposts outpost.UseCase
	Problems problem.UseCase
	History  ports.SolveHistory
	KPI      *metricsinmem.Recorder
	Metrics  http.Handler

	closers []func() error
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{}
	ok := false
	defer func() {
		if !ok {
			_ = app.Close()
		}
	}()

	ref, err := refdata.Load(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("load reference data from %s: %w", cfg.Data.Dir, err)
	}
	app.Ref = ref
	stats := ref.Stats()
	logger.Info("reference data loaded",
		zap.String("dir", cfg.Data.Dir),
		zap.Int("items", stats.Items),
		zap.Int("systems", stats.Systems),
		zap.Int("planets", stats.Planets),
		zap.String("digest", ref.Digest()),
	)

	app.Tuning = harvest.DefaultTuning()
	if cfg.Data.TuningFile != "" {
		if app.Tuning, err = harvest.LoadTuning(cfg.Data.TuningFile); err != nil {
			return nil, err
		}
	}

	r, err := app.buildRepos(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.Org, err = org.UseCase{TxManager: r.tx, Alliances: r.alliances, Corporations: r.corporations}.
		Ensure(ctx, cfg.Org.Alliance, cfg.Org.Corporation)
	if err != nil {
		return nil, fmt.Errorf("ensure organisation: %w", err)
	}

	cache, err := app.buildCache(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom, err := metricsprom.NewRecorder(reg)
	if err != nil {
		return nil, err
	}
	app.KPI = metricsinmem.NewRecorder()
	app.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})

	if cfg.History.Path != "" {
		h, err := sqlitehistory.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open solve history: %w", err)
		}
		app.closers = append(app.closers, h.Close)
		app.History = h
	}

	app.Solve = solve.UseCase{
		Locations: ref,
		Tuning:    app.Tuning,
		Cache:     cache,
		Metrics:   fanout{app.KPI, prom},
		History:   app.History,
		Logger:    logger.Named("solve"),
		Now:       time.Now,
	}
	app.Outposts = outpost.UseCase{
		TxManager:  r.tx,
		Members:    r.members,
		Capsuleers: r.capsuleers,
		Outposts:   r.outposts,
		Systems:    ref,
		Org:        app.Org,
	}
	app.Problems = problem.UseCase{
		TxManager:  r.tx,
		Members:    r.members,
		Capsuleers: r.capsuleers,
		Problems:   r.problems,
		Outposts:   r.outposts,
		Items:      ref,
		Names:      ref,
		Solver:     app.Solve,
		Org:        app.Org,
		Now:        time.Now,
	}
	ok = true
	return app, nil
}

func (a *App) buildRepos(ctx context.Context, cfg config.Config, logger *zap.Logger) (repos, error) {
	if cfg.Database.DSN == "" {
		logger.Warn("no database dsn configured, outposts and problems are kept in memory")
		store := memory.NewStore()
		return repos{
			tx:           memory.NewTxManager(store),
			alliances:    memory.NewAllianceRepo(store),
			corporations: memory.NewCorporationRepo(store),
			members:      memory.NewMemberRepo(store),
			capsuleers:   memory.NewCapsuleerRepo(store),
			outposts:     memory.NewOutpostRepo(store),
			problems:     memory.NewProblemRepo(store),
		}, nil
	}

	db, err := gormrepo.OpenPostgres(cfg.Database.DSN, gormrepo.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return repos{}, err
	}
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}
	if cfg.Database.Migrate {
		if err := gormrepo.ApplyMigrations(ctx, db, migrations.FS); err != nil {
			return repos{}, err
		}
	}
	return repos{
		tx:           gormrepo.NewTxManager(db),
		alliances:    gormrepo.NewAllianceRepo(db),
		corporations: gormrepo.NewCorporationRepo(db),
		members:      gormrepo.NewMemberRepo(db),
		capsuleers:   gormrepo.NewCapsuleerRepo(db),
		outposts:     gormrepo.NewOutpostRepo(db),
		problems:     gormrepo.NewProblemRepo(db),
	}, nil
}

func (a *App) buildCache(ctx context.Context, cfg config.Config, logger *zap.Logger) (ports.ResultCache, error) {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return nil, nil
	case config.CacheRedis:
		client, err := rediscache.Dial(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Cache.RedisAddr, err)
		}
		a.closers = append(a.closers, client.Close)
		return rediscache.New(client, cfg.Cache.TTL, logger.Named("cache")), nil
	default:
		return localcache.New(cfg.Cache.TTL), nil
	}
}

// fanout records every observation on each recorder.
type fanout []ports.SolveMetrics

func (f fanout) RecordSolve(outcome ports.SolveOutcome, elapsed time.Duration) {
	for _, m := range f {
		m.RecordSolve(outcome, elapsed)
	}
}

func (f fanout) RecordCacheHit() {
	for _, m := range f {
		m.RecordCacheHit()
	}
}

func (f fanout) RecordCacheMiss() {
	for _, m := range f {
		m.RecordCacheMiss()
	}
}
