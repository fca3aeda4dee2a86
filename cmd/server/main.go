package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	avataradapter "mensaplan/internal/adapter/avatar"
	"mensaplan/internal/adapter/assets"
	"mensaplan/internal/adapter/events"
	httpadapter "mensaplan/internal/adapter/http"
	"mensaplan/internal/adapter/metrics"
	metricsinmem "mensaplan/internal/adapter/metrics/inmemory"
	"mensaplan/internal/adapter/metrics/prom"
	gormrepo "mensaplan/internal/adapter/repo/gorm"
	"mensaplan/internal/adapter/repo/memory"
	"mensaplan/internal/app/auth"
	"mensaplan/internal/app/avatar"
	"mensaplan/internal/app/planview"
	"mensaplan/internal/app/ports"
	"mensaplan/internal/app/position"
	"mensaplan/internal/platform/config"
	platformotel "mensaplan/internal/platform/otel"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		config.Exitf("load config: %v", err)
	}
	level, _ := cfg.Level()
	hlog.SetLevel(level)

	ctx := context.Background()
	shutdownTracing, err := platformotel.Setup(ctx, "mensaplan", cfg.OTel.Endpoint)
	if err != nil {
		config.Exitf("setup tracing: %v", err)
	}

	accounts, err := buildAccounts(ctx, cfg)
	if err != nil {
		config.Exitf("%v", err)
	}

	kpi := metricsinmem.NewRecorder()
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promRecorder, err := prom.NewRecorder(reg)
	if err != nil {
		config.Exitf("register metrics: %v", err)
	}
	recorder := metrics.Tee{kpi, promRecorder}

	blobs, blobCache, closeRedis, err := buildAvatarSource(ctx, cfg, accounts.sources)
	if err != nil {
		config.Exitf("%v", err)
	}
	publisher, closePublisher := buildPublisher(cfg)

	positions := memory.NewPositionStore()
	avatars := memory.NewAvatarCache()
	avatars.Metrics = recorder

	planUC := planview.UseCase{
		Positions:  positions,
		Avatars:    avatars,
		Fetcher:    avataradapter.Decoder{Blobs: blobs},
		Background: assets.NewBackground(cfg.Plan.AssetsDir, cfg.Plan.Background),
		Filename:   cfg.Plan.Filename,
		Metrics:    recorder,
		Now:        time.Now,
	}

	h := httpadapter.Handler{
		RegisterUC: auth.RegisterUseCase{
			Credentials: accounts.credentials,
			Sources:     accounts.sources,
			TxManager:   accounts.tx,
			Now:         time.Now,
		},
		AuthUC: auth.VerifyUseCase{Credentials: accounts.credentials},
		PositionUC: position.UseCase{
			Positions:  positions,
			Avatars:    avatars,
			BlobCache:  blobCache,
			Events:     publisher,
			Metrics:    recorder,
			Plan:       planUC,
			DefaultTTL: cfg.Plan.DefaultTTL,
			Now:        time.Now,
		},
		PlanUC: planUC,
		AvatarUC: avatar.UpdateUseCase{
			Sources:   accounts.sources,
			Avatars:   avatars,
			BlobCache: blobCache,
			Now:       time.Now,
		},
		KPI:     kpi,
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}

	s := server.Default(server.WithHostPorts(cfg.HTTP.Addr), server.WithExitWaitTime(5*time.Second))
	h.RegisterRoutes(s)
	s.OnShutdown = append(s.OnShutdown, func(ctx context.Context) {
		closePublisher()
		closeRedis()
		if err := shutdownTracing(ctx); err != nil {
			hlog.Warnf("flush traces: %v", err)
		}
	})

	hlog.Infof("mensaplan server listening on %s", cfg.HTTP.Addr)
	s.Spin()
}

type accountRepos struct {
	credentials ports.UserCredentialRepository
	sources     ports.AvatarSourceRepository
	tx          ports.TxManager
}

func buildAccounts(ctx context.Context, cfg config.Config) (accountRepos, error) {
	if cfg.Database.DSN == "" {
		hlog.Warn("no database configured, registrations are kept in memory")
		store := memory.NewStore()
		return accountRepos{
			credentials: memory.NewUserCredentialRepo(store),
			sources:     memory.NewAvatarSourceRepo(store),
			tx:          memory.NewTxManager(store),
		}, nil
	}

	db, err := gormrepo.OpenPostgres(cfg.Database.DSN)
	if err != nil {
		return accountRepos{}, err
	}
	if cfg.Database.MigrationsDir != "" {
		if _, err := gormrepo.ApplyMigrations(ctx, db, cfg.Database.MigrationsDir); err != nil {
			return accountRepos{}, fmt.Errorf("apply migrations: %w", err)
		}
	}
	return accountRepos{
		credentials: gormrepo.NewUserCredentialRepo(db),
		sources:     gormrepo.NewAvatarSourceRepo(db),
		tx:          gormrepo.NewTxManager(db),
	}, nil
}

// buildAvatarSource returns the blob source used for downloads and, when Redis
// is configured, the shared blob cache in front of it.
func buildAvatarSource(ctx context.Context, cfg config.Config, sources ports.AvatarSourceRepository) (ports.AvatarBlobSource, ports.AvatarInvalidator, func(), error) {
	origin, err := avataradapter.NewHTTPSource(sources, cfg.Avatar.FetchTimeout)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("avatar client: %w", err)
	}
	if cfg.Redis.Addr == "" {
		return origin, nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	cache := avataradapter.NewRedisBlobCache(client, origin, cfg.Redis.KeyPrefix, cfg.Redis.TTL)
	hlog.Infof("avatar blobs cached in redis %s", cfg.Redis.Addr)
	return cache, cache, func() { _ = client.Close() }, nil
}

// buildPublisher falls back to the in-memory recorder when NATS is not
// configured or unreachable.
func buildPublisher(cfg config.Config) (ports.EventPublisher, func()) {
	if cfg.NATS.URL == "" {
		return events.NewRecorder(0), func() {}
	}
	pub, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject)
	if err != nil {
		hlog.Warnf("position events stay local: %v", err)
		return events.NewRecorder(0), func() {}
	}
	hlog.Infof("position events published on %s", pub.Subject())
	return pub, func() { _ = pub.Close() }
}
