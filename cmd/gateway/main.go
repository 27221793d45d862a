package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/joho/godotenv"

	"github.com/shopfront/platform/pkg/gateway"
	"github.com/shopfront/platform/pkg/httpserver"
	"github.com/shopfront/platform/pkg/identity"
	"github.com/shopfront/platform/pkg/logger"
	"github.com/shopfront/platform/pkg/pg"
	"github.com/shopfront/platform/pkg/redis"
	"github.com/shopfront/platform/pkg/tenant"
)

func main() {
	// .env is optional; real environments configure through the process env.
	_ = godotenv.Load()

	var (
		logCfg   logger.Config
		gwCfg    gateway.Config
		pgCfg    pg.Config
		redisCfg redis.Config
		sessCfg  identity.Config
		httpCfg  httpserver.Config
	)
	mustParse(&logCfg)
	mustParse(&gwCfg)
	mustParse(&pgCfg)
	mustParse(&redisCfg)
	mustParse(&sessCfg)
	mustParse(&httpCfg)

	log := logger.NewFromConfig(logCfg,
		logger.WithService("gateway"),
		logger.WithContextExtractors(tenant.LoggerExtractor()),
	)
	slog.SetDefault(log)

	ctx := context.Background()

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.Error("failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		log.Error("failed to apply migrations", logger.Error(err))
		os.Exit(1)
	}

	probes := []func(context.Context) error{pg.Healthcheck(pool)}

	// The distributed cache tier is optional and strictly an
	// optimization: when redis is absent or down the gateway runs on the
	// in-process tier alone.
	cache := tenant.NewMemoryCache()
	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			log.Warn("redis unavailable, running on local cache only", logger.Error(err))
		} else {
			defer client.Close()
			cache = tenant.NewTieredCache(cache, tenant.NewRedisCache(client, 0, log))
			probes = append(probes, redis.Healthcheck(client))
		}
	}
	defer cache.Close()

	resolver := tenant.NewResolver(tenant.NewPostgresStore(pool), cache, tenant.WithLogger(log))
	sessions := identity.NewManager(sessCfg)

	gw := gateway.New(gwCfg, resolver,
		gateway.WithSessionVerifier(sessions),
		gateway.WithLogger(log),
	)

	router := chi.NewRouter()
	router.Get("/healthz", httpserver.HealthcheckHandler(log, probes...))
	router.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(300, time.Minute))
		r.Use(gw.Middleware())
		mountRoutes(r, gwCfg)
	})

	if err := httpserver.New(httpCfg, log).Run(ctx, router); err != nil {
		log.Error("http server stopped", logger.Error(err))
		os.Exit(1)
	}
}

func mustParse[T any](cfg *T) {
	if err := env.Parse(cfg); err != nil {
		slog.Error("failed to parse configuration", "type", fmt.Sprintf("%T", cfg), "error", err)
		os.Exit(1)
	}
}
