package main

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/KiplangatNgenoChina/movie-stream/internal/cache"
	"github.com/KiplangatNgenoChina/movie-stream/internal/client"
	"github.com/KiplangatNgenoChina/movie-stream/internal/config"
	"github.com/KiplangatNgenoChina/movie-stream/internal/engine"
	"github.com/KiplangatNgenoChina/movie-stream/internal/metadata"
	"github.com/KiplangatNgenoChina/movie-stream/internal/torrentio"
)

const defaultCacheTTL = 6 * time.Hour

// app holds the wired components shared by all commands
type app struct {
	engine  *engine.Engine
	fetcher *torrentio.Fetcher
	store   cache.Cache
}

// cacheLogger adapts zerolog to cache.Logger
type cacheLogger struct {
	logger zerolog.Logger
}

func (l cacheLogger) Error(msg string, err error) {
	l.logger.Error().Err(err).Msg(msg)
}

func newApp(cfg *config.Config) *app {
	logger := config.GetLogger()
	hc := client.NewSingleCallClient(cfg)
	metadataClient := client.NewHTTPClient(cfg)

	ttl := defaultCacheTTL
	if cfg.Cache.TTL != "" {
		if parsed, err := time.ParseDuration(cfg.Cache.TTL); err != nil {
			logger.Warn().Err(err).Str("ttl", cfg.Cache.TTL).Msg("Invalid cache TTL, using default 6h")
		} else {
			ttl = parsed
		}
	}

	store, err := cache.New(cfg.Cache.Provider, cache.Options{
		Size:          cfg.Cache.Size,
		TTL:           ttl,
		Logger:        cacheLogger{logger: logger},
		RedisAddress:  cfg.Cache.Redis.Address,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		Group:         "metadata",
	})
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.Cache.Provider).Msg("Metadata cache unavailable, lookups will not be cached")
		store = nil
	}

	lookup := metadata.NewClient(metadataClient, cfg.TMDB.BaseURL, cfg.TMDB.APIKey, store)

	a := &app{
		engine:  engine.NewFromConfig(hc, cfg, lookup),
		fetcher: torrentio.NewFetcher(hc, cfg.Torrentio.BaseURL, cfg.Torrentio.DebridKey),
		store:   store,
	}

	names := make([]string, 0, len(cfg.Providers))
	for _, p := range a.engine.Providers() {
		names = append(names, p.Name)
	}
	logger.Info().
		Strs("providers", names).
		Str("cache", cfg.Cache.Provider).
		Bool("tmdb_configured", cfg.TMDB.APIKey != "").
		Bool("debrid_configured", a.fetcher.DebridEnabled()).
		Bool("shared_secret_configured", cfg.AppSharedSecret != "").
		Msg("Components initialized")
	return a
}

func (a *app) Close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Msg("Failed to close metadata cache")
	}
}
