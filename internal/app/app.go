package app

import (
	"context"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"

	"grain/internal/api"
	"grain/internal/config"
	"grain/internal/database"
	"grain/internal/planting"
	"grain/internal/weather"
	"grain/internal/yield"
)

// App holds the long-lived components built from a Config.
// Store is nil when no database was opened.
type App struct {
	Config   *config.Config
	Store    *database.Store
	Provider weather.Provider
	Analyzer *planting.Analyzer

	redis *redis.Client
}

type Options struct {
	// OpenStore connects to the configured database even when the climate
	// source does not need it. Failure to connect is then only logged.
	OpenStore bool
}

// New wires store, weather provider, cache, selector and analyzer
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	a := &App{Config: cfg}

	needStore := cfg.Analysis.ClimateSource == config.ClimateDatabase
	if needStore || opts.OpenStore {
		store, err := database.NewStore(ctx, cfg.Database.Driver, cfg.Database.DSN)
		switch {
		case err == nil:
			a.Store = store
		case needStore:
			return nil, fmt.Errorf("climate source %q needs a database: %w", cfg.Analysis.ClimateSource, err)
		default:
			log.Printf("Database unavailable, continuing without persistence: %v", err)
		}
	}

	client := api.NewOpenMeteoClient(
		api.WithBaseURLs(cfg.Weather.ForecastURL, cfg.Weather.ArchiveURL),
		api.WithTimeout(cfg.Weather.Timeout),
		api.WithTimezone(cfg.Weather.Timezone),
	)
	a.Provider = a.withCache(client)

	var climate yield.ClimateStore = yield.BaselineClimate{Quarters: cfg.Baseline()}
	if needStore {
		climate = a.Store
	}

	selector := yield.NewSelector(
		yield.NewPredictor(cfg.Table()),
		climate,
		yield.WithYearRange(cfg.Analysis.MinYear, cfg.Analysis.MaxYear),
		yield.WithBaselineConfidence(cfg.Analysis.BaselineConfidence),
	)

	a.Analyzer = planting.NewAnalyzer(selector, a.Provider,
		planting.WithRetryPolicy(weather.RetryPolicy{
			MaxAttempts:  cfg.Analysis.MaxAttempts,
			FallbackStep: cfg.Analysis.FallbackStep,
		}),
		planting.WithReferenceYear(cfg.Analysis.ReferenceYear),
	)

	return a, nil
}

func (a *App) withCache(provider weather.Provider) weather.Provider {
	w := a.Config.Weather
	switch w.Cache {
	case config.CacheMemory:
		return weather.NewCachedProvider(provider, weather.NewMemoryCache(w.CacheTTL, w.CacheMaxEntries))
	case config.CacheRedis:
		r := a.Config.Redis
		a.redis = redis.NewClient(&redis.Options{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
		})
		log.Printf("✓ Weather cache using Redis at %s", r.Addr)
		return weather.NewCachedProvider(provider, weather.NewRedisCache(a.redis, w.CacheTTL, r.KeyPrefix))
	default:
		return provider
	}
}

func (a *App) Close() error {
	var firstErr error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			firstErr = err
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
