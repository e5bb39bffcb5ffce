package weather

import (
	"context"
	"fmt"
	"log"
	"time"

	"grain/internal/metrics"
	"grain/internal/models"
)

// CachedProvider serves repeated requests from a Cache before calling the wrapped provider.
// Cache failures are logged and never fail a fetch.
type CachedProvider struct {
	next  Provider
	cache Cache
	now   func() time.Time
}

func NewCachedProvider(next Provider, cache Cache) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, now: time.Now}
}

func (p *CachedProvider) FetchQuarterlyWeather(ctx context.Context, location models.Location, year, quarter int) ([]models.WeatherObservation, error) {
	key := fmt.Sprintf("quarter:%.4f:%.4f:%d:%d", location.Latitude, location.Longitude, year, quarter)
	return p.fetch(ctx, key, func() ([]models.WeatherObservation, error) {
		return p.next.FetchQuarterlyWeather(ctx, location, year, quarter)
	})
}

func (p *CachedProvider) FetchForecast(ctx context.Context, location models.Location, daysAhead int) ([]models.WeatherObservation, error) {
	// A forecast horizon starts today, so yesterday's entry is stale
	key := fmt.Sprintf("forecast:%.4f:%.4f:%d:%s", location.Latitude, location.Longitude, daysAhead,
		p.now().Format(DateLayout))
	return p.fetch(ctx, key, func() ([]models.WeatherObservation, error) {
		return p.next.FetchForecast(ctx, location, daysAhead)
	})
}

func (p *CachedProvider) fetch(ctx context.Context, key string, load func() ([]models.WeatherObservation, error)) ([]models.WeatherObservation, error) {
	cached, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		log.Printf("Weather cache lookup failed for %s: %v", key, err)
	}
	metrics.RecordCacheLookup(ok)
	if ok {
		return cached, nil
	}

	observations, err := load()
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, observations); err != nil {
		log.Printf("Weather cache store failed for %s: %v", key, err)
	}
	return observations, nil
}
