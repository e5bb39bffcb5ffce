package weather

import (
	"context"
	"errors"
	"fmt"
	"log"

	"grain/internal/errs"
	"grain/internal/models"
)

// RetryPolicy decides how many attempts a quarterly fetch gets and which
// reference year each attempt uses
type RetryPolicy struct {
	MaxAttempts  int
	FallbackStep int // years subtracted per retry
}

// DefaultRetryPolicy retries once against the previous year
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 2, FallbackStep: 1}
}

// Years returns the reference year of every attempt, in order
func (p RetryPolicy) Years(year int) []int {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	years := make([]int, attempts)
	for i := range years {
		years[i] = year - i*p.FallbackStep
	}
	return years
}

// FetchQuarter fetches and validates a quarter's daily series, moving to the
// next fallback year when the provider fails. Invalid data is never retried.
// It returns the year the series actually came from.
func FetchQuarter(ctx context.Context, provider Provider, policy RetryPolicy, location models.Location, year, quarter int) ([]models.WeatherObservation, int, error) {
	years := policy.Years(year)

	var lastErr error
	for attempt, y := range years {
		observations, err := provider.FetchQuarterlyWeather(ctx, location, y, quarter)
		if err == nil {
			if err := ValidateObservations(observations); err != nil {
				return nil, y, err
			}
			if attempt > 0 {
				log.Printf("✓ Fetched Q%d weather for %s using fallback year %d", quarter, location.Name, y)
			}
			return observations, y, nil
		}

		if errors.Is(err, errs.ErrInvalidWeatherData) {
			return nil, y, err
		}
		if ctx.Err() != nil {
			return nil, y, err
		}

		lastErr = err
		if attempt < len(years)-1 {
			log.Printf("Failed to fetch Q%d %d weather for %s: %v; retrying with %d",
				quarter, y, location.Name, err, years[attempt+1])
		}
	}

	return nil, years[len(years)-1], fmt.Errorf("fetch Q%d weather for %s (years %v): %w", quarter, location.Name, years, lastErr)
}
