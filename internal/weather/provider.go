package weather

import (
	"context"

	"grain/internal/models"
)

// MaxForecastDays is the furthest ahead a daily forecast can be requested
const MaxForecastDays = 16

// Provider supplies daily weather series for a location
type Provider interface {
	// FetchQuarterlyWeather returns the daily series covering the quarter of the given year
	FetchQuarterlyWeather(ctx context.Context, location models.Location, year, quarter int) ([]models.WeatherObservation, error)
	// FetchForecast returns up to daysAhead days of forecast starting today
	FetchForecast(ctx context.Context, location models.Location, daysAhead int) ([]models.WeatherObservation, error)
}
