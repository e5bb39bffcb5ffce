package yield

import (
	"context"

	"grain/internal/errs"
	"grain/internal/models"
)

// ClimateStore supplies quarter-representative weather for a year
type ClimateStore interface {
	QuarterlyClimate(ctx context.Context, year int) ([4]models.QuarterlyWeather, error)
}

// BaselineClimate answers every year with the same quarterly baseline
type BaselineClimate struct {
	Quarters [4]models.QuarterlyWeather
}

func (b BaselineClimate) QuarterlyClimate(ctx context.Context, year int) ([4]models.QuarterlyWeather, error) {
	return b.Quarters, nil
}

// DefaultBaseline is a Philippine lowland climatology per quarter
func DefaultBaseline() [4]models.QuarterlyWeather {
	return [4]models.QuarterlyWeather{
		{Temperature: 26.0, DewPoint: 21.5, Precipitation: 60, WindSpeed: 12, Humidity: 78},
		{Temperature: 28.5, DewPoint: 23.5, Precipitation: 120, WindSpeed: 10, Humidity: 77},
		{Temperature: 27.2, DewPoint: 24.0, Precipitation: 350, WindSpeed: 11, Humidity: 85},
		{Temperature: 26.6, DewPoint: 22.8, Precipitation: 250, WindSpeed: 12, Humidity: 83},
	}
}

// StaticClimate is an explicit per-year table
type StaticClimate map[int][4]models.QuarterlyWeather

func (s StaticClimate) QuarterlyClimate(ctx context.Context, year int) ([4]models.QuarterlyWeather, error) {
	quarters, ok := s[year]
	if !ok {
		return quarters, errs.New(errs.KindDataUnavailable, "yield.StaticClimate", "no quarterly weather data for year %d", year)
	}
	return quarters, nil
}
