package weather

import (
	"fmt"
	"math"
	"testing"

	"grain/internal/models"
)

func TestAggregate(t *testing.T) {
	var obs []models.WeatherObservation
	// 90 days across three months, 2 mm of rain per day
	for _, month := range []string{"2025-07", "2025-08", "2025-09"} {
		for day := 1; day <= 30; day++ {
			obs = append(obs, models.WeatherObservation{
				Date:          fmt.Sprintf("%s-%02d", month, day),
				Temperature:   28,
				DewPoint:      23,
				Precipitation: 2,
				WindSpeed:     float64(day % 2 * 10),
				Humidity:      85,
			})
		}
	}

	got := Aggregate(obs)

	if got.Temperature != 28 || got.DewPoint != 23 || got.Humidity != 85 {
		t.Errorf("means = %+v", got)
	}
	if math.Abs(got.WindSpeed-5) > 1e-9 {
		t.Errorf("WindSpeed = %v, want 5", got.WindSpeed)
	}
	if math.Abs(got.Precipitation-60) > 1e-9 {
		t.Errorf("Precipitation = %v, want 60 mm per month", got.Precipitation)
	}
}

func TestAggregate_Empty(t *testing.T) {
	if got := Aggregate(nil); got != (models.QuarterlyWeather{}) {
		t.Errorf("Aggregate(nil) = %+v, want zero value", got)
	}
}

