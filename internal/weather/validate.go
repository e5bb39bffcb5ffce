package weather

import (
	"math"
	"time"

	"grain/internal/errs"
	"grain/internal/models"
)

const DateLayout = "2006-01-02"

// ValidateObservations checks a fetched series before it is scored
func ValidateObservations(observations []models.WeatherObservation) error {
	if len(observations) == 0 {
		return errs.New(errs.KindInvalidWeatherData, "weather.ValidateObservations", "weather series is empty")
	}

	for i, o := range observations {
		if o.Date == "" {
			return errs.New(errs.KindInvalidWeatherData, "weather.ValidateObservations", "record %d has no date", i)
		}
		if _, err := time.Parse(DateLayout, o.Date); err != nil {
			return errs.Wrap(errs.KindInvalidWeatherData, "weather.ValidateObservations", err, "record %d has invalid date %q", i, o.Date)
		}
		fields := []struct {
			name  string
			value float64
		}{
			{"temperature", o.Temperature},
			{"dewPoint", o.DewPoint},
			{"precipitation", o.Precipitation},
			{"windSpeed", o.WindSpeed},
			{"humidity", o.Humidity},
		}
		for _, f := range fields {
			if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
				return errs.New(errs.KindInvalidWeatherData, "weather.ValidateObservations", "record %d (%s) has non-numeric %s", i, o.Date, f.name)
			}
		}
	}

	return nil
}
