package weather

import "grain/internal/models"

// Aggregate collapses a daily series into the quarterly form used by the yield formulas.
// Precipitation becomes the average monthly total; the other fields are daily means.
func Aggregate(observations []models.WeatherObservation) models.QuarterlyWeather {
	if len(observations) == 0 {
		return models.QuarterlyWeather{}
	}

	var q models.QuarterlyWeather
	months := make(map[string]bool)
	for _, o := range observations {
		q.Temperature += o.Temperature
		q.DewPoint += o.DewPoint
		q.Precipitation += o.Precipitation
		q.WindSpeed += o.WindSpeed
		q.Humidity += o.Humidity
		if len(o.Date) >= 7 {
			months[o.Date[:7]] = true
		}
	}

	n := float64(len(observations))
	q.Temperature /= n
	q.DewPoint /= n
	q.WindSpeed /= n
	q.Humidity /= n
	if len(months) > 0 {
		q.Precipitation /= float64(len(months))
	}

	return q
}
