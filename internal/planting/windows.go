package planting

import (
	"math"
	"sort"

	"grain/internal/metrics"
	"grain/internal/models"
	"grain/internal/stability"
)

const (
	// WindowDays is the length of every candidate planting window
	WindowDays = 7

	// MinWindowConfidence is the confidence an optimal window should reach
	MinWindowConfidence = 70.0
)

// FindPlantingWindows slides a 7-day window one day at a time across the series,
// scores every position and ranks them by stability score.
// A series shorter than a window produces no windows.
func FindPlantingWindows(series []models.WeatherObservation) models.WindowSearchResult {
	result := models.WindowSearchResult{
		Windows:     []models.PlantingWindow{},
		DataQuality: dataQuality(len(series)),
		TotalDays:   len(series),
	}

	if len(series) < WindowDays {
		metrics.WindowsEvaluated.Observe(0)
		return result
	}

	for start := 0; start+WindowDays <= len(series); start++ {
		days := make([]models.WeatherObservation, WindowDays)
		copy(days, series[start:start+WindowDays])

		score := stability.CalculateWeatherStabilityScore(days)
		result.Windows = append(result.Windows, models.PlantingWindow{
			StartDate:   days[0].Date,
			EndDate:     days[len(days)-1].Date,
			Score:       score,
			WeatherData: days,
			Confidence:  windowConfidence(score, len(days)),
		})
	}
	metrics.WindowsEvaluated.Observe(float64(len(result.Windows)))

	// Equal scores keep chronological order
	sort.SliceStable(result.Windows, func(i, j int) bool {
		return result.Windows[i].Score.OverallScore > result.Windows[j].Score.OverallScore
	})

	result.OptimalWindow = selectOptimal(result.Windows)
	return result
}

// windowConfidence turns a stability score into a 0-100 confidence
func windowConfidence(score models.WeatherStabilityScore, days int) float64 {
	confidence := score.OverallScore * 100
	if days == WindowDays {
		confidence += 10
	}
	confidence -= 5 * float64(score.Factors.ExtremeEvents)
	if score.TemperatureStability > 0.8 {
		confidence += 5
	}
	return math.Round(math.Max(0, math.Min(100, confidence))*100) / 100
}

// selectOptimal expects windows sorted by score, best first
func selectOptimal(windows []models.PlantingWindow) *models.PlantingWindow {
	if len(windows) == 0 {
		return nil
	}
	for i := range windows {
		if windows[i].Confidence >= MinWindowConfidence {
			w := windows[i]
			return &w
		}
	}
	w := windows[0]
	return &w
}

func dataQuality(days int) models.DataQuality {
	switch {
	case days < WindowDays:
		return models.DataQualityPoor
	case days < 30:
		return models.DataQualityFair
	case days < 60:
		return models.DataQualityGood
	default:
		return models.DataQualityExcellent
	}
}
