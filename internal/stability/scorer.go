package stability

import (
	"math"

	"grain/internal/models"
)

// Sub-score weights of the overall stability score
const (
	TemperatureWeight   = 0.35
	PrecipitationWeight = 0.25
	WindWeight          = 0.20
	HumidityWeight      = 0.20
)

// Agronomic targets for lowland rice establishment
const (
	optimalTemperature   = 25.0 // °C
	optimalPrecipitation = 10.0 // mm/day
	optimalWindSpeed     = 8.0  // km/h
	optimalHumidity      = 75.0 // percent

	safeTemperatureMin = 20.0
	safeTemperatureMax = 35.0
)

const (
	MsgInsufficientData  = "Insufficient weather data for analysis"
	MsgDelayPlanting     = "Temperatures are below optimal for rice germination; consider delaying planting"
	MsgHeatStress        = "High temperatures may cause heat stress; ensure adequate water supply"
	MsgShorterWindow     = "Temperature is highly variable; consider a shorter planting window"
	MsgLowRainfall       = "Low rainfall expected; plan for supplemental irrigation"
	MsgFloodingRisk      = "Heavy rainfall expected; prepare drainage to reduce flooding risk"
	MsgWindProtection    = "Strong winds expected; consider wind protection for seedlings"
	MsgAlternativeTiming = "Multiple extreme weather events detected; consider alternative timing"
	MsgFavourableWeather = "Weather conditions are stable and favorable for planting"
)

type series struct {
	temperature   []float64
	precipitation []float64
	wind          []float64
	humidity      []float64
}

func split(observations []models.WeatherObservation) series {
	s := series{
		temperature:   make([]float64, len(observations)),
		precipitation: make([]float64, len(observations)),
		wind:          make([]float64, len(observations)),
		humidity:      make([]float64, len(observations)),
	}
	for i, o := range observations {
		s.temperature[i] = o.Temperature
		s.precipitation[i] = o.Precipitation
		s.wind[i] = o.WindSpeed
		s.humidity[i] = o.Humidity
	}
	return s
}

// CalculateWeatherStabilityScore scores a run of daily observations, nominally 7 days.
// An empty run yields a zero, high-risk score rather than an error.
func CalculateWeatherStabilityScore(observations []models.WeatherObservation) models.WeatherStabilityScore {
	if len(observations) == 0 {
		return models.WeatherStabilityScore{
			RiskLevel:       models.RiskHigh,
			Recommendations: []string{MsgInsufficientData},
		}
	}

	s := split(observations)
	n := float64(len(observations))

	tempMean := calculateMean(s.temperature)
	tempVariance := calculateVariance(s.temperature, tempMean)
	outOfRange := 0
	for _, t := range s.temperature {
		if t < safeTemperatureMin || t > safeTemperatureMax {
			outOfRange++
		}
	}
	temperatureStability := math.Max(0, 1-math.Abs(tempMean-optimalTemperature)/15) -
		math.Min(1, tempVariance/25)*0.3 -
		float64(outOfRange)/n*0.2
	temperatureStability = clamp01(temperatureStability)

	precipMean := calculateMean(s.precipitation)
	precipTotal := 0.0
	rainDays := 0
	for _, p := range s.precipitation {
		precipTotal += p
		if p > 0 {
			rainDays++
		}
	}
	precipitationScore := math.Max(0, 1-math.Abs(precipMean-optimalPrecipitation)/20) +
		float64(rainDays)/n*0.3 -
		math.Max(0, (precipMean-30)/20)*0.4
	precipitationScore = clamp01(precipitationScore)

	windMean := calculateMean(s.wind)
	windVariance := calculateVariance(s.wind, windMean)
	windStability := clamp01(math.Max(0, 1-math.Abs(windMean-optimalWindSpeed)/15) -
		math.Min(1, windVariance/50)*0.2)

	humidityMean := calculateMean(s.humidity)
	humidityVariance := calculateVariance(s.humidity, humidityMean)
	humidityStability := clamp01(math.Max(0, 1-math.Abs(humidityMean-optimalHumidity)/20) -
		math.Min(1, humidityVariance/100)*0.2)

	overall := round2(temperatureStability*TemperatureWeight +
		precipitationScore*PrecipitationWeight +
		windStability*WindWeight +
		humidityStability*HumidityWeight)

	extremeEvents := CountExtremeEvents(observations)

	score := models.WeatherStabilityScore{
		OverallScore:         overall,
		TemperatureStability: round2(temperatureStability),
		PrecipitationScore:   round2(precipitationScore),
		WindStability:        round2(windStability),
		HumidityStability:    round2(humidityStability),
		Factors: models.StabilityFactors{
			TemperatureVariance: round2(tempVariance),
			PrecipitationTotal:  round2(precipTotal),
			PrecipitationDays:   rainDays,
			WindVariance:        round2(windVariance),
			HumidityVariance:    round2(humidityVariance),
			ExtremeEvents:       extremeEvents,
		},
		RiskLevel: RiskLevelFor(overall, extremeEvents),
	}

	score.Recommendations = recommendations(tempMean, tempVariance, precipTotal, windMean,
		extremeEvents, temperatureStability, precipitationScore)

	return score
}

// CountExtremeEvents adds one per observation for every threshold it breaches
func CountExtremeEvents(observations []models.WeatherObservation) int {
	count := 0
	for _, o := range observations {
		if o.Temperature < 15 || o.Temperature > 40 {
			count++
		}
		if o.Precipitation > 50 {
			count++
		}
		if o.WindSpeed > 30 {
			count++
		}
		if o.Humidity < 40 || o.Humidity > 95 {
			count++
		}
	}
	return count
}

// RiskLevelFor classifies a stability score together with its extreme-event count
func RiskLevelFor(overall float64, extremeEvents int) models.RiskLevel {
	switch {
	case overall >= 0.8 && extremeEvents <= 1:
		return models.RiskLow
	case overall >= 0.6 && extremeEvents <= 3:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

func recommendations(tempMean, tempVariance, precipTotal, windMean float64, extremeEvents int,
	temperatureStability, precipitationScore float64) []string {
	recs := []string{}

	if tempMean < 20 {
		recs = append(recs, MsgDelayPlanting)
	} else if tempMean > 35 {
		recs = append(recs, MsgHeatStress)
	}
	if tempVariance > 20 {
		recs = append(recs, MsgShorterWindow)
	}
	if precipTotal < 20 {
		recs = append(recs, MsgLowRainfall)
	} else if precipTotal > 200 {
		recs = append(recs, MsgFloodingRisk)
	}
	if windMean > 20 {
		recs = append(recs, MsgWindProtection)
	}
	if extremeEvents > 2 {
		recs = append(recs, MsgAlternativeTiming)
	}
	if temperatureStability > 0.8 && precipitationScore > 0.7 {
		recs = append(recs, MsgFavourableWeather)
	}

	return recs
}
