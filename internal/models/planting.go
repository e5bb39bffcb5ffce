package models

import "time"

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type DataQuality string

const (
	DataQualityPoor      DataQuality = "poor"
	DataQualityFair      DataQuality = "fair"
	DataQualityGood      DataQuality = "good"
	DataQualityExcellent DataQuality = "excellent"
)

// QuarterYieldEstimate is the MLR prediction for one calendar quarter
type QuarterYieldEstimate struct {
	Quarter        int              `json:"quarter"`
	PredictedYield float64          `json:"predictedYield"` // kg/ha, may be negative
	Confidence     float64          `json:"confidence"`     // 0-100
	WeatherData    QuarterlyWeather `json:"weatherData"`
}

type QuarterSelectionResult struct {
	Year              int                    `json:"year"`
	Quarters          []QuarterYieldEstimate `json:"quarters"`
	OptimalQuarter    int                    `json:"optimalQuarter"`
	OverallConfidence float64                `json:"overallConfidence"`
}

// Optimal returns the estimate of the optimal quarter
func (r *QuarterSelectionResult) Optimal() QuarterYieldEstimate {
	for _, q := range r.Quarters {
		if q.Quarter == r.OptimalQuarter {
			return q
		}
	}
	return QuarterYieldEstimate{}
}

type StabilityFactors struct {
	TemperatureVariance float64 `json:"temperatureVariance"`
	PrecipitationTotal  float64 `json:"precipitationTotal"`
	PrecipitationDays   int     `json:"precipitationDays"`
	WindVariance        float64 `json:"windVariance"`
	HumidityVariance    float64 `json:"humidityVariance"`
	ExtremeEvents       int     `json:"extremeEvents"`
}

// WeatherStabilityScore rates how favourable and consistent a run of days is for planting
type WeatherStabilityScore struct {
	OverallScore         float64          `json:"overallScore"`
	TemperatureStability float64          `json:"temperatureStability"`
	PrecipitationScore   float64          `json:"precipitationScore"`
	WindStability        float64          `json:"windStability"`
	HumidityStability    float64          `json:"humidityStability"`
	Factors              StabilityFactors `json:"factors"`
	Recommendations      []string         `json:"recommendations"`
	RiskLevel            RiskLevel        `json:"riskLevel"`
}

type PlantingWindow struct {
	StartDate   string                `json:"startDate"`
	EndDate     string                `json:"endDate"`
	Score       WeatherStabilityScore `json:"score"`
	WeatherData []WeatherObservation  `json:"weatherData"`
	Confidence  float64               `json:"confidence"`
}

type WindowSearchResult struct {
	Windows       []PlantingWindow `json:"windows"`
	OptimalWindow *PlantingWindow  `json:"optimalWindow"`
	DataQuality   DataQuality      `json:"dataQuality"`
	TotalDays     int              `json:"totalDays"`
}

// AnalysisRequest is what callers submit for an integrated analysis
type AnalysisRequest struct {
	Year                int      `json:"year"`
	Location            Location `json:"location"`
	IncludeAlternatives bool     `json:"includeAlternatives,omitempty"`
	UseHistoricalData   *bool    `json:"useHistoricalData,omitempty"` // nil means true
	OverrideQuarter     *int     `json:"overrideQuarter,omitempty"`
}

// Historical reports whether the quarter archive should back the window search
func (r AnalysisRequest) Historical() bool {
	return r.UseHistoricalData == nil || *r.UseHistoricalData
}

type Recommendation struct {
	PlantingPeriod string    `json:"plantingPeriod"`
	QuarterReason  string    `json:"quarterReason"`
	WindowReason   string    `json:"windowReason"`
	RiskLevel      RiskLevel `json:"riskLevel"`
	ActionItems    []string  `json:"actionItems"`
}

type Alternatives struct {
	Quarters []QuarterYieldEstimate `json:"quarters"`
	Windows  []PlantingWindow       `json:"windows"`
}

// IntegratedPlantingAnalysis is the complete answer to one AnalysisRequest
type IntegratedPlantingAnalysis struct {
	Request           AnalysisRequest        `json:"request"`
	QuarterSelection  QuarterSelectionResult `json:"quarterSelection"`
	SelectedQuarter   int                    `json:"selectedQuarter"`
	DataYear          int                    `json:"dataYear"`
	DataQuality       DataQuality            `json:"dataQuality"`
	OptimalWindow     *PlantingWindow        `json:"optimalWindow"`
	OverallConfidence float64                `json:"overallConfidence"`
	Recommendation    Recommendation         `json:"recommendation"`
	Alternatives      *Alternatives          `json:"alternatives,omitempty"`
	GeneratedAt       time.Time              `json:"generatedAt"`
}

// AnalysisRecord is the persisted summary of a completed analysis
type AnalysisRecord struct {
	ID                int64     `json:"id" db:"id"`
	LocationName      string    `json:"locationName" db:"location_name"`
	Latitude          float64   `json:"latitude" db:"latitude"`
	Longitude         float64   `json:"longitude" db:"longitude"`
	Year              int       `json:"year" db:"year"`
	OptimalQuarter    int       `json:"optimalQuarter" db:"optimal_quarter"`
	PlantingPeriod    string    `json:"plantingPeriod" db:"planting_period"`
	OverallConfidence float64   `json:"overallConfidence" db:"overall_confidence"`
	RiskLevel         string    `json:"riskLevel" db:"risk_level"`
	Payload           string    `json:"-" db:"payload"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}
