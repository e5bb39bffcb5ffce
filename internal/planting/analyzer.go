package planting

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"grain/internal/errs"
	"grain/internal/metrics"
	"grain/internal/models"
	"grain/internal/weather"
	"grain/internal/yield"
)

// Blending weights of quarter-level and window-level confidence
const (
	QuarterConfidenceWeight = 0.7
	WindowConfidenceWeight  = 0.3
)

const (
	MsgExcellentConditions = "Excellent conditions: proceed with planting in the recommended window"
	MsgRiskMitigation      = "Consider risk mitigation measures such as staggered planting, crop insurance or drought-tolerant varieties"

	maxAlternativeQuarters = 2
	maxAlternativeWindows  = 3
)

// Analyzer runs the integrated planting analysis: quarter selection, weather
// retrieval, window search and confidence blending. It keeps no per-request state.
type Analyzer struct {
	selector      *yield.Selector
	provider      weather.Provider
	policy        weather.RetryPolicy
	referenceYear int
	forecastDays  int
	now           func() time.Time
}

type Option func(*Analyzer)

func WithRetryPolicy(policy weather.RetryPolicy) Option {
	return func(a *Analyzer) {
		a.policy = policy
	}
}

// WithReferenceYear pins the latest year with complete observed weather.
// Zero derives it from the clock.
func WithReferenceYear(year int) Option {
	return func(a *Analyzer) {
		a.referenceYear = year
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

func WithForecastDays(days int) Option {
	return func(a *Analyzer) {
		a.forecastDays = days
	}
}

func NewAnalyzer(selector *yield.Selector, provider weather.Provider, opts ...Option) *Analyzer {
	a := &Analyzer{
		selector:     selector,
		provider:     provider,
		policy:       weather.DefaultRetryPolicy(),
		forecastDays: weather.MaxForecastDays,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) Selector() *yield.Selector {
	return a.selector
}

// DataYear is the year whose observed weather stands in for the requested one.
// Future years have no archive, so the latest complete year is used instead.
func (a *Analyzer) DataYear(year int) int {
	latest := a.referenceYear
	if latest == 0 {
		latest = a.now().Year() - 1
	}
	if year < latest {
		return year
	}
	return latest
}

// Analyze produces a complete analysis or an AnalysisFailed error wrapping the cause
func (a *Analyzer) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.IntegratedPlantingAnalysis, error) {
	start := time.Now()
	analysis, err := a.analyze(ctx, req)
	metrics.RecordAnalysis(time.Since(start), err)
	if err != nil {
		return nil, errs.AnalysisFailed("planting.Analyze", err)
	}
	return analysis, nil
}

func (a *Analyzer) analyze(ctx context.Context, req models.AnalysisRequest) (*models.IntegratedPlantingAnalysis, error) {
	minYear, maxYear := a.selector.YearRange()
	if err := ValidateRequest(req, minYear, maxYear); err != nil {
		return nil, err
	}

	selection, err := a.selector.AnalyzeQuarterSelection(ctx, req.Year)
	if err != nil {
		return nil, err
	}

	quarter := selection.OptimalQuarter
	if req.OverrideQuarter != nil {
		quarter = *req.OverrideQuarter
	}

	series, dataYear, err := a.fetchSeries(ctx, req, quarter)
	if err != nil {
		return nil, err
	}

	search := FindPlantingWindows(series)

	estimate := estimateFor(selection, quarter)
	windowConfidence := 0.0
	if search.OptimalWindow != nil {
		windowConfidence = search.OptimalWindow.Confidence
	}
	overall := round2(estimate.Confidence*QuarterConfidenceWeight + windowConfidence*WindowConfidenceWeight)

	analysis := &models.IntegratedPlantingAnalysis{
		Request:           req,
		QuarterSelection:  *selection,
		SelectedQuarter:   quarter,
		DataYear:          dataYear,
		DataQuality:       search.DataQuality,
		OptimalWindow:     search.OptimalWindow,
		OverallConfidence: overall,
		Recommendation:    buildRecommendation(selection, estimate, search.OptimalWindow, overall),
		GeneratedAt:       a.now().UTC(),
	}

	if req.IncludeAlternatives {
		analysis.Alternatives = alternatives(selection, quarter, search)
	}

	return analysis, nil
}

func (a *Analyzer) fetchSeries(ctx context.Context, req models.AnalysisRequest, quarter int) ([]models.WeatherObservation, int, error) {
	if !req.Historical() {
		series, err := a.fetchForecast(ctx, req.Location, a.forecastDays)
		return series, a.now().Year(), err
	}
	return weather.FetchQuarter(ctx, a.provider, a.policy, req.Location, a.DataYear(req.Year), quarter)
}

func (a *Analyzer) fetchForecast(ctx context.Context, location models.Location, days int) ([]models.WeatherObservation, error) {
	series, err := a.provider.FetchForecast(ctx, location, days)
	if err != nil {
		return nil, err
	}
	if err := weather.ValidateObservations(series); err != nil {
		return nil, err
	}
	return series, nil
}

// QuarterWindows runs only the window search for one quarter of a year
func (a *Analyzer) QuarterWindows(ctx context.Context, location models.Location, year, quarter int) (*models.WindowSearchResult, int, error) {
	minYear, maxYear := a.selector.YearRange()
	req := models.AnalysisRequest{Year: year, Location: location, OverrideQuarter: &quarter}
	if err := ValidateRequest(req, minYear, maxYear); err != nil {
		return nil, 0, err
	}

	series, dataYear, err := weather.FetchQuarter(ctx, a.provider, a.policy, location, a.DataYear(year), quarter)
	if err != nil {
		return nil, dataYear, err
	}
	search := FindPlantingWindows(series)
	return &search, dataYear, nil
}

// ForecastOutlook searches for planting windows in the short-range forecast
func (a *Analyzer) ForecastOutlook(ctx context.Context, location models.Location, days int) (*models.WindowSearchResult, error) {
	if err := ValidateLocation(location); err != nil {
		return nil, err
	}
	if days < WindowDays || days > weather.MaxForecastDays {
		return nil, errs.InvalidRequest("planting.ForecastOutlook",
			[]string{fmt.Sprintf("Days must be between %d and %d", WindowDays, weather.MaxForecastDays)})
	}

	series, err := a.fetchForecast(ctx, location, days)
	if err != nil {
		return nil, err
	}
	search := FindPlantingWindows(series)
	return &search, nil
}

func estimateFor(selection *models.QuarterSelectionResult, quarter int) models.QuarterYieldEstimate {
	for _, q := range selection.Quarters {
		if q.Quarter == quarter {
			return q
		}
	}
	return models.QuarterYieldEstimate{Quarter: quarter}
}

// RiskLevelForConfidence classifies the blended confidence
func RiskLevelForConfidence(overall float64) models.RiskLevel {
	switch {
	case overall >= 85:
		return models.RiskLow
	case overall < 70:
		return models.RiskHigh
	default:
		return models.RiskMedium
	}
}

func buildRecommendation(selection *models.QuarterSelectionResult, estimate models.QuarterYieldEstimate,
	window *models.PlantingWindow, overall float64) models.Recommendation {
	rec := models.Recommendation{
		RiskLevel:   RiskLevelForConfidence(overall),
		ActionItems: []string{},
	}

	label := yield.QuarterLabel(estimate.Quarter)
	if estimate.Quarter == selection.OptimalQuarter {
		rec.QuarterReason = fmt.Sprintf("Q%d (%s) has the highest predicted yield of %.2f kg/ha",
			estimate.Quarter, label, estimate.PredictedYield)
	} else {
		best := selection.Optimal()
		rec.QuarterReason = fmt.Sprintf("Q%d (%s) was requested with a predicted yield of %.2f kg/ha; Q%d is the model optimum at %.2f kg/ha",
			estimate.Quarter, label, estimate.PredictedYield, best.Quarter, best.PredictedYield)
	}

	if window != nil {
		rec.PlantingPeriod = fmt.Sprintf("%s to %s", window.StartDate, window.EndDate)
		rec.WindowReason = fmt.Sprintf("The 7-day window starting %s has a stability score of %.2f with %.0f%% confidence (%s risk)",
			window.StartDate, window.Score.OverallScore, window.Confidence, window.Score.RiskLevel)
		rec.ActionItems = append(rec.ActionItems, window.Score.Recommendations...)
	} else {
		rec.PlantingPeriod = label
		rec.WindowReason = "Not enough daily weather data to identify a specific 7-day planting window"
	}

	if overall >= 90 {
		rec.ActionItems = append([]string{MsgExcellentConditions}, rec.ActionItems...)
	}
	if rec.RiskLevel == models.RiskHigh {
		rec.ActionItems = append([]string{MsgRiskMitigation}, rec.ActionItems...)
	}

	return rec
}

func alternatives(selection *models.QuarterSelectionResult, quarter int, search models.WindowSearchResult) *models.Alternatives {
	alt := &models.Alternatives{
		Quarters: []models.QuarterYieldEstimate{},
		Windows:  []models.PlantingWindow{},
	}

	for _, q := range selection.Quarters {
		if q.Quarter != quarter {
			alt.Quarters = append(alt.Quarters, q)
		}
	}
	sort.SliceStable(alt.Quarters, func(i, j int) bool {
		return alt.Quarters[i].PredictedYield > alt.Quarters[j].PredictedYield
	})
	if len(alt.Quarters) > maxAlternativeQuarters {
		alt.Quarters = alt.Quarters[:maxAlternativeQuarters]
	}

	for _, w := range search.Windows {
		if search.OptimalWindow != nil && w.StartDate == search.OptimalWindow.StartDate {
			continue
		}
		alt.Windows = append(alt.Windows, w)
		if len(alt.Windows) == maxAlternativeWindows {
			break
		}
	}

	return alt
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
