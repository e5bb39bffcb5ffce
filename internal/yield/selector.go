package yield

import (
	"context"
	"errors"
	"math"

	"grain/internal/errs"
	"grain/internal/models"
)

const (
	DefaultMinYear = 2025
	DefaultMaxYear = 2100

	// DefaultBaselineConfidence is the reported historical accuracy of the formulas
	DefaultBaselineConfidence = 85.0
)

// Selector evaluates all four quarters of a year and picks the best one
type Selector struct {
	predictor *Predictor
	climate   ClimateStore
	minYear   int
	maxYear   int
	baseline  float64
}

type SelectorOption func(*Selector)

func WithYearRange(minYear, maxYear int) SelectorOption {
	return func(s *Selector) {
		s.minYear = minYear
		s.maxYear = maxYear
	}
}

func WithBaselineConfidence(baseline float64) SelectorOption {
	return func(s *Selector) {
		s.baseline = baseline
	}
}

func NewSelector(predictor *Predictor, climate ClimateStore, opts ...SelectorOption) *Selector {
	s := &Selector{
		predictor: predictor,
		climate:   climate,
		minYear:   DefaultMinYear,
		maxYear:   DefaultMaxYear,
		baseline:  DefaultBaselineConfidence,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Selector) YearRange() (int, int) {
	return s.minYear, s.maxYear
}

// AnalyzeQuarterSelection predicts all four quarters for the year.
// The optimal quarter is the first one holding the maximum predicted yield.
func (s *Selector) AnalyzeQuarterSelection(ctx context.Context, year int) (*models.QuarterSelectionResult, error) {
	if year < s.minYear || year > s.maxYear {
		return nil, errs.New(errs.KindInvalidYear, "yield.AnalyzeQuarterSelection",
			"Year must be between %d and %d", s.minYear, s.maxYear)
	}

	climate, err := s.climate.QuarterlyClimate(ctx, year)
	if err != nil {
		if errors.Is(err, errs.ErrDataUnavailable) {
			return nil, err
		}
		return nil, errs.Wrap(errs.KindDataUnavailable, "yield.AnalyzeQuarterSelection", err,
			"weather data unavailable for year %d", year)
	}

	yields := make([]float64, 4)
	estimates := make([]models.QuarterYieldEstimate, 4)
	optimal := 0
	for i := 0; i < 4; i++ {
		y, err := s.predictor.Predict(i+1, climate[i])
		if err != nil {
			return nil, err
		}
		yields[i] = y
		estimates[i] = models.QuarterYieldEstimate{
			Quarter:        i + 1,
			PredictedYield: y,
			WeatherData:    climate[i],
		}
		if y > yields[optimal] {
			optimal = i
		}
	}

	confidence := clamp(s.baseline+spreadAdjustment(yields, optimal), 0, 100)
	confidence = round2(confidence)
	for i := range estimates {
		estimates[i].Confidence = confidence
	}

	return &models.QuarterSelectionResult{
		Year:              year,
		Quarters:          estimates,
		OptimalQuarter:    optimal + 1,
		OverallConfidence: confidence,
	}, nil
}

// spreadAdjustment lowers confidence when the best quarter barely beats the
// runner-up and raises it when one quarter clearly dominates
func spreadAdjustment(yields []float64, optimal int) float64 {
	best := yields[optimal]
	runnerUp := math.Inf(-1)
	for i, y := range yields {
		if i != optimal && y > runnerUp {
			runnerUp = y
		}
	}

	gap := (best - runnerUp) / math.Max(math.Abs(best), 1)
	switch {
	case gap < 0.02:
		return -15
	case gap < 0.05:
		return -7
	case gap > 0.25:
		return 10
	case gap > 0.10:
		return 5
	default:
		return 0
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
