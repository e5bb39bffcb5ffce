package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grain/internal/models"
)

func sampleWindows() models.WindowSearchResult {
	w1 := models.PlantingWindow{
		StartDate:  "2024-07-02",
		EndDate:    "2024-07-08",
		Confidence: 88,
		Score:      models.WeatherStabilityScore{OverallScore: 0.83, RiskLevel: models.RiskLow},
	}
	w2 := models.PlantingWindow{
		StartDate:  "2024-07-01",
		EndDate:    "2024-07-07",
		Confidence: 61,
		Score:      models.WeatherStabilityScore{OverallScore: 0.61, RiskLevel: models.RiskMedium},
	}
	return models.WindowSearchResult{
		Windows:       []models.PlantingWindow{w1, w2},
		OptimalWindow: &w1,
		DataQuality:   models.DataQualityFair,
		TotalDays:     8,
	}
}

func sampleAnalysis() *models.IntegratedPlantingAnalysis {
	windows := sampleWindows()
	return &models.IntegratedPlantingAnalysis{
		Request: models.AnalysisRequest{
			Year:     2030,
			Location: models.Location{Name: "Nueva Ecija", Latitude: 15.5784, Longitude: 121.1113},
		},
		QuarterSelection: models.QuarterSelectionResult{
			Year: 2030,
			Quarters: []models.QuarterYieldEstimate{
				{Quarter: 1, PredictedYield: 4100.5, Confidence: 85},
				{Quarter: 2, PredictedYield: 5200.25, Confidence: 85},
				{Quarter: 3, PredictedYield: 3900, Confidence: 85},
				{Quarter: 4, PredictedYield: 4800, Confidence: 85},
			},
			OptimalQuarter:    2,
			OverallConfidence: 85,
		},
		SelectedQuarter:   2,
		DataYear:          2025,
		DataQuality:       models.DataQualityFair,
		OptimalWindow:     windows.OptimalWindow,
		OverallConfidence: 85.9,
		Recommendation: models.Recommendation{
			PlantingPeriod: "2024-07-02 to 2024-07-08",
			QuarterReason:  "Q2 (April - June) has the highest predicted yield of 5200.25 kg/ha",
			WindowReason:   "The 7-day window starting 2024-07-02 is the most stable",
			RiskLevel:      models.RiskLow,
			ActionItems:    []string{"Prepare drainage to reduce flooding risk"},
		},
		Alternatives: &models.Alternatives{
			Quarters: []models.QuarterYieldEstimate{{Quarter: 4, PredictedYield: 4800}},
			Windows:  windows.Windows[1:],
		},
	}
}

func TestFormatAnalysis(t *testing.T) {
	out := FormatAnalysis(sampleAnalysis())

	for _, want := range []string{
		"Planting analysis: Nueva Ecija (2030)",
		"Q2 (April - June)",
		"2024-07-02 to 2024-07-08",
		"85.90%",
		"LOW",
		"5200.25 kg/ha",
		"- Prepare drainage to reduce flooding risk",
		"Q4 October - December: 4800.00 kg/ha",
		"2024-07-01 to 2024-07-07: score 0.61",
	} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "╭", "report should be boxed")
}

func TestFormatAnalysisWithoutAlternatives(t *testing.T) {
	a := sampleAnalysis()
	a.Alternatives = nil
	a.Recommendation.ActionItems = nil

	out := FormatAnalysis(a)
	assert.NotContains(t, out, "Alternatives")
	assert.NotContains(t, out, "Action items")
}

func TestFormatWindows(t *testing.T) {
	out := FormatWindows(sampleWindows(), 1)
	assert.Contains(t, out, "* 2024-07-02 to 2024-07-08")
	assert.NotContains(t, out, "2024-07-01 to")

	empty := FormatWindows(models.WindowSearchResult{Windows: []models.PlantingWindow{}, DataQuality: models.DataQualityPoor, TotalDays: 3}, 5)
	assert.Contains(t, empty, "No 7-day window")
}

func TestWindowChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WindowChart(&buf, "Manila Q3", sampleWindows()))

	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Manila Q3")
	assert.Contains(t, html, "Stability score")
	assert.Contains(t, html, "2024-07-01")
	assert.True(t, strings.Contains(html, "optimal window 2024-07-02 to 2024-07-08"))
}

func TestWindowChartEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := WindowChart(&buf, "Empty", models.WindowSearchResult{Windows: []models.PlantingWindow{}, DataQuality: models.DataQualityPoor})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no window found")
}
