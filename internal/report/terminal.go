package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"grain/internal/models"
	"grain/internal/yield"
)

var (
	colorPrimary = lipgloss.Color("#6BCF7F")
	colorMuted   = lipgloss.Color("#6C757D")
	colorBorder  = lipgloss.Color("#5C946E")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(20)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)

func riskStyle(level models.RiskLevel) lipgloss.Style {
	switch level {
	case models.RiskLow:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6BCF7F"))
	case models.RiskMedium:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD93D"))
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	}
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

// FormatAnalysis renders an analysis as a bordered terminal report
func FormatAnalysis(a *models.IntegratedPlantingAnalysis) string {
	rec := a.Recommendation
	loc := a.Request.Location

	sections := []string{
		titleStyle.Render(fmt.Sprintf("Planting analysis: %s (%d)", loc.Name, a.Request.Year)),
		row("Location", fmt.Sprintf("%.4f, %.4f", loc.Latitude, loc.Longitude)),
		row("Selected quarter", fmt.Sprintf("Q%d (%s)", a.SelectedQuarter, yield.QuarterLabel(a.SelectedQuarter))),
		row("Planting period", rec.PlantingPeriod),
		row("Weather data year", fmt.Sprintf("%d", a.DataYear)),
		row("Data quality", string(a.DataQuality)),
		row("Overall confidence", fmt.Sprintf("%.2f%%", a.OverallConfidence)),
		row("Risk level", riskStyle(rec.RiskLevel).Render(strings.ToUpper(string(rec.RiskLevel)))),
		headerStyle.Render("Quarterly yield"),
	}

	for _, q := range a.QuarterSelection.Quarters {
		marker := " "
		if q.Quarter == a.QuarterSelection.OptimalQuarter {
			marker = "*"
		}
		sections = append(sections, fmt.Sprintf("%s Q%d %-22s %14.2f kg/ha", marker, q.Quarter, yield.QuarterLabel(q.Quarter), q.PredictedYield))
	}

	sections = append(sections,
		headerStyle.Render("Why"),
		rec.QuarterReason,
		rec.WindowReason,
	)

	if len(rec.ActionItems) > 0 {
		sections = append(sections, headerStyle.Render("Action items"))
		for _, item := range rec.ActionItems {
			sections = append(sections, "- "+item)
		}
	}

	if a.Alternatives != nil && (len(a.Alternatives.Quarters) > 0 || len(a.Alternatives.Windows) > 0) {
		sections = append(sections, headerStyle.Render("Alternatives"))
		for _, q := range a.Alternatives.Quarters {
			sections = append(sections, fmt.Sprintf("  Q%d %s: %.2f kg/ha", q.Quarter, yield.QuarterLabel(q.Quarter), q.PredictedYield))
		}
		for _, w := range a.Alternatives.Windows {
			sections = append(sections, fmt.Sprintf("  %s to %s: score %.2f, %.0f%% confidence", w.StartDate, w.EndDate, w.Score.OverallScore, w.Confidence))
		}
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// FormatWindows renders a window search as a short ranked list
func FormatWindows(result models.WindowSearchResult, limit int) string {
	sections := []string{
		titleStyle.Render(fmt.Sprintf("Planting windows (%d days, %s data)", result.TotalDays, result.DataQuality)),
	}

	if len(result.Windows) == 0 {
		sections = append(sections, "No 7-day window fits in the available weather data")
		return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	}

	for i, w := range result.Windows {
		if limit > 0 && i == limit {
			break
		}
		marker := " "
		if result.OptimalWindow != nil && w.StartDate == result.OptimalWindow.StartDate {
			marker = "*"
		}
		sections = append(sections, fmt.Sprintf("%s %s to %s  score %.2f  %5.1f%%  %s",
			marker, w.StartDate, w.EndDate, w.Score.OverallScore, w.Confidence,
			riskStyle(w.Score.RiskLevel).Render(string(w.Score.RiskLevel))))
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
