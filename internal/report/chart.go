package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"grain/internal/models"
)

// WindowChart renders the stability score and confidence of every candidate
// window as an HTML line chart, in chronological order
func WindowChart(w io.Writer, title string, result models.WindowSearchResult) error {
	windows := make([]models.PlantingWindow, len(result.Windows))
	copy(windows, result.Windows)
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].StartDate < windows[j].StartDate
	})

	dates := make([]string, len(windows))
	scores := make([]opts.LineData, len(windows))
	confidences := make([]opts.LineData, len(windows))
	for i, win := range windows {
		dates[i] = win.StartDate
		scores[i] = opts.LineData{Value: win.Score.OverallScore * 100}
		confidences[i] = opts.LineData{Value: win.Confidence}
	}

	subtitle := fmt.Sprintf("%d days of weather, %s data quality, no window found", result.TotalDays, result.DataQuality)
	if result.OptimalWindow != nil {
		subtitle = fmt.Sprintf("%d days of weather, %s data quality, optimal window %s to %s (%.0f%% confidence)",
			result.TotalDays, result.DataQuality, result.OptimalWindow.StartDate, result.OptimalWindow.EndDate,
			result.OptimalWindow.Confidence)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "960px",
			Height:    "540px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "5%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Window start"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Percent", Min: 0, Max: 100}),
	)

	line.SetXAxis(dates).
		AddSeries("Stability score", scores).
		AddSeries("Confidence", confidences)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render window chart: %w", err)
	}
	return nil
}
