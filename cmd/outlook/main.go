package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"grain/internal/app"
	"grain/internal/config"
	"grain/internal/models"
	"grain/internal/report"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	lat := flag.Float64("lat", 14.5995, "latitude")
	lon := flag.Float64("lon", 120.9842, "longitude")
	name := flag.String("name", "Manila", "location name")
	days := flag.Int("days", 16, "forecast days to search (7-16)")
	year := flag.Int("year", 0, "search a quarter's archived weather instead of the forecast")
	quarter := flag.Int("quarter", 1, "quarter to search, used with -year")
	limit := flag.Int("limit", 10, "windows to print, 0 prints all")
	chartPath := flag.String("chart", "", "also write an HTML chart to this file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	location := models.Location{Name: *name, Latitude: *lat, Longitude: *lon}

	var result *models.WindowSearchResult
	title := fmt.Sprintf("%s %d-day forecast", location.Name, *days)
	if *year != 0 {
		var dataYear int
		result, dataYear, err = a.Analyzer.QuarterWindows(ctx, location, *year, *quarter)
		title = fmt.Sprintf("%s Q%d %d (%d weather)", location.Name, *quarter, *year, dataYear)
	} else {
		result, err = a.Analyzer.ForecastOutlook(ctx, location, *days)
	}
	if err != nil {
		log.Fatalf("Window search failed: %v", err)
	}

	fmt.Println(report.FormatWindows(*result, *limit))

	if *chartPath != "" {
		f, err := os.Create(*chartPath)
		if err != nil {
			log.Fatalf("Failed to create chart file: %v", err)
		}
		defer f.Close()

		if err := report.WindowChart(f, title, *result); err != nil {
			log.Fatalf("Failed to render chart: %v", err)
		}
		log.Printf("✓ Chart written to %s", *chartPath)
	}
}
