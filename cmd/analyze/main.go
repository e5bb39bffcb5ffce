package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"grain/internal/app"
	"grain/internal/config"
	"grain/internal/errs"
	"grain/internal/models"
	"grain/internal/report"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	lat := flag.Float64("lat", 14.5995, "latitude")
	lon := flag.Float64("lon", 120.9842, "longitude")
	name := flag.String("name", "Manila", "location name")
	year := flag.Int("year", time.Now().Year()+1, "target planting year")
	quarter := flag.Int("quarter", 0, "force a quarter (1-4), 0 uses the optimal one")
	forecast := flag.Bool("forecast", false, "search the 16-day forecast instead of the quarter archive")
	alternatives := flag.Bool("alternatives", true, "include alternative quarters and windows")
	asJSON := flag.Bool("json", false, "print JSON instead of the terminal report")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, app.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	historical := !*forecast
	req := models.AnalysisRequest{
		Year:                *year,
		Location:            models.Location{Name: *name, Latitude: *lat, Longitude: *lon},
		IncludeAlternatives: *alternatives,
		UseHistoricalData:   &historical,
	}
	if *quarter != 0 {
		req.OverrideQuarter = quarter
	}

	analysis, err := a.Analyzer.Analyze(ctx, req)
	if err != nil {
		for _, v := range errs.Violations(err) {
			fmt.Fprintln(os.Stderr, "  -", v)
		}
		log.Fatalf("Analysis failed: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			log.Fatalf("Failed to encode analysis: %v", err)
		}
		return
	}

	fmt.Println(report.FormatAnalysis(analysis))
}
