package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"grain/internal/api"
	"grain/internal/config"
	"grain/internal/database"
	"grain/internal/models"
	"grain/internal/weather"
)

const climateSource = "open-meteo-archive"

type climateWriter interface {
	UpsertQuarterlyClimate(ctx context.Context, year, quarter int, w models.QuarterlyWeather, source string) error
}

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	name := flag.String("name", "", "location name, looked up in the store or config when -lat/-lon are not given")
	lat := flag.Float64("lat", 0, "latitude, used with -name")
	lon := flag.Float64("lon", 0, "longitude, used with -name")
	reference := flag.Int("reference", 0, "archive year to derive from (defaults to last year)")
	from := flag.Int("from", 0, "first target year (defaults to analysis.min_year)")
	to := flag.Int("to", 0, "last target year (defaults to analysis.max_year)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	refYear := *reference
	if refYear == 0 {
		refYear = cfg.Analysis.ReferenceYear
	}
	if refYear == 0 {
		refYear = time.Now().Year() - 1
	}
	if *from == 0 {
		*from = cfg.Analysis.MinYear
	}
	if *to == 0 {
		*to = cfg.Analysis.MaxYear
	}

	ctx := context.Background()

	db, err := database.NewStore(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	location, err := resolveLocation(ctx, db, cfg.Locations, *name, *lat, *lon)
	if err != nil {
		log.Fatalf("Failed to resolve location: %v", err)
	}

	client := api.NewOpenMeteoClient(
		api.WithBaseURLs(cfg.Weather.ForecastURL, cfg.Weather.ArchiveURL),
		api.WithTimeout(cfg.Weather.Timeout),
		api.WithTimezone(cfg.Weather.Timezone),
	)
	policy := weather.RetryPolicy{MaxAttempts: cfg.Analysis.MaxAttempts, FallbackStep: cfg.Analysis.FallbackStep}

	rows, err := collect(ctx, client, db, policy, location, refYear, *from, *to)
	if err != nil {
		log.Fatalf("Collection failed: %v", err)
	}
	log.Printf("✓ Stored %d quarterly climate rows for %d-%d from %s %d archive", rows, *from, *to, location.Name, refYear)
}

type locationFinder interface {
	GetLocationByName(ctx context.Context, name string) (*models.Location, error)
}

// resolveLocation uses explicit coordinates when given, then a stored
// location by name, then the configured list
func resolveLocation(ctx context.Context, store locationFinder, configured []models.Location, name string, lat, lon float64) (models.Location, error) {
	if name == "" {
		if len(configured) == 0 {
			return models.Location{}, errors.New("no location given and none configured")
		}
		return configured[0], nil
	}
	if lat != 0 || lon != 0 {
		return models.Location{Name: name, Latitude: lat, Longitude: lon}, nil
	}

	stored, err := store.GetLocationByName(ctx, name)
	if err == nil {
		return *stored, nil
	}
	if !errors.Is(err, database.ErrLocationNotFound) {
		return models.Location{}, err
	}
	for _, l := range configured {
		if l.Name == name {
			return l, nil
		}
	}
	return models.Location{}, fmt.Errorf("unknown location %q: give -lat and -lon", name)
}

// collect aggregates each quarter of the reference year concurrently and
// writes the result as the climate of every year in [from, to]
func collect(ctx context.Context, provider weather.Provider, store climateWriter, policy weather.RetryPolicy,
	location models.Location, refYear, from, to int) (int, error) {
	if from > to {
		return 0, fmt.Errorf("invalid year range %d-%d", from, to)
	}

	var quarters [4]models.QuarterlyWeather
	var failures [4]error
	var wg sync.WaitGroup

	for q := 1; q <= 4; q++ {
		wg.Add(1)
		go func(quarter int) {
			defer wg.Done()

			observations, usedYear, err := weather.FetchQuarter(ctx, provider, policy, location, refYear, quarter)
			if err != nil {
				failures[quarter-1] = err
				return
			}
			quarters[quarter-1] = weather.Aggregate(observations)
			log.Printf("Aggregated Q%d from %d days of %d weather", quarter, len(observations), usedYear)
		}(q)
	}
	wg.Wait()

	for i, err := range failures {
		if err != nil {
			return 0, fmt.Errorf("fetch Q%d: %w", i+1, err)
		}
	}

	rows := 0
	for year := from; year <= to; year++ {
		for i, w := range quarters {
			if err := store.UpsertQuarterlyClimate(ctx, year, i+1, w, climateSource); err != nil {
				return rows, fmt.Errorf("store Q%d %d: %w", i+1, year, err)
			}
			rows++
		}
		if year%10 == 0 {
			log.Printf("Stored climate through %d...", year)
		}
	}

	return rows, nil
}
