package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"grain/internal/config"
	"grain/internal/database"
	"grain/internal/models"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	locationsPath := flag.String("locations", "locations_seed.csv", "CSV of name,latitude,longitude")
	climatePath := flag.String("climate", "", "CSV of year,quarter,temperature,dew_point,precipitation,wind_speed,humidity")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.NewStore(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if *locationsPath != "" {
		inserted, skipped, err := seedLocations(ctx, db, *locationsPath)
		if err != nil {
			log.Fatalf("Failed to seed locations: %v", err)
		}
		log.Printf("✓ Locations imported: %d inserted, %d skipped", inserted, skipped)
	}

	if *climatePath != "" {
		upserted, skipped, err := seedClimate(ctx, db, *climatePath)
		if err != nil {
			log.Fatalf("Failed to seed climate: %v", err)
		}
		log.Printf("✓ Quarterly climate imported: %d rows, %d skipped", upserted, skipped)
	}
}

// readRecords opens a CSV file and hands every row after the header to fn
func readRecords(path string, fn func(record []string)) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}
	log.Printf("CSV Header: %v", header)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV record: %w", err)
		}
		fn(record)
	}
}

func seedLocations(ctx context.Context, db *database.Store, path string) (int, int, error) {
	count, skipped := 0, 0
	err := readRecords(path, func(record []string) {
		location, err := parseLocation(record)
		if err != nil {
			log.Printf("Skipping record %v: %v", record, err)
			skipped++
			return
		}

		if _, err := db.InsertLocation(ctx, location); err != nil {
			if errors.Is(err, database.ErrDuplicateLocation) {
				log.Printf("Location already exists: %s", location.Name)
			} else {
				log.Printf("Failed to insert location %s: %v", location.Name, err)
			}
			skipped++
			return
		}

		count++
		if count%100 == 0 {
			log.Printf("Inserted %d locations...", count)
		}
	})
	return count, skipped, err
}

func seedClimate(ctx context.Context, db *database.Store, path string) (int, int, error) {
	count, skipped := 0, 0
	err := readRecords(path, func(record []string) {
		row, err := parseClimate(record)
		if err != nil {
			log.Printf("Skipping record %v: %v", record, err)
			skipped++
			return
		}

		if err := db.UpsertQuarterlyClimate(ctx, row.year, row.quarter, row.weather, "seed"); err != nil {
			log.Printf("Failed to store Q%d %d: %v", row.quarter, row.year, err)
			skipped++
			return
		}
		count++
	})
	return count, skipped, err
}

func parseLocation(record []string) (models.Location, error) {
	if len(record) < 3 {
		return models.Location{}, fmt.Errorf("expected 3 fields, got %d", len(record))
	}

	latitude, err := strconv.ParseFloat(record[1], 64)
	if err != nil || latitude < -90 || latitude > 90 {
		return models.Location{}, fmt.Errorf("invalid latitude %q", record[1])
	}

	longitude, err := strconv.ParseFloat(record[2], 64)
	if err != nil || longitude < -180 || longitude > 180 {
		return models.Location{}, fmt.Errorf("invalid longitude %q", record[2])
	}

	if record[0] == "" {
		return models.Location{}, errors.New("missing name")
	}

	return models.Location{Name: record[0], Latitude: latitude, Longitude: longitude}, nil
}

type climateRecord struct {
	year    int
	quarter int
	weather models.QuarterlyWeather
}

func parseClimate(record []string) (climateRecord, error) {
	if len(record) < 7 {
		return climateRecord{}, fmt.Errorf("expected 7 fields, got %d", len(record))
	}

	year, err := strconv.Atoi(record[0])
	if err != nil {
		return climateRecord{}, fmt.Errorf("invalid year %q", record[0])
	}
	quarter, err := strconv.Atoi(record[1])
	if err != nil || quarter < 1 || quarter > 4 {
		return climateRecord{}, fmt.Errorf("invalid quarter %q", record[1])
	}

	values := make([]float64, 5)
	for i := range values {
		values[i], err = strconv.ParseFloat(record[i+2], 64)
		if err != nil {
			return climateRecord{}, fmt.Errorf("invalid value %q in column %d", record[i+2], i+3)
		}
	}

	return climateRecord{
		year:    year,
		quarter: quarter,
		weather: models.QuarterlyWeather{
			Temperature:   values[0],
			DewPoint:      values[1],
			Precipitation: values[2],
			WindSpeed:     values[3],
			Humidity:      values[4],
		},
	}, nil
}
