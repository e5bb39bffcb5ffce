package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"grain/internal/models"
	"grain/internal/yield"
)

// Climate sources for quarter selection
const (
	ClimateBaseline = "baseline"
	ClimateDatabase = "database"
)

// Weather cache backends
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	PersistAnalyses bool          `yaml:"persist_analyses"`
}

type AnalysisConfig struct {
	MinYear            int     `yaml:"min_year"`
	MaxYear            int     `yaml:"max_year"`
	BaselineConfidence float64 `yaml:"baseline_confidence"`
	// ReferenceYear is the latest year with complete archive data, 0 derives it from the clock
	ReferenceYear int    `yaml:"reference_year"`
	ClimateSource string `yaml:"climate_source"`
	MaxAttempts   int    `yaml:"max_attempts"`
	FallbackStep  int    `yaml:"fallback_step"`
}

type WeatherConfig struct {
	ForecastURL     string        `yaml:"forecast_url"`
	ArchiveURL      string        `yaml:"archive_url"`
	Timezone        string        `yaml:"timezone"`
	Timeout         time.Duration `yaml:"timeout"`
	Cache           string        `yaml:"cache"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	CacheMaxEntries int           `yaml:"cache_max_entries"`
}

// Config is loaded once by the entry point and passed down explicitly
type Config struct {
	Server          ServerConfig              `yaml:"server"`
	Analysis        AnalysisConfig            `yaml:"analysis"`
	Weather         WeatherConfig             `yaml:"weather"`
	Redis           RedisConfig               `yaml:"redis"`
	Database        DatabaseConfig            `yaml:"database"`
	Coefficients    []yield.Coefficients      `yaml:"coefficients"`
	ClimateBaseline []models.QuarterlyWeather `yaml:"climate_baseline"`
	Locations       []models.Location         `yaml:"locations"`
}

// Default returns a complete configuration that runs without a file
func Default() *Config {
	table := yield.DefaultTable()
	baseline := yield.DefaultBaseline()

	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    90 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			PersistAnalyses: true,
		},
		Analysis: AnalysisConfig{
			MinYear:            yield.DefaultMinYear,
			MaxYear:            yield.DefaultMaxYear,
			BaselineConfidence: yield.DefaultBaselineConfidence,
			ClimateSource:      ClimateBaseline,
			MaxAttempts:        2,
			FallbackStep:       1,
		},
		Weather: WeatherConfig{
			ForecastURL:     "https://api.open-meteo.com/v1/forecast",
			ArchiveURL:      "https://archive-api.open-meteo.com/v1/archive",
			Timezone:        "Asia/Manila",
			Timeout:         30 * time.Second,
			Cache:           CacheMemory,
			CacheTTL:        time.Hour,
			CacheMaxEntries: 256,
		},
		Redis:           DefaultRedisConfig(),
		Database:        DefaultDatabaseConfig(),
		Coefficients:    table[:],
		ClimateBaseline: baseline[:],
		Locations: []models.Location{
			{Name: "Manila", Latitude: 14.5995, Longitude: 120.9842},
			{Name: "Nueva Ecija", Latitude: 15.5784, Longitude: 121.1113},
			{Name: "Iloilo", Latitude: 10.7202, Longitude: 122.5621},
		},
	}
}

// Load reads a YAML file over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("GRAIN_ADDR", c.Server.Addr)
	c.Redis = GetRedisConfig(c.Redis)
	c.Database = GetDatabaseConfig(c.Database)
}

func (c *Config) validate() error {
	if len(c.Coefficients) != 4 {
		return fmt.Errorf("coefficients must have 4 rows, got %d", len(c.Coefficients))
	}
	if len(c.ClimateBaseline) != 4 {
		return fmt.Errorf("climate_baseline must have 4 rows, got %d", len(c.ClimateBaseline))
	}
	if c.Analysis.MinYear > c.Analysis.MaxYear {
		return fmt.Errorf("analysis.min_year %d is after analysis.max_year %d", c.Analysis.MinYear, c.Analysis.MaxYear)
	}
	if c.Analysis.BaselineConfidence < 0 || c.Analysis.BaselineConfidence > 100 {
		return fmt.Errorf("analysis.baseline_confidence must be between 0 and 100")
	}
	if c.Analysis.MaxAttempts < 1 {
		return fmt.Errorf("analysis.max_attempts must be at least 1")
	}
	switch c.Analysis.ClimateSource {
	case ClimateBaseline, ClimateDatabase:
	default:
		return fmt.Errorf("unknown analysis.climate_source %q", c.Analysis.ClimateSource)
	}
	switch c.Weather.Cache {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unknown weather.cache %q", c.Weather.Cache)
	}
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	return nil
}

// Table returns the coefficient rows as a yield table
func (c *Config) Table() yield.Table {
	var table yield.Table
	copy(table[:], c.Coefficients)
	return table
}

// Baseline returns the quarterly climate baseline
func (c *Config) Baseline() [4]models.QuarterlyWeather {
	var baseline [4]models.QuarterlyWeather
	copy(baseline[:], c.ClimateBaseline)
	return baseline
}
