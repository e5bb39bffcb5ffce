package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grain/internal/api"
	"grain/internal/config"
	"grain/internal/weather"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Database = config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:"}
	return cfg
}

func TestNewBaseline(t *testing.T) {
	cfg := testConfig()
	cfg.Weather.Cache = config.CacheNone

	a, err := New(context.Background(), cfg, Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Store)
	assert.IsType(t, &api.OpenMeteoClient{}, a.Provider)
	require.NotNil(t, a.Analyzer)

	min, max := a.Analyzer.Selector().YearRange()
	assert.Equal(t, cfg.Analysis.MinYear, min)
	assert.Equal(t, cfg.Analysis.MaxYear, max)
}

func TestNewWithCaches(t *testing.T) {
	cfg := testConfig()

	a, err := New(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.IsType(t, &weather.CachedProvider{}, a.Provider)
	require.NoError(t, a.Close())

	cfg.Weather.Cache = config.CacheRedis
	cfg.Redis.Addr = "localhost:0"
	a, err = New(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.IsType(t, &weather.CachedProvider{}, a.Provider)
	assert.NotNil(t, a.redis)
	assert.NoError(t, a.Close())
}

func TestNewDatabaseClimate(t *testing.T) {
	cfg := testConfig()
	cfg.Analysis.ClimateSource = config.ClimateDatabase

	a, err := New(context.Background(), cfg, Options{})
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Store)

	// No climate rows yet, so quarter selection has nothing to work with.
	_, err = a.Analyzer.Selector().AnalyzeQuarterSelection(context.Background(), 2030)
	assert.Error(t, err)
}

func TestNewDatabaseClimateWithoutDatabase(t *testing.T) {
	cfg := testConfig()
	cfg.Analysis.ClimateSource = config.ClimateDatabase
	cfg.Database.Driver = "oracle"

	_, err := New(context.Background(), cfg, Options{})
	assert.Error(t, err)
}

func TestNewOptionalStoreFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = "oracle"

	a, err := New(context.Background(), cfg, Options{OpenStore: true})
	require.NoError(t, err)
	assert.Nil(t, a.Store)
	assert.NoError(t, a.Close())
}
