package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"grain/internal/errs"
	"grain/internal/metrics"
	"grain/internal/models"
	"grain/internal/weather"
	"grain/internal/yield"
)

const (
	forecastURL = "https://api.open-meteo.com/v1/forecast"
	archiveURL  = "https://archive-api.open-meteo.com/v1/archive"
)

// DailyFields are the daily variables mapped onto models.WeatherObservation
var DailyFields = []string{
	"temperature_2m_mean",
	"dew_point_2m_mean",
	"precipitation_sum",
	"wind_speed_10m_max",
	"relative_humidity_2m_mean",
}

// OpenMeteoClient is a client for the Open-Meteo forecast and archive APIs
type OpenMeteoClient struct {
	client      *http.Client
	forecastURL string
	archiveURL  string
	timezone    string
}

type ForecastParams struct {
	Latitude     float64
	Longitude    float64
	DailyFields  []string
	Timezone     string
	StartDate    string // archive only, YYYY-MM-DD
	EndDate      string // archive only, YYYY-MM-DD
	ForecastDays int    // forecast only
}

type Option func(*OpenMeteoClient)

func WithBaseURLs(forecast, archive string) Option {
	return func(c *OpenMeteoClient) {
		if forecast != "" {
			c.forecastURL = forecast
		}
		if archive != "" {
			c.archiveURL = archive
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *OpenMeteoClient) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

func WithTimezone(tz string) Option {
	return func(c *OpenMeteoClient) {
		if tz != "" {
			c.timezone = tz
		}
	}
}

// NewOpenMeteoClient creates a new Open-Meteo API client
func NewOpenMeteoClient(opts ...Option) *OpenMeteoClient {
	c := &OpenMeteoClient{
		client:      &http.Client{Timeout: DefaultTimeout},
		forecastURL: forecastURL,
		archiveURL:  archiveURL,
		timezone:    "Asia/Manila",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildURL builds a daily request URL against base
func (c *OpenMeteoClient) BuildURL(base string, params ForecastParams) string {
	if params.Timezone == "" {
		params.Timezone = c.timezone
	}

	url := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&timezone=%s",
		base, params.Latitude, params.Longitude, params.Timezone)

	if params.StartDate != "" && params.EndDate != "" {
		url += fmt.Sprintf("&start_date=%s&end_date=%s", params.StartDate, params.EndDate)
	}

	if params.ForecastDays > 0 {
		url += fmt.Sprintf("&forecast_days=%d", params.ForecastDays)
	}

	if len(params.DailyFields) > 0 {
		url += "&daily=" + strings.Join(params.DailyFields, ",")
	}

	return url
}

// FetchQuarterlyWeather pulls the archived daily series for one quarter of a year
func (c *OpenMeteoClient) FetchQuarterlyWeather(ctx context.Context, location models.Location, year, quarter int) ([]models.WeatherObservation, error) {
	start, end, err := yield.QuarterDateRange(year, quarter)
	if err != nil {
		return nil, err
	}

	url := c.BuildURL(c.archiveURL, ForecastParams{
		Latitude:    location.Latitude,
		Longitude:   location.Longitude,
		DailyFields: DailyFields,
		StartDate:   start.Format(weather.DateLayout),
		EndDate:     end.Format(weather.DateLayout),
	})

	return c.fetchDaily(ctx, "archive", url)
}

// FetchForecast pulls up to 16 days of daily forecast
func (c *OpenMeteoClient) FetchForecast(ctx context.Context, location models.Location, daysAhead int) ([]models.WeatherObservation, error) {
	if daysAhead < 1 || daysAhead > weather.MaxForecastDays {
		return nil, fmt.Errorf("FetchForecast: daysAhead must be between 1 and %d, got %d", weather.MaxForecastDays, daysAhead)
	}

	url := c.BuildURL(c.forecastURL, ForecastParams{
		Latitude:     location.Latitude,
		Longitude:    location.Longitude,
		DailyFields:  DailyFields,
		ForecastDays: daysAhead,
	})

	return c.fetchDaily(ctx, "forecast", url)
}

func (c *OpenMeteoClient) fetchDaily(ctx context.Context, source, url string) ([]models.WeatherObservation, error) {
	start := time.Now()
	var forecast models.Forecast
	err := getJSON(ctx, c.client, url, &forecast)
	metrics.RecordWeatherFetch(source, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return ToObservations(forecast.Daily)
}

// ToObservations zips the daily arrays into observations. Mismatched lengths
// or missing values make the whole series invalid.
func ToObservations(daily models.Daily) ([]models.WeatherObservation, error) {
	n := len(daily.Time)
	columns := map[string][]*float64{
		"temperature_2m_mean":       daily.Temperature2mMean,
		"dew_point_2m_mean":         daily.DewPoint2mMean,
		"precipitation_sum":         daily.PrecipitationSum,
		"wind_speed_10m_max":        daily.WindSpeed10mMax,
		"relative_humidity_2m_mean": daily.RelativeHumidity2mMean,
	}
	for _, field := range DailyFields {
		if len(columns[field]) != n {
			return nil, errs.New(errs.KindInvalidWeatherData, "api.ToObservations",
				"%s has %d values but %d timestamps", field, len(columns[field]), n)
		}
	}

	observations := make([]models.WeatherObservation, 0, n)
	for i := 0; i < n; i++ {
		for _, field := range DailyFields {
			if columns[field][i] == nil {
				return nil, errs.New(errs.KindInvalidWeatherData, "api.ToObservations",
					"%s missing on %s", field, daily.Time[i])
			}
		}
		observations = append(observations, models.WeatherObservation{
			Date:          daily.Time[i],
			Temperature:   *daily.Temperature2mMean[i],
			DewPoint:      *daily.DewPoint2mMean[i],
			Precipitation: *daily.PrecipitationSum[i],
			WindSpeed:     *daily.WindSpeed10mMax[i],
			Humidity:      *daily.RelativeHumidity2mMean[i],
		})
	}

	return observations, nil
}
