package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"grain/internal/errs"
	"grain/internal/models"
)

var manila = models.Location{Name: "Manila", Latitude: 14.5995, Longitude: 120.9842}

func TestNewOpenMeteoClient(t *testing.T) {
	client := NewOpenMeteoClient()
	if client == nil {
		t.Fatal("NewOpenMeteoClient() returned nil")
	}

	if client.client == nil {
		t.Error("OpenMeteoClient.client should not be nil")
	}

	if client.client.Timeout != DefaultTimeout {
		t.Errorf("client timeout = %v, want %v", client.client.Timeout, DefaultTimeout)
	}
}

func TestBuildURL(t *testing.T) {
	client := NewOpenMeteoClient()

	tests := []struct {
		name   string
		base   string
		params ForecastParams
		want   string
	}{
		{
			name: "archive quarter",
			base: archiveURL,
			params: ForecastParams{
				Latitude:    14.5995,
				Longitude:   120.9842,
				DailyFields: []string{"temperature_2m_mean", "precipitation_sum"},
				StartDate:   "2024-07-01",
				EndDate:     "2024-09-30",
			},
			want: "https://archive-api.open-meteo.com/v1/archive?latitude=14.5995&longitude=120.9842&timezone=Asia/Manila&start_date=2024-07-01&end_date=2024-09-30&daily=temperature_2m_mean,precipitation_sum",
		},
		{
			name: "daily forecast",
			base: forecastURL,
			params: ForecastParams{
				Latitude:     10.7202,
				Longitude:    122.5621,
				DailyFields:  []string{"wind_speed_10m_max"},
				ForecastDays: 16,
			},
			want: "https://api.open-meteo.com/v1/forecast?latitude=10.7202&longitude=122.5621&timezone=Asia/Manila&forecast_days=16&daily=wind_speed_10m_max",
		},
		{
			name: "custom timezone",
			base: forecastURL,
			params: ForecastParams{
				Latitude:     -33.8688,
				Longitude:    151.2093,
				Timezone:     "Australia/Sydney",
				ForecastDays: 7,
			},
			want: "https://api.open-meteo.com/v1/forecast?latitude=-33.8688&longitude=151.2093&timezone=Australia/Sydney&forecast_days=7",
		},
		{
			name: "start date without end date is ignored",
			base: archiveURL,
			params: ForecastParams{
				Latitude:  0,
				Longitude: 0,
				StartDate: "2024-01-01",
			},
			want: "https://archive-api.open-meteo.com/v1/archive?latitude=0.0000&longitude=0.0000&timezone=Asia/Manila",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := client.BuildURL(tt.base, tt.params)
			if got != tt.want {
				t.Errorf("BuildURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithTimezone(t *testing.T) {
	client := NewOpenMeteoClient(WithTimezone("UTC"))

	url := client.BuildURL(forecastURL, ForecastParams{Latitude: 1, Longitude: 2})
	if !strings.Contains(url, "timezone=UTC") {
		t.Errorf("BuildURL() = %v, want timezone=UTC", url)
	}
}

const dailyBody = `{
  "latitude": 14.6,
  "longitude": 121.0,
  "timezone": "Asia/Manila",
  "daily": {
    "time": ["2024-07-01", "2024-07-02"],
    "temperature_2m_mean": [27.1, 26.4],
    "dew_point_2m_mean": [23.0, 22.8],
    "precipitation_sum": [12.5, 0.0],
    "wind_speed_10m_max": [14.2, 11.0],
    "relative_humidity_2m_mean": [82, 79]
  }
}`

func TestFetchQuarterlyWeather(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, dailyBody)
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(WithBaseURLs(srv.URL, srv.URL))

	obs, err := client.FetchQuarterlyWeather(context.Background(), manila, 2024, 3)
	if err != nil {
		t.Fatalf("FetchQuarterlyWeather() error = %v", err)
	}

	if !strings.Contains(gotQuery, "start_date=2024-07-01&end_date=2024-09-30") {
		t.Errorf("query = %v, want the Q3 2024 date range", gotQuery)
	}
	if len(obs) != 2 {
		t.Fatalf("len(obs) = %d, want 2", len(obs))
	}
	want := models.WeatherObservation{Date: "2024-07-01", Temperature: 27.1, DewPoint: 23.0, Precipitation: 12.5, WindSpeed: 14.2, Humidity: 82}
	if obs[0] != want {
		t.Errorf("obs[0] = %+v, want %+v", obs[0], want)
	}
}

func TestFetchQuarterlyWeather_InvalidQuarter(t *testing.T) {
	client := NewOpenMeteoClient()

	_, err := client.FetchQuarterlyWeather(context.Background(), manila, 2024, 5)
	if !errors.Is(err, errs.ErrInvalidQuarter) {
		t.Errorf("FetchQuarterlyWeather() error = %v, want invalid quarter", err)
	}
}

func TestFetchForecast(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, dailyBody)
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(WithBaseURLs(srv.URL, ""))

	obs, err := client.FetchForecast(context.Background(), manila, 16)
	if err != nil {
		t.Fatalf("FetchForecast() error = %v", err)
	}
	if len(obs) != 2 {
		t.Errorf("len(obs) = %d, want 2", len(obs))
	}
	if !strings.Contains(gotQuery, "forecast_days=16") {
		t.Errorf("query = %v, want forecast_days=16", gotQuery)
	}

	for _, days := range []int{0, 17} {
		if _, err := client.FetchForecast(context.Background(), manila, days); err == nil {
			t.Errorf("FetchForecast(%d) expected error, got nil", days)
		}
	}
}

func TestFetch_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":true,"reason":"Parameter 'start_date' is out of range"}`)
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(WithBaseURLs(srv.URL, srv.URL))

	_, err := client.FetchQuarterlyWeather(context.Background(), manila, 2024, 1)
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "API error: status 400") {
		t.Errorf("error = %v, want API error status", err)
	}
	if errors.Is(err, errs.ErrInvalidWeatherData) || errors.Is(err, errs.ErrTimeout) {
		t.Errorf("non-200 should be a plain upstream error, got %v", err)
	}
}

func TestFetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"daily": {"time": "not-an-array"}}`)
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(WithBaseURLs(srv.URL, srv.URL))

	_, err := client.FetchQuarterlyWeather(context.Background(), manila, 2024, 1)
	if !errors.Is(err, errs.ErrInvalidWeatherData) {
		t.Errorf("error = %v, want invalid weather data", err)
	}
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
		fmt.Fprint(w, dailyBody)
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(WithBaseURLs(srv.URL, srv.URL), WithTimeout(50*time.Millisecond))

	_, err := client.FetchForecast(context.Background(), manila, 7)
	if !errors.Is(err, errs.ErrTimeout) {
		t.Errorf("error = %v, want timeout", err)
	}
}

func ptr(v float64) *float64 { return &v }

func TestToObservations(t *testing.T) {
	full := models.Daily{
		Time:                   []string{"2024-01-01"},
		Temperature2mMean:      []*float64{ptr(26)},
		DewPoint2mMean:         []*float64{ptr(21)},
		PrecipitationSum:       []*float64{ptr(3)},
		WindSpeed10mMax:        []*float64{ptr(12)},
		RelativeHumidity2mMean: []*float64{ptr(78)},
	}

	obs, err := ToObservations(full)
	if err != nil {
		t.Fatalf("ToObservations() error = %v", err)
	}
	if len(obs) != 1 || obs[0].Humidity != 78 {
		t.Errorf("ToObservations() = %+v", obs)
	}

	short := full
	short.PrecipitationSum = nil
	if _, err := ToObservations(short); !errors.Is(err, errs.ErrInvalidWeatherData) {
		t.Errorf("mismatched lengths error = %v, want invalid weather data", err)
	}

	missing := full
	missing.WindSpeed10mMax = []*float64{nil}
	_, err = ToObservations(missing)
	if !errors.Is(err, errs.ErrInvalidWeatherData) {
		t.Errorf("missing value error = %v, want invalid weather data", err)
	}
	if err != nil && !strings.Contains(err.Error(), "wind_speed_10m_max missing on 2024-01-01") {
		t.Errorf("error = %v", err)
	}

	empty, err := ToObservations(models.Daily{})
	if err != nil || len(empty) != 0 {
		t.Errorf("ToObservations(empty) = %v, %v", empty, err)
	}
}
