package weather

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"grain/internal/errs"
	"grain/internal/models"
)

type yearProvider struct {
	byYear map[int][]models.WeatherObservation
	errFor map[int]error
	years  []int
}

func (p *yearProvider) FetchQuarterlyWeather(ctx context.Context, location models.Location, year, quarter int) ([]models.WeatherObservation, error) {
	p.years = append(p.years, year)
	if err, ok := p.errFor[year]; ok {
		return nil, err
	}
	if obs, ok := p.byYear[year]; ok {
		return obs, nil
	}
	return nil, errors.New("API error: status 404")
}

func (p *yearProvider) FetchForecast(ctx context.Context, location models.Location, daysAhead int) ([]models.WeatherObservation, error) {
	return nil, errors.New("not used")
}

func TestRetryPolicy_Years(t *testing.T) {
	tests := []struct {
		name   string
		policy RetryPolicy
		want   []int
	}{
		{"default", DefaultRetryPolicy(), []int{2025, 2024}},
		{"single attempt", RetryPolicy{MaxAttempts: 1, FallbackStep: 1}, []int{2025}},
		{"zero attempts still tries once", RetryPolicy{}, []int{2025}},
		{"step of two", RetryPolicy{MaxAttempts: 3, FallbackStep: 2}, []int{2025, 2023, 2021}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Years(2025); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Years() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFetchQuarter(t *testing.T) {
	ctx := context.Background()

	t.Run("first year succeeds", func(t *testing.T) {
		p := &yearProvider{byYear: map[int][]models.WeatherObservation{2025: sampleSeries("2025-04-01")}}
		obs, year, err := FetchQuarter(ctx, p, DefaultRetryPolicy(), iloilo, 2025, 2)
		if err != nil || year != 2025 || len(obs) != 1 {
			t.Errorf("FetchQuarter() = %v, %d, %v", obs, year, err)
		}
		if !reflect.DeepEqual(p.years, []int{2025}) {
			t.Errorf("attempted years = %v", p.years)
		}
	})

	t.Run("falls back a year", func(t *testing.T) {
		p := &yearProvider{byYear: map[int][]models.WeatherObservation{2024: sampleSeries("2024-04-01")}}
		_, year, err := FetchQuarter(ctx, p, DefaultRetryPolicy(), iloilo, 2025, 2)
		if err != nil {
			t.Fatalf("FetchQuarter() error = %v", err)
		}
		if year != 2024 {
			t.Errorf("year = %d, want 2024", year)
		}
	})

	t.Run("all attempts fail", func(t *testing.T) {
		p := &yearProvider{}
		_, _, err := FetchQuarter(ctx, p, DefaultRetryPolicy(), iloilo, 2025, 2)
		if err == nil {
			t.Fatal("expected error")
		}
		if !reflect.DeepEqual(p.years, []int{2025, 2024}) {
			t.Errorf("attempted years = %v", p.years)
		}
	})

	t.Run("invalid data is not retried", func(t *testing.T) {
		p := &yearProvider{errFor: map[int]error{
			2025: errs.New(errs.KindInvalidWeatherData, "test", "bad payload"),
		}, byYear: map[int][]models.WeatherObservation{2024: sampleSeries("2024-04-01")}}
		_, _, err := FetchQuarter(ctx, p, DefaultRetryPolicy(), iloilo, 2025, 2)
		if !errors.Is(err, errs.ErrInvalidWeatherData) {
			t.Errorf("error = %v, want invalid weather data", err)
		}
		if len(p.years) != 1 {
			t.Errorf("attempted years = %v, want one attempt", p.years)
		}
	})

	t.Run("fetched series is validated", func(t *testing.T) {
		bad := sampleSeries("2025-04-01")
		bad[0].Humidity = math.NaN()
		p := &yearProvider{byYear: map[int][]models.WeatherObservation{2025: bad}}
		_, _, err := FetchQuarter(ctx, p, DefaultRetryPolicy(), iloilo, 2025, 2)
		if !errors.Is(err, errs.ErrInvalidWeatherData) {
			t.Errorf("error = %v, want invalid weather data", err)
		}
	})

	t.Run("cancelled context stops retries", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		p := &yearProvider{byYear: map[int][]models.WeatherObservation{2024: sampleSeries("2024-04-01")}}
		_, _, err := FetchQuarter(cctx, p, DefaultRetryPolicy(), iloilo, 2025, 2)
		if err == nil {
			t.Fatal("expected error")
		}
		if len(p.years) != 1 {
			t.Errorf("attempted years = %v, want one attempt", p.years)
		}
	})
}
