package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Database metrics
var (
	// DBQueriesTotal tracks the total number of database queries
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries executed",
		},
		[]string{"query_type", "table", "status"},
	)

	// DBQueryDuration tracks the duration of database queries
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_type", "table"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_open",
			Help: "Number of established connections both in use and idle",
		},
	)

	DBConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "Number of connections currently in use",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle connections",
		},
	)
)

// Analysis metrics
var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grain_analyses_total",
			Help: "Total number of planting analyses by outcome",
		},
		[]string{"status"},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "grain_analysis_duration_seconds",
			Help:    "Duration of integrated planting analyses in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	// WindowsEvaluated observes how many 7-day windows each search scored
	WindowsEvaluated = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "grain_planting_windows_evaluated",
			Help:    "Number of planting windows scored per search",
			Buckets: []float64{0, 1, 5, 10, 30, 60, 90},
		},
	)
)

// Weather provider metrics
var (
	WeatherFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grain_weather_fetch_total",
			Help: "Total number of weather provider calls by source and status",
		},
		[]string{"source", "status"},
	)

	WeatherFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grain_weather_fetch_duration_seconds",
			Help:    "Duration of weather provider calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	WeatherCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grain_weather_cache_total",
			Help: "Weather cache lookups by result",
		},
		[]string{"result"},
	)

	AppStartTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "grain_app_start_time_seconds",
			Help: "Unix timestamp of when the application started",
		},
	)
)

func init() {
	AppStartTime.SetToCurrentTime()
}

// RecordDBQuery records a database query execution
func RecordDBQuery(queryType, table string, duration time.Duration, err error) {
	DBQueriesTotal.WithLabelValues(queryType, table, status(err)).Inc()
	DBQueryDuration.WithLabelValues(queryType, table).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics
func UpdateDBConnectionStats(open, inUse, idle int) {
	DBConnectionsOpen.Set(float64(open))
	DBConnectionsInUse.Set(float64(inUse))
	DBConnectionsIdle.Set(float64(idle))
}

func RecordAnalysis(duration time.Duration, err error) {
	AnalysesTotal.WithLabelValues(status(err)).Inc()
	AnalysisDuration.Observe(duration.Seconds())
}

func RecordWeatherFetch(source string, duration time.Duration, err error) {
	WeatherFetchTotal.WithLabelValues(source, status(err)).Inc()
	WeatherFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func RecordCacheLookup(hit bool) {
	if hit {
		WeatherCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	WeatherCacheTotal.WithLabelValues("miss").Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
