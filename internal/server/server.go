package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"grain/internal/errs"
	"grain/internal/models"
	"grain/internal/planting"
	"grain/internal/report"
	"grain/internal/stability"
	"grain/internal/weather"
)

const (
	maxBodyBytes        = 1 << 20
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Store is the persistence the server needs; a nil Store disables history
type Store interface {
	SaveAnalysis(ctx context.Context, analysis *models.IntegratedPlantingAnalysis) (int64, error)
	RecentAnalyses(ctx context.Context, location string, limit int) ([]models.AnalysisRecord, error)
	GetAllLocations(ctx context.Context) ([]models.Location, error)
}

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error      string   `json:"error"`
	Message    string   `json:"message"`
	Code       int      `json:"code"`
	Violations []string `json:"violations,omitempty"`
}

// Server represents the HTTP server
type Server struct {
	analyzer  *planting.Analyzer
	store     Store
	locations []models.Location
	persist   bool
	router    *mux.Router
}

type Option func(*Server)

// WithStore enables analysis history, and persistence of new analyses when persist is set
func WithStore(store Store, persist bool) Option {
	return func(s *Server) {
		s.store = store
		s.persist = persist
	}
}

// WithLocations sets the locations listed when the store has none
func WithLocations(locations []models.Location) Option {
	return func(s *Server) {
		s.locations = locations
	}
}

// NewServer creates a new HTTP server
func NewServer(analyzer *planting.Analyzer, opts ...Option) *Server {
	s := &Server{
		analyzer: analyzer,
		router:   mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(logRequests)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "no route for " + r.URL.Path, Code: http.StatusNotFound})
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method_not_allowed", Message: "Method not allowed", Code: http.StatusMethodNotAllowed})
	})

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/planting-analysis", s.handlePlantingAnalysis).Methods(http.MethodPost)
	api.HandleFunc("/quarters", s.handleQuarters).Methods(http.MethodGet)
	api.HandleFunc("/stability-score", s.handleStabilityScore).Methods(http.MethodPost)
	api.HandleFunc("/planting-windows", s.handlePlantingWindows).Methods(http.MethodPost)
	api.HandleFunc("/planting-windows/chart", s.handleWindowChart).Methods(http.MethodGet)
	api.HandleFunc("/forecast-outlook", s.handleForecastOutlook).Methods(http.MethodGet)
	api.HandleFunc("/analyses", s.handleAnalyses).Methods(http.MethodGet)
	api.HandleFunc("/locations", s.handleLocations).Methods(http.MethodGet)

	return s
}

// Handler exposes the router for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer wraps the router with the given timeouts
func (s *Server) HTTPServer(addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
}

// handleHealth returns the server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handlePlantingAnalysis(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if !decodeBody(w, r, &req) {
		return
	}

	analysis, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	if s.store != nil && s.persist {
		if _, err := s.store.SaveAnalysis(r.Context(), analysis); err != nil {
			log.Printf("Failed to store analysis for %s: %v", req.Location.Name, err)
		}
	}

	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleQuarters(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, errs.InvalidRequest("server.quarters", []string{"year must be an integer"}))
		return
	}

	result, err := s.analyzer.Selector().AnalyzeQuarterSelection(r.Context(), year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStabilityScore(w http.ResponseWriter, r *http.Request) {
	var observations []models.WeatherObservation
	if !decodeBody(w, r, &observations) {
		return
	}

	writeJSON(w, http.StatusOK, stability.CalculateWeatherStabilityScore(observations))
}

func (s *Server) handlePlantingWindows(w http.ResponseWriter, r *http.Request) {
	var observations []models.WeatherObservation
	if !decodeBody(w, r, &observations) {
		return
	}

	// Submitted series are client input, so bad records are a request error
	if len(observations) > 0 {
		if err := weather.ValidateObservations(observations); err != nil {
			writeError(w, errs.InvalidRequest("server.plantingWindows", []string{err.Error()}))
			return
		}
	}

	writeJSON(w, http.StatusOK, planting.FindPlantingWindows(observations))
}

func (s *Server) handleForecastOutlook(w http.ResponseWriter, r *http.Request) {
	location, violations := parseLocation(r)
	days := weather.MaxForecastDays
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			violations = append(violations, "days must be an integer")
		}
		days = parsed
	}
	if len(violations) > 0 {
		writeError(w, errs.InvalidRequest("server.forecastOutlook", violations))
		return
	}

	result, err := s.analyzer.ForecastOutlook(r.Context(), location, days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleWindowChart(w http.ResponseWriter, r *http.Request) {
	location, violations := parseLocation(r)
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		violations = append(violations, "year must be an integer")
	}
	quarter, err := strconv.Atoi(r.URL.Query().Get("quarter"))
	if err != nil {
		violations = append(violations, "quarter must be an integer")
	}
	if len(violations) > 0 {
		writeError(w, errs.InvalidRequest("server.windowChart", violations))
		return
	}

	result, dataYear, err := s.analyzer.QuarterWindows(r.Context(), location, year, quarter)
	if err != nil {
		writeError(w, err)
		return
	}

	title := fmt.Sprintf("%s Q%d %d planting windows (%d weather)", location.Name, quarter, year, dataYear)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.WindowChart(w, title, *result); err != nil {
		log.Printf("Failed to render window chart: %v", err)
	}
}

func (s *Server) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, errs.New(errs.KindDataUnavailable, "server.analyses", "analysis history is not configured"))
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := s.store.RecentAnalyses(r.Context(), r.URL.Query().Get("location"), limit)
	if err != nil {
		writeError(w, errs.Wrap(errs.KindDataUnavailable, "server.analyses", err, "failed to load analysis history"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(records),
		"analyses": records,
	})
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	locations := s.locations
	if s.store != nil {
		stored, err := s.store.GetAllLocations(r.Context())
		if err != nil {
			log.Printf("Failed to load locations: %v", err)
		} else if len(stored) > 0 {
			locations = stored
		}
	}
	if locations == nil {
		locations = []models.Location{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(locations),
		"locations": locations,
	})
}

// parseLocation reads lat, lon and name query parameters.
// A missing name falls back to the coordinates.
func parseLocation(r *http.Request) (models.Location, []string) {
	q := r.URL.Query()
	var violations []string

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		violations = append(violations, "lat must be a number")
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		violations = append(violations, "lon must be a number")
	}

	name := q.Get("name")
	if name == "" {
		name = fmt.Sprintf("%.4f,%.4f", lat, lon)
	}

	return models.Location{Name: name, Latitude: lat, Longitude: lon}, violations
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   string(errs.KindInvalidRequest),
			Message: "Invalid request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := errs.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error:      errorKind(err),
		Message:    err.Error(),
		Code:       status,
		Violations: errs.Violations(err),
	})
}

// errorKind names the most specific kind in the chain
func errorKind(err error) string {
	for _, kind := range []*errs.Error{
		errs.ErrInvalidRequest,
		errs.ErrInvalidYear,
		errs.ErrInvalidQuarter,
		errs.ErrTimeout,
		errs.ErrInvalidWeatherData,
		errs.ErrDataUnavailable,
		errs.ErrAnalysisFailed,
	} {
		if errors.Is(err, kind) {
			return string(kind.Kind)
		}
	}
	return "internal_error"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
