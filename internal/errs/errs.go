package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an error for callers that need to react to it
type Kind string

const (
	KindInvalidRequest     Kind = "invalid_request"
	KindInvalidQuarter     Kind = "invalid_quarter"
	KindInvalidYear        Kind = "invalid_year"
	KindDataUnavailable    Kind = "data_unavailable"
	KindInvalidWeatherData Kind = "invalid_weather_data"
	KindTimeout            Kind = "timeout"
	KindAnalysisFailed     Kind = "analysis_failed"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrInvalidRequest     = &Error{Kind: KindInvalidRequest}
	ErrInvalidQuarter     = &Error{Kind: KindInvalidQuarter}
	ErrInvalidYear        = &Error{Kind: KindInvalidYear}
	ErrDataUnavailable    = &Error{Kind: KindDataUnavailable}
	ErrInvalidWeatherData = &Error{Kind: KindInvalidWeatherData}
	ErrTimeout            = &Error{Kind: KindTimeout}
	ErrAnalysisFailed     = &Error{Kind: KindAnalysisFailed}
)

// Error is the single error type used across the analysis pipeline
type Error struct {
	Kind       Kind
	Op         string
	Message    string
	Violations []string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(string(e.Kind))
	}
	if len(e.Violations) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Violations, "; "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match when target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, op string, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...), Err: err}
}

// InvalidRequest reports every violated constraint at once
func InvalidRequest(op string, violations []string) *Error {
	return &Error{
		Kind:       KindInvalidRequest,
		Op:         op,
		Message:    "invalid request",
		Violations: violations,
	}
}

// AnalysisFailed wraps a downstream failure keeping the cause reachable
func AnalysisFailed(op string, cause error) *Error {
	return &Error{Kind: KindAnalysisFailed, Op: op, Message: "analysis failed", Err: cause}
}

// Violations returns the violation list of the first InvalidRequest in the chain
func Violations(err error) []string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return nil
		}
		if e.Kind == KindInvalidRequest {
			return e.Violations
		}
		err = e.Err
	}
	return nil
}

// HTTPStatus maps the most specific kind in the chain to a status code.
// Input problems are 4xx, upstream and data problems are 5xx.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidYear),
		errors.Is(err, ErrInvalidQuarter):
		return http.StatusBadRequest
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrInvalidWeatherData):
		return http.StatusBadGateway
	case errors.Is(err, ErrDataUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError reports whether the caller should fix their input rather than retry
func IsClientError(err error) bool {
	status := HTTPStatus(err)
	return status >= 400 && status < 500
}
