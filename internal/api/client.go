package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"grain/internal/errs"
)

// DefaultTimeout bounds every call to an external weather service
const DefaultTimeout = 30 * time.Second

// getJSON performs a GET and decodes a JSON body into out.
// Deadline failures are reported as errs.KindTimeout so callers can tell them apart.
func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return errs.Wrap(errs.KindTimeout, "api.getJSON", err, "weather request timed out after %s", client.Timeout)
		}
		return fmt.Errorf("failed to fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(err) {
			return errs.Wrap(errs.KindTimeout, "api.getJSON", err, "weather response timed out after %s", client.Timeout)
		}
		return errs.Wrap(errs.KindInvalidWeatherData, "api.getJSON", err, "failed to decode response")
	}

	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
