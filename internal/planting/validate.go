package planting

import (
	"fmt"
	"strings"

	"grain/internal/errs"
	"grain/internal/models"
)

// ValidateRequest collects every violated constraint instead of stopping at the first
func ValidateRequest(req models.AnalysisRequest, minYear, maxYear int) error {
	var violations []string

	if req.Year < minYear || req.Year > maxYear {
		violations = append(violations, fmt.Sprintf("Year must be between %d and %d", minYear, maxYear))
	}
	violations = append(violations, locationViolations(req.Location)...)
	if req.OverrideQuarter != nil && (*req.OverrideQuarter < 1 || *req.OverrideQuarter > 4) {
		violations = append(violations, "Override quarter must be 1, 2, 3 or 4")
	}

	if len(violations) > 0 {
		return errs.InvalidRequest("planting.ValidateRequest", violations)
	}
	return nil
}

// ValidateLocation applies the coordinate and name rules on their own
func ValidateLocation(location models.Location) error {
	if violations := locationViolations(location); len(violations) > 0 {
		return errs.InvalidRequest("planting.ValidateLocation", violations)
	}
	return nil
}

func locationViolations(location models.Location) []string {
	var violations []string
	if location.Latitude < -90 || location.Latitude > 90 {
		violations = append(violations, "Invalid latitude: must be between -90 and 90")
	}
	if location.Longitude < -180 || location.Longitude > 180 {
		violations = append(violations, "Invalid longitude: must be between -180 and 180")
	}
	if strings.TrimSpace(location.Name) == "" {
		violations = append(violations, "Location name is required")
	}
	return violations
}
