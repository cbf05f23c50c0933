package validation

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"filedrop/internal/models"
	"filedrop/internal/permissions"
)

const (
	// DefaultExpiry applies when an upload does not specify one.
	DefaultExpiry = time.Hour

	minExpiry         = 5 * time.Minute
	maxUploaderExpiry = 7 * 24 * time.Hour
)

// ValidateExpiry resolves an expiry form value ("off", empty, or a number of
// hours) into an absolute deadline. A nil result means the content never
// expires, which only admins may request. Uploaders are capped at 7 days.
func ValidateExpiry(role models.Role, value string, now time.Time) (*time.Time, error) {
	if value == "" {
		t := now.Add(DefaultExpiry)
		return &t, nil
	}

	if value == "off" {
		if !permissions.CanSetNoExpiry(role) {
			return nil, fmt.Errorf("Only admins can upload content without an expiry")
		}
		return nil, nil
	}

	hours, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) || hours <= 0 {
		return nil, fmt.Errorf("invalid expiry value %q", value)
	}

	d := time.Duration(hours * float64(time.Hour))
	if d < minExpiry {
		return nil, fmt.Errorf("expiry must be at least %s", minExpiry)
	}
	if d > maxUploaderExpiry && !permissions.IsAdmin(role) {
		return nil, fmt.Errorf("expiry cannot exceed 7 days")
	}

	t := now.Add(d)
	return &t, nil
}
