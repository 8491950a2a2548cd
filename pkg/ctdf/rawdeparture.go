package ctdf

import (
	"fmt"
	"time"
)

// RawDeparture is one upstream record keyed by the upstream field names.
// TfL records are decoded straight from JSON, LDBWS services are converted into the same shape.
type RawDeparture map[string]any

func (r RawDeparture) Has(field string) bool {
	value, exists := r[field]

	return exists && value != nil
}

func (r RawDeparture) String(field string) string {
	value, exists := r[field]
	if !exists || value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}

// Time parses an ISO-8601 timestamp field
func (r RawDeparture) Time(field string) (time.Time, bool) {
	value := r.String(field)
	if value == "" {
		return time.Time{}, false
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// TfL sometimes drops the zone designator
		parsed, err = time.ParseInLocation("2006-01-02T15:04:05", value, time.UTC)
		if err != nil {
			return time.Time{}, false
		}
	}

	return parsed, true
}
