package util

import (
	"time"

	_ "time/tzdata"
)

var londonLocation *time.Location

func init() {
	var err error
	londonLocation, err = time.LoadLocation("Europe/London")
	if err != nil {
		londonLocation = time.UTC
	}
}

// LondonLocation is the zone departures are published and displayed in
func LondonLocation() *time.Location {
	return londonLocation
}

func AddTimeToDate(date time.Time, sourceTime time.Time) time.Time {
	newDateTime := time.Date(date.Year(), date.Month(), date.Day(), sourceTime.Hour(), sourceTime.Minute(), sourceTime.Second(), sourceTime.Nanosecond(), date.Location())

	return newDateTime
}
