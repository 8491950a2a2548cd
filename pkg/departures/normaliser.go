package departures

import (
	"strconv"
	"strings"
	"time"

	"github.com/morosanmihail/HA-LondonTfL/pkg/ctdf"
)

const (
	TimeToStationStyle = "{0}m {1}s"
	MinutesStyle       = "{0}"
)

// Destination picks the display destination of a record.
// Buses mostly only carry "towards" while trains carry a precise destinationName,
// useDestinationName lets each mode say which one wins.
func Destination(record ctdf.RawDeparture, useDestinationName bool) string {
	destinationName := record.String("destinationName")

	if useDestinationName && destinationName != "" {
		return destinationName
	}

	if towards := record.String("towards"); towards != "" {
		return towards
	}

	return destinationName
}

// TimeToStation renders the gap between now and timestamp through style, where {0} is whole minutes and {1} the remaining seconds.
// Past timestamps give negative values, callers filter those out before display.
func TimeToStation(record ctdf.RawDeparture, timestamp time.Time, now time.Time, withDestination bool, style string) string {
	seconds := int(timestamp.Sub(now) / time.Second)

	formatted := strings.NewReplacer(
		"{0}", strconv.Itoa(seconds/60),
		"{1}", strconv.Itoa(seconds%60),
	).Replace(style)

	if withDestination {
		formatted += " to " + Destination(record, false)
	}

	return formatted
}

// ResolvePlatform strips the "Platform " prefix TfL puts in front of platform numbers
func ResolvePlatform(record ctdf.RawDeparture, mode ctdf.TransportMode) string {
	return strings.TrimPrefix(record.String(mode.PlatformField), "Platform ")
}

// Normalise builds the published departure for one raw record
func Normalise(record ctdf.RawDeparture, mode ctdf.TransportMode, now time.Time) ctdf.Departure {
	expected, _ := record.Time(mode.ExpectedArrivalField)

	departure, hasDeparture := record.Time(mode.ExpectedDepartureField)
	if !hasDeparture {
		departure = expected
	}

	return ctdf.Departure{
		Destination: Destination(record, mode.UseDestinationName),
		Platform:    ResolvePlatform(record, mode),
		Line:        record.String(mode.PlatformField),

		Expected:  expected,
		Departure: departure,

		TimeToStation:     expected.Sub(now),
		TimeToStationText: TimeToStation(record, expected, now, false, TimeToStationStyle),
		Minutes:           TimeToStation(record, expected, now, false, MinutesStyle),

		Type:         mode.Type,
		Icon:         mode.Icon,
		GroupOfLines: "",
	}
}
