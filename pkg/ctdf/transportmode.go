package ctdf

import (
	"fmt"
	"strings"
)

const (
	TfLArrivalsURL    = "/line/%[1]s/arrivals/%[2]s?test=%[3]s"
	TfLAltArrivalsURL = "/StopPoint/%[2]s/arrivaldepartures?lineIds=%[1]s&test=%[3]s"
	TfLBusArrivalsURL = "/StopPoint/%[2]s/arrivals?test=%[3]s"
	TfLLinesURL       = "/line/mode/%s"
	TfLStationsURL    = "/line/%s/stoppoints"
)

const (
	ModeDefault      = "default"
	ModeBus          = "bus"
	ModeNationalRail = "national-rail"
	ModeThameslink   = "thameslink"

	// Thameslink shares track with several rail operators and TfL publishes
	// its departures on the StopPoint arrivaldepartures endpoint instead
	LineThameslink = "thameslink"
)

// SupportedMethods are the modes a stop can be configured with
var SupportedMethods = []string{
	"tube",
	"dlr",
	"overground",
	"cable-car",
	"tram",
	"river-tour",
	"elizabeth-line",
	ModeNationalRail,
	ModeBus,
}

type Colour struct {
	R int `json:"r" yaml:"r"`
	G int `json:"g" yaml:"g"`
	B int `json:"b" yaml:"b"`
}

// TransportMode describes how one TfL mode is fetched and displayed.
// Values are read only, callers get a copy from ResolveTransportMode.
type TransportMode struct {
	ModeID string
	Type   TransportType
	Icon   string

	UseDestinationName bool

	URLTemplate            string
	ExpectedDepartureField string
	ExpectedArrivalField   string
	PlatformField          string

	Colour Colour
}

// RequestPath fills the URL template with the positional line, station and token
func (m TransportMode) RequestPath(line string, station string, token string) string {
	return fmt.Sprintf(m.URLTemplate, line, station, token)
}

// UsesLDBWS is true when departures come from the National Rail SOAP board rather than TfL
func (m TransportMode) UsesLDBWS() bool {
	return m.ModeID == ModeNationalRail
}

const (
	iconBus   = "mdi:bus"
	iconTram  = "mdi:tram"
	iconTrain = "mdi:train"
)

var defaultColour = Colour{R: 0, G: 25, B: 168}

func metroMode(modeID string, icon string, colour Colour) TransportMode {
	return TransportMode{
		ModeID:                 modeID,
		Type:                   TransportTypeMetros,
		Icon:                   icon,
		UseDestinationName:     false,
		URLTemplate:            TfLArrivalsURL,
		ExpectedDepartureField: "expectedArrival",
		ExpectedArrivalField:   "expectedArrival",
		PlatformField:          "platformName",
		Colour:                 colour,
	}
}

func railMode(modeID string) TransportMode {
	return TransportMode{
		ModeID:                 modeID,
		Type:                   TransportTypeTrains,
		Icon:                   iconTrain,
		UseDestinationName:     false,
		URLTemplate:            TfLAltArrivalsURL,
		ExpectedDepartureField: "scheduledTimeOfDeparture",
		ExpectedArrivalField:   "scheduledTimeOfArrival",
		PlatformField:          "platformName",
		Colour:                 defaultColour,
	}
}

var transportModes = map[string]TransportMode{
	"tube":           metroMode("tube", iconTrain, defaultColour),
	"dlr":            metroMode("dlr", iconTrain, Colour{R: 0, G: 175, B: 173}),
	"overground":     metroMode("overground", iconTrain, Colour{R: 250, G: 123, B: 5}),
	"elizabeth-line": metroMode("elizabeth-line", iconTrain, Colour{R: 96, G: 57, B: 158}),
	"cable-car":      metroMode("cable-car", iconTrain, Colour{R: 115, G: 79, B: 160}),
	"river-tour":     metroMode("river-tour", iconTrain, Colour{R: 3, G: 155, B: 229}),
	"tram":           metroMode("tram", iconTram, Colour{R: 95, G: 181, B: 38}),
	ModeBus: {
		ModeID:                 ModeBus,
		Type:                   TransportTypeBuses,
		Icon:                   iconBus,
		UseDestinationName:     true,
		URLTemplate:            TfLBusArrivalsURL,
		ExpectedDepartureField: "expectedArrival",
		ExpectedArrivalField:   "expectedArrival",
		PlatformField:          "lineName",
		Colour:                 Colour{R: 220, G: 36, B: 31},
	},
	ModeNationalRail: railMode(ModeNationalRail),
	ModeThameslink:   railMode(ModeThameslink),
	ModeDefault:      metroMode(ModeDefault, iconTrain, defaultColour),
}

// ResolveTransportMode never fails, unknown or empty modes get the default profile
func ResolveTransportMode(modeID string, line string) TransportMode {
	if line == LineThameslink {
		return transportModes[ModeThameslink]
	}

	if mode, exists := transportModes[modeID]; exists {
		return mode
	}

	return transportModes[ModeDefault]
}

// ModeIcon is the sensor icon for a configured method
func ModeIcon(method string) string {
	switch method {
	case ModeBus:
		return iconBus
	case "tram":
		return iconTram
	default:
		return iconTrain
	}
}

var lineImages = map[string]string{
	"default":           "https://tfl.gov.uk/tfl/common/images/logos/London%20Underground/Roundel/LULRoundel.jpg",
	"dlr":               "https://tfl.gov.uk/tfl/common/images/logos/Docklands%20Light%20Railway/Roundel/DLRRoundel.jpg",
	"london-overground": "https://tfl.gov.uk/tfl/common/images/logos/London%20Overground/Roundel/OvergroundRoundel.jpg",
	"tram":              "https://tfl.gov.uk/tfl/common/images/logos/London%20Tramlink/Roundel/TramlinkRoundel.jpg",
	"tfl-rail":          "https://tfl.gov.uk/tfl/common/images/logos/TfL%20Rail/Roundel/TfLRailRoundel.jpg",
}

func LineImage(line string) string {
	if image, exists := lineImages[line]; exists {
		return image
	}

	return lineImages["default"]
}

var shortenedStationSuffixes = []string{"Underground Station", "DLR Station", "Rail Station"}

// ShortenName drops the station type suffixes TfL appends to stop names
func ShortenName(name string) string {
	for _, suffix := range shortenedStationSuffixes {
		name = strings.TrimSpace(strings.ReplaceAll(name, suffix, ""))
	}

	return name
}
