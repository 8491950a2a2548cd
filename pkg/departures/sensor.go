package departures

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/morosanmihail/HA-LondonTfL/pkg/ctdf"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Attributes are published next to the sensor state.
// Everything after StationName is only set while there are departures.
type Attributes struct {
	LastRefresh *time.Time  `json:"last_refresh"`
	LineColours ctdf.Colour `json:"line_colours"`

	StationName string          `json:"station_name,omitempty"`
	Departures  []HASLDeparture `json:"departures,omitempty"`
	Data        []MediaCardItem `json:"data,omitempty"`

	Expected             *time.Time `json:"expected,omitempty"`
	Destination          string     `json:"destination,omitempty"`
	Platform             string     `json:"platform,omitempty"`
	NextDepartureMinutes string     `json:"next_departure_minutes,omitempty"`
	NextDepartureTime    *time.Time `json:"next_departure_time,omitempty"`
}

// Sensor is one configured stop as the host sees it
type Sensor struct {
	Config  StopConfig
	Fetcher *Fetcher
	Cache   *StopCache

	mutex      sync.Mutex
	state      string
	departures []ctdf.Departure
}

func NewSensor(config StopConfig, fetcher *Fetcher) *Sensor {
	return &Sensor{
		Config:  config,
		Fetcher: fetcher,
		Cache:   NewStopCache(fetcher.Mode),
	}
}

// Update runs one refresh cycle. Upstream failures become the state and the
// previously fetched departures are kept until the next successful cycle.
func (s *Sensor) Update(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.Cache.IsStale(s.Config.Max) {
		rawDepartures, err := s.Fetcher.Fetch(ctx)
		if err != nil {
			s.state = StateFromError(err)

			log.Warn().
				Err(err).
				Str("stop", s.UniqueID()).
				Str("line", s.Config.Line).
				Str("station", s.Config.Station).
				Str("mode", s.Fetcher.Mode.ModeID).
				Msg("Failed to refresh departures")

			return err
		}

		s.Cache.Populate(rawDepartures, s.Config.Platform)

		log.Debug().
			Str("stop", s.UniqueID()).
			Int("departures", len(rawDepartures)).
			Msg("Refreshed departures")
	}

	s.Cache.SortAndTrim(s.Config.Max)
	s.state = s.Cache.GetState()
	s.departures = s.Cache.GetDepartures()

	return nil
}

func (s *Sensor) State() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.state
}

func (s *Sensor) UniqueID() string {
	uniqueID := fmt.Sprintf("%s_%s_%s", s.Config.Name, s.Config.Line, s.Config.Station)

	if s.Config.Platform != "" {
		uniqueID += "_" + s.Config.Platform
	}

	return uniqueID
}

func (s *Sensor) Name() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	station := s.Cache.GetStationName()
	destination := ""
	if len(s.departures) > 0 {
		destination = s.departures[0].Destination
	}

	if s.Config.ShortenStationNames {
		station = ctdf.ShortenName(station)
		destination = ctdf.ShortenName(destination)
	}

	switch {
	case station != "" && destination != "":
		return fmt.Sprintf("%s to %s", station, destination)
	case station != "":
		return fmt.Sprintf("%s - Idle", station)
	default:
		return fmt.Sprintf("%s_%s_%s", s.Config.Name, s.Config.Line, s.Config.Station)
	}
}

func (s *Sensor) Icon() string {
	return ctdf.ModeIcon(s.Config.Method)
}

// Departures returns a copy of the departures from the last cycle
func (s *Sensor) Departures() []ctdf.Departure {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return slices.Clone(s.departures)
}

func (s *Sensor) Attributes() Attributes {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	attributes := Attributes{
		LineColours: s.Cache.GetLineColours(),
	}

	if lastUpdate := s.Cache.GetLastUpdate(); !lastUpdate.IsZero() {
		attributes.LastRefresh = &lastUpdate
	}

	if len(s.departures) == 0 {
		return attributes
	}

	attributes.StationName = s.Cache.GetStationName()
	attributes.Departures = AsHASLDepartures(s.departures)
	attributes.Data = AsMediaCardData(s.departures, s.Config.Line)

	next := s.departures[0]
	expected := next.Expected

	attributes.Expected = &expected
	attributes.Destination = next.Destination
	attributes.Platform = next.Platform
	attributes.NextDepartureMinutes = next.Minutes
	attributes.NextDepartureTime = &expected

	return attributes
}
