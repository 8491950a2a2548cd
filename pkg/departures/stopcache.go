package departures

import (
	"strings"
	"time"

	"github.com/morosanmihail/HA-LondonTfL/pkg/ctdf"
	"github.com/morosanmihail/HA-LondonTfL/pkg/util"
	"golang.org/x/exp/slices"
)

const StateNone = "None"

// StopCache holds the latest departures fetched for one stop.
// It is not safe for concurrent use, the owning sensor serialises access.
type StopCache struct {
	Mode ctdf.TransportMode
	Now  func() time.Time

	rawBatch []ctdf.RawDeparture
	window   []ctdf.RawDeparture

	lastUpdate  time.Time
	stationName string
}

func NewStopCache(mode ctdf.TransportMode) *StopCache {
	return &StopCache{
		Mode: mode,
		Now:  time.Now,
	}
}

func (s *StopCache) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}

	return s.Now()
}

// Populate replaces the cached batch. A non empty platformFilter keeps only records
// whose platform contains it, so "1" also keeps platform "21".
func (s *StopCache) Populate(rawBatch []ctdf.RawDeparture, platformFilter string) {
	s.rawBatch = slices.Clone(rawBatch)

	if platformFilter != "" {
		util.InPlaceFilter(&s.rawBatch, func(record ctdf.RawDeparture) bool {
			return strings.Contains(ResolvePlatform(record, s.Mode), platformFilter)
		})
	}

	s.lastUpdate = s.now()
}

// IsStale drops every record that is no longer in the future and reports whether
// fewer than maxItems remain
func (s *StopCache) IsStale(maxItems int) bool {
	if len(s.rawBatch) == 0 {
		return true
	}

	now := s.now()
	util.InPlaceFilter(&s.rawBatch, func(record ctdf.RawDeparture) bool {
		expected, ok := record.Time(s.Mode.ExpectedArrivalField)

		return ok && expected.After(now)
	})

	return len(s.rawBatch) < maxItems
}

// SortAndTrim orders the batch by expected arrival and keeps the first maxItems as the current window.
// Records without a readable arrival time sort last.
func (s *StopCache) SortAndTrim(maxItems int) {
	sorted := slices.Clone(s.rawBatch)

	slices.SortStableFunc(sorted, func(a, b ctdf.RawDeparture) int {
		aTime, aOK := a.Time(s.Mode.ExpectedArrivalField)
		bTime, bOK := b.Time(s.Mode.ExpectedArrivalField)

		switch {
		case aOK && !bOK:
			return -1
		case !aOK && bOK:
			return 1
		case !aOK && !bOK:
			return 0
		}

		return aTime.Compare(bTime)
	})

	if maxItems < 0 {
		maxItems = 0
	}
	if len(sorted) > maxItems {
		sorted = sorted[:maxItems]
	}

	s.window = sorted
}

func (s *StopCache) GetState() string {
	if len(s.window) == 0 {
		return StateNone
	}

	expected, ok := s.window[0].Time(s.Mode.ExpectedArrivalField)
	if !ok {
		return StateNone
	}

	return expected.In(util.LondonLocation()).Format("15:04")
}

func (s *StopCache) IsEmpty() bool {
	return len(s.window) == 0
}

// GetDepartures normalises the current window and remembers the first station name it sees
func (s *StopCache) GetDepartures() []ctdf.Departure {
	now := s.now()
	departures := make([]ctdf.Departure, 0, len(s.window))

	for _, record := range s.window {
		departures = append(departures, Normalise(record, s.Mode, now))

		if s.stationName == "" {
			s.stationName = record.String("stationName")
		}
	}

	return departures
}

func (s *StopCache) GetStationName() string {
	return s.stationName
}

// GetLastUpdate is the zero time until the first successful populate
func (s *StopCache) GetLastUpdate() time.Time {
	return s.lastUpdate
}

func (s *StopCache) GetLineColours() ctdf.Colour {
	return s.Mode.Colour
}
