package departures

import (
	"time"

	"github.com/morosanmihail/HA-LondonTfL/pkg/ctdf"
)

type HASLDeviation struct {
	ImportanceLevel int    `json:"importance_level"`
	Consequence     string `json:"consequence"`
	Message         string `json:"message"`
}

type HASLLine struct {
	Designation   string `json:"designation"`
	TransportMode string `json:"transport_mode"`
	GroupOfLines  string `json:"group_of_lines"`
}

// HASLDeparture is one entry in the format the HASL departure card (3.2.0+) reads
type HASLDeparture struct {
	Destination   string          `json:"destination"`
	Deviations    []HASLDeviation `json:"deviations"`
	DirectionCode int             `json:"direction_code"`
	Line          HASLLine        `json:"line"`
	Expected      time.Time       `json:"expected"`
}

func AsHASLDepartures(departures []ctdf.Departure) []HASLDeparture {
	haslDepartures := make([]HASLDeparture, 0, len(departures))

	for _, departure := range departures {
		haslDepartures = append(haslDepartures, HASLDeparture{
			Destination:   departure.Destination,
			Deviations:    nil,
			DirectionCode: 0,
			Line: HASLLine{
				Designation:   departure.Line,
				TransportMode: departure.Type.HASLTransportMode(),
				GroupOfLines:  "",
			},
			Expected: departure.Expected,
		})
	}

	return haslDepartures
}

// MediaCardItem is an entry of the upcoming-media card data array.
// The first entry only carries the *_default templates.
type MediaCardItem struct {
	TitleDefault string `json:"title_default,omitempty"`
	Line1Default string `json:"line1_default,omitempty"`
	Line2Default string `json:"line2_default,omitempty"`
	Line3Default string `json:"line3_default,omitempty"`
	Line4Default string `json:"line4_default,omitempty"`
	Icon         string `json:"icon,omitempty"`

	Title   string     `json:"title,omitempty"`
	Airdate *time.Time `json:"airdate,omitempty"`
	Fanart  string     `json:"fanart,omitempty"`
	Flag    bool       `json:"flag,omitempty"`
	Studio  string     `json:"studio,omitempty"`
}

func AsMediaCardData(departures []ctdf.Departure, line string) []MediaCardItem {
	data := []MediaCardItem{
		{
			TitleDefault: "To $title",
			Line1Default: "at $time",
			Line2Default: "$studio",
			Icon:         "mdi:train",
		},
	}

	fanart := ctdf.LineImage(line)

	for _, departure := range departures {
		expected := departure.Expected

		data = append(data, MediaCardItem{
			Title:   departure.Destination,
			Airdate: &expected,
			Fanart:  fanart,
			Flag:    true,
			Studio:  departure.Platform,
		})
	}

	return data
}
