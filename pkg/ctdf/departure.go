package ctdf

import (
	"time"
)

// Departure is the normalised record published for every departure at a stop
type Departure struct {
	Destination string `groups:"basic,detailed" json:"destination"`
	Platform    string `groups:"basic,detailed" json:"platform"`
	Line        string `groups:"detailed" json:"line"`

	Expected  time.Time `groups:"basic,detailed" json:"expected"`
	Departure time.Time `groups:"detailed" json:"departure"`

	TimeToStation     time.Duration `groups:"detailed" json:"-"`
	TimeToStationText string        `groups:"basic,detailed" json:"time_to_station"`
	Minutes           string        `groups:"detailed" json:"time"`

	Type         TransportType `groups:"basic,detailed" json:"type"`
	Icon         string        `groups:"basic,detailed" json:"icon"`
	GroupOfLines string        `groups:"detailed" json:"group_of_lines"`
}
