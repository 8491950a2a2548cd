package departures

import (
	"time"

	"github.com/jinzhu/copier"
	"github.com/morosanmihail/HA-LondonTfL/pkg/ctdf"
)

// Snapshot is a point in time copy of everything a sensor publishes.
// It shares no memory with the sensor so it can be read while the next cycle runs.
type Snapshot struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	State string `json:"state"`

	Attributes Attributes       `json:"attributes"`
	Departures []ctdf.Departure `json:"-"`

	TakenAt time.Time `json:"taken_at"`
}

func (s *Sensor) Snapshot() (Snapshot, error) {
	snapshot := Snapshot{
		ID:      s.UniqueID(),
		Name:    s.Name(),
		Icon:    s.Icon(),
		State:   s.State(),
		TakenAt: time.Now(),
	}

	attributes := s.Attributes()
	if err := copier.CopyWithOption(&snapshot.Attributes, attributes, copier.Option{DeepCopy: true}); err != nil {
		return Snapshot{}, err
	}

	if err := copier.CopyWithOption(&snapshot.Departures, s.Departures(), copier.Option{DeepCopy: true}); err != nil {
		return Snapshot{}, err
	}

	return snapshot, nil
}
