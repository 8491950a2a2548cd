package tfl

type Line struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ModeName string `json:"modeName"`

	Created  string `json:"created"`
	Modified string `json:"modified"`
}

type StopPoint struct {
	NaptanID      string   `json:"naptanId"`
	StationNaptan string   `json:"stationNaptan"`
	CommonName    string   `json:"commonName"`
	Modes         []string `json:"modes"`
}

// StationID is the identifier arrivals are requested with, falling back to the stop's own id when it is not part of a station
func (s StopPoint) StationID() string {
	if s.StationNaptan != "" {
		return s.StationNaptan
	}

	return s.NaptanID
}
