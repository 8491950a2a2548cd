package ctdf

// TransportType is the display category a departure is published under
type TransportType string

const (
	TransportTypeMetros TransportType = "Metros"
	TransportTypeTrains TransportType = "Trains"
	TransportTypeBuses  TransportType = "Buses"
)

// HASLTransportMode returns the transport mode name used by the HASL departure card
func (t TransportType) HASLTransportMode() string {
	switch t {
	case TransportTypeMetros:
		return "METRO"
	case TransportTypeTrains:
		return "TRAIN"
	default:
		return "BUS"
	}
}
