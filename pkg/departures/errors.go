package departures

import (
	"errors"
)

// The error text doubles as the sensor state shown to the user
var (
	ErrNetworkUnreachable      = errors.New("Cannot reach TfL")
	ErrUnparsableResponse      = errors.New("Cannot interpret JSON from TfL")
	ErrConfigurationIncomplete = errors.New("Please reconfigure this stop with a National Rail API key")
	ErrStationCode             = errors.New("Cannot fetch station code")
	ErrLDBWS                   = errors.New("LDBWS API error")
	ErrConfigurationVersion    = errors.New("Please recreate this entity to get new behaviour")
)

var stateErrors = []error{
	ErrNetworkUnreachable,
	ErrUnparsableResponse,
	ErrConfigurationIncomplete,
	ErrStationCode,
	ErrLDBWS,
	ErrConfigurationVersion,
}

// StateFromError maps err onto the state string published for the stop
func StateFromError(err error) string {
	for _, stateError := range stateErrors {
		if errors.Is(err, stateError) {
			return stateError.Error()
		}
	}

	return ErrNetworkUnreachable.Error()
}
