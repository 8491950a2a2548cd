package departures

import (
	"github.com/morosanmihail/HA-LondonTfL/pkg/nationalrail"
	"github.com/morosanmihail/HA-LondonTfL/pkg/redis_client"
	"github.com/morosanmihail/HA-LondonTfL/pkg/stationcodes"
	"github.com/morosanmihail/HA-LondonTfL/pkg/tfl"
	"github.com/morosanmihail/HA-LondonTfL/pkg/util"
	"github.com/rs/zerolog/log"
)

// Environment holds the upstream clients every stop in the process shares
type Environment struct {
	TfL           *tfl.Client
	StationCodes  StationCodeResolver
	LDBWSEndpoint string
}

// EnvironmentFromVariables builds the shared clients from LONDONTFL_* variables.
// Redis is connected when configured and fronts the station code lookups.
func EnvironmentFromVariables() (*Environment, error) {
	env := util.GetEnvironmentVariables()

	if err := redis_client.Connect(); err != nil {
		return nil, err
	}

	var stationCodes StationCodeResolver = stationcodes.Setup(env["LONDONTFL_STATION_CODES_DATASET"])
	if redis_client.Client != nil {
		stationCodes = stationcodes.NewCachedResolver(stationcodes.Global(), redis_client.Client)
	}

	ldbwsEndpoint := env["LONDONTFL_LDBWS_ENDPOINT"]
	if ldbwsEndpoint == "" {
		ldbwsEndpoint = nationalrail.DefaultEndpoint
	}

	tflClient := tfl.NewClient(env["LONDONTFL_TFL_BASE_URL"], env["LONDONTFL_TFL_API_KEY"])

	log.Debug().
		Str("tfl", tflClient.BaseURL).
		Str("ldbws", ldbwsEndpoint).
		Msg("Upstream clients configured")

	return &Environment{
		TfL:           tflClient,
		StationCodes:  stationCodes,
		LDBWSEndpoint: ldbwsEndpoint,
	}, nil
}

func (e *Environment) NewSensor(config StopConfig) *Sensor {
	config = config.WithDefaults()

	return NewSensor(config, NewFetcher(config, e.TfL, e.StationCodes, e.LDBWSEndpoint))
}
