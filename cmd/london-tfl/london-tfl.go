package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/morosanmihail/HA-LondonTfL/pkg/departures"
	"github.com/morosanmihail/HA-LondonTfL/pkg/sensors"
	"github.com/morosanmihail/HA-LondonTfL/pkg/stationcodes"
	"github.com/morosanmihail/HA-LondonTfL/pkg/tfl"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	// A missing .env is normal outside of development
	_ = godotenv.Load()

	if os.Getenv("LONDONTFL_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("LONDONTFL_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "london-tfl",
		Description: "Departure sensors for London TfL and National Rail stops",

		Commands: []*cli.Command{
			sensors.RegisterCLI(),
			departures.RegisterCLI(),
			tfl.RegisterCLI(),
			stationcodes.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
