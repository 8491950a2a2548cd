package departures

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "departures",
		Usage: "Look up departures for a single stop",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "run one refresh cycle for a stop and print what the sensor would publish",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "method",
						Usage: "tube, dlr, overground, cable-car, tram, river-tour, elizabeth-line, national-rail or bus",
						Value: "tube",
					},
					&cli.StringFlag{
						Name:     "line",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "station",
						Usage:    "TfL stop point id, e.g. 940GZZLUSTD",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "platform",
						Usage: "only keep departures whose platform contains this",
					},
					&cli.IntFlag{
						Name:  "max",
						Value: DefaultMax,
					},
					&cli.StringFlag{
						Name:    "nr-api-key",
						Usage:   "National Rail LDBWS access token",
						EnvVars: []string{"LONDONTFL_NR_API_KEY"},
					},
					&cli.BoolFlag{
						Name: "detail",
					},
				},
				Action: func(c *cli.Context) error {
					environment, err := EnvironmentFromVariables()
					if err != nil {
						return err
					}

					sensor := environment.NewSensor(StopConfig{
						Method:             c.String("method"),
						Line:               c.String("line"),
						Station:            c.String("station"),
						Platform:           c.String("platform"),
						Max:                c.Int("max"),
						NationalRailAPIKey: c.String("nr-api-key"),
					})

					// Failures are already the sensor state so carry on printing it
					sensor.Update(c.Context)

					fmt.Printf("%s: %s\n", sensor.Name(), sensor.State())

					if c.Bool("detail") {
						pretty.Println(sensor.Attributes())
					} else {
						pretty.Println(sensor.Departures())
					}

					return nil
				},
			},
		},
	}
}
