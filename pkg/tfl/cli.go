package tfl

import (
	"fmt"

	"github.com/morosanmihail/HA-LondonTfL/pkg/ctdf"
	"github.com/morosanmihail/HA-LondonTfL/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/slices"
)

func clientFromEnvironment() *Client {
	env := util.GetEnvironmentVariables()

	return NewClient(env["LONDONTFL_TFL_BASE_URL"], env["LONDONTFL_TFL_API_KEY"])
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "tfl",
		Usage: "Browse the TfL lines and stations a stop can be configured with",
		Subcommands: []*cli.Command{
			{
				Name:  "lines",
				Usage: "list the lines for a mode",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "mode",
						Usage:    "transport mode, e.g. tube or bus",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					mode := c.String("mode")
					if !slices.Contains(ctdf.SupportedMethods, mode) {
						log.Warn().Str("mode", mode).Msg("Mode is not one of the supported stop methods")
					}

					lines, err := clientFromEnvironment().Lines(c.Context, mode)
					if err != nil {
						return err
					}

					for _, line := range lines {
						fmt.Printf("%s\t%s\n", line.ID, line.Name)
					}

					return nil
				},
			},
			{
				Name:  "stations",
				Usage: "list the stations on a line",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "line",
						Usage:    "TfL line id, e.g. jubilee",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					stopPoints, err := clientFromEnvironment().StopPoints(c.Context, c.String("line"))
					if err != nil {
						return err
					}

					for _, stopPoint := range stopPoints {
						fmt.Printf("%s\t%s\n", stopPoint.StationID(), stopPoint.CommonName)
					}

					return nil
				},
			},
		},
	}
}
