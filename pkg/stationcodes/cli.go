package stationcodes

import (
	"fmt"

	"github.com/morosanmihail/HA-LondonTfL/pkg/util"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "stationcodes",
		Usage: "Convert between ATCO, TIPLOC and CRS station codes",
		Subcommands: []*cli.Command{
			{
				Name:  "resolve",
				Usage: "resolve the CRS code for a TfL ATCO code",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "atco",
						Usage:    "ATCO code, e.g. 910GSUTTON",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "dataset",
						Usage: "CORPUS JSON or railway codes CSV, path or URL",
						Value: util.GetEnvironmentVariable("LONDONTFL_STATION_CODES_DATASET", ""),
					},
				},
				Action: func(c *cli.Context) error {
					tiploc, err := AtcoToTiploc(c.String("atco"))
					if err != nil {
						return err
					}

					crs, err := NewResolver(c.String("dataset")).TiplocToCrs(c.Context, tiploc)
					if err != nil {
						return err
					}

					fmt.Printf("ATCO %s\nTIPLOC %s\nCRS %s\n", c.String("atco"), tiploc, crs)

					return nil
				},
			},
		},
	}
}
