package sensors

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/morosanmihail/HA-LondonTfL/pkg/api"
	"github.com/morosanmihail/HA-LondonTfL/pkg/config"
	"github.com/morosanmihail/HA-LondonTfL/pkg/departures"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "sensors",
		Usage: "Keep departure sensors for the configured stops up to date",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run every configured sensor and serve their state over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Value:   "stops.yaml",
						Usage:   "stops YAML file or a directory of them",
						EnvVars: []string{"LONDONTFL_CONFIG"},
					},
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server, empty to disable it",
					},
				},
				Action: func(c *cli.Context) error {
					stops, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					environment, err := departures.EnvironmentFromVariables()
					if err != nil {
						return err
					}

					manager, err := NewManager(stops, environment.NewSensor)
					if err != nil {
						return err
					}

					ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer cancel()

					if listen := c.String("listen"); listen != "" {
						webApp := api.NewApp(manager)

						go func() {
							if err := webApp.Listen(listen); err != nil {
								log.Error().Err(err).Msg("Web server stopped")
								cancel()
							}
						}()

						defer webApp.Shutdown()
					}

					if err := manager.Run(ctx); err != nil {
						return err
					}

					log.Info().Msg("Sensors stopped")

					return nil
				},
			},
		},
	}
}
