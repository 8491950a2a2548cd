package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/morosanmihail/HA-LondonTfL/pkg/api/routes"
)

// NewApp builds the host API over the sensors held by store
func NewApp(store routes.SensorStore) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())

	webApp.Get("version", routes.APIVersion)

	routes.SensorsRouter(webApp.Group("/sensors"), store)

	return webApp
}

func SetupServer(listen string, store routes.SensorStore) error {
	return NewApp(store).Listen(listen)
}
