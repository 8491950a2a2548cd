package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/morosanmihail/HA-LondonTfL/pkg/departures"
)

// SensorStore is where the API reads the latest published sensor snapshots from
type SensorStore interface {
	Snapshots() []departures.Snapshot
	Snapshot(id string) (departures.Snapshot, bool)
}

func SensorsRouter(router fiber.Router, store SensorStore) {
	router.Get("/", listSensors(store))
	router.Get("/:identifier", getSensor(store))
}

func listSensors(store SensorStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(store.Snapshots())
	}
}

func getSensor(store SensorStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.Params("identifier")

		snapshot, exists := store.Snapshot(identifier)
		if !exists {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "Could not find sensor matching identifier",
			})
		}

		groups := []string{"basic"}
		if c.QueryBool("detail") {
			groups = []string{"detailed"}
		}

		departuresReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: groups,
		}, snapshot.Departures)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce departures",
			})
		}

		return c.JSON(fiber.Map{
			"id":         snapshot.ID,
			"name":       snapshot.Name,
			"icon":       snapshot.Icon,
			"state":      snapshot.State,
			"attributes": snapshot.Attributes,
			"departures": departuresReduced,
			"taken_at":   snapshot.TakenAt,
		})
	}
}
