package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"weather-mqtt-bridge/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the status handlers into the Fiber app. The API is
// read-only diagnostics over the last published readings.
func RegisterRoutes(app *fiber.App, readings *store.MemoryStore) {
	v1 := app.Group("/api/v1")

	v1.Get("/readings", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"readings": readings.All(),
		})
	})

	v1.Get("/readings/one", func(c *fiber.Ctx) error {
		var q topicQuery
		q.Topic = c.Query("topic")
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entry, err := readings.Get(q.Topic)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no reading published on requested topic")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch reading")
		}

		return c.JSON(entry)
	})
}

// topicQuery holds the query parameter identifying a published topic,
// relative to the base prefix (e.g. "forecast/3h").
type topicQuery struct {
	Topic string `validate:"required"`
}
