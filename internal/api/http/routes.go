package httpapi

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-search/internal/session"
	"github.com/i474232898/weather-search/internal/weather"
	"github.com/i474232898/weather-search/internal/weather/providers"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. icons may be nil,
// in which case the icon proxy is not mounted.
func RegisterRoutes(app *fiber.App, sess *session.Session, icons *providers.IconFetcher) {
	v1 := app.Group("/api/v1")

	v1.Post("/search", func(c *fiber.Ctx) error {
		var q weather.WeatherQuery
		if err := c.BodyParser(&q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		// An empty city is allowed through; the provider rejects it.
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		id := sess.Search(q.CityName)
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"requestId": id,
			"status":    weather.StatusLoading,
		})
	})

	v1.Get("/search/state", func(c *fiber.Ctx) error {
		return c.JSON(sess.Poll(c.UserContext()))
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		detail, ok := sess.Detail()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no weather data fetched yet")
		}
		return c.JSON(detail)
	})

	v1.Get("/last-city", func(c *fiber.Ctx) error {
		city, err := sess.LastCity(c.UserContext())
		if err != nil {
			log.Printf("ERROR: failed to read last searched city: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read last searched city")
		}
		return c.JSON(fiber.Map{"city": city})
	})

	if icons != nil {
		v1.Get("/icons/:id", func(c *fiber.Ctx) error {
			icon, err := icons.Fetch(c.UserContext(), c.Params("id"))
			if err != nil {
				if errors.Is(err, providers.ErrInvalidIconID) {
					return fiber.NewError(fiber.StatusBadRequest, err.Error())
				}
				log.Printf("icon fetch failed for %s: %v", c.Params("id"), err)
				return fiber.NewError(fiber.StatusBadGateway, "failed to fetch icon")
			}
			c.Set(fiber.HeaderContentType, icon.ContentType)
			c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
			return c.Send(icon.Data)
		})
	}
}
