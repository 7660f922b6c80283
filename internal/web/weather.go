package web

import (
	"github.com/gofiber/fiber/v2"

	applog "ecal/internal/log"
	"ecal/internal/weather"
)

// getWeather proxies a current-conditions lookup. An upstream failure
// is reported as a gateway error.
func (s *Server) getWeather(c *fiber.Ctx) error {
	q := weather.Query{
		Lat:  queryFloat(c, "lat"),
		Lon:  queryFloat(c, "lon"),
		City: c.Query("city"),
	}

	reading, err := s.weather.Current(c.Context(), q)
	if err != nil {
		applog.Error("weather lookup failed", err, "city", q.City)
		return c.Status(fiber.StatusBadGateway).JSON(errorResponse{Error: "Weather service unavailable"})
	}
	return c.JSON(reading)
}
