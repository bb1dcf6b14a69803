package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe опрашивает tour и cache сервисы.
func ReadinessProbe(tourURL, cacheURL string) fiber.Handler {
	client := &http.Client{Timeout: 2 * time.Second}

	return func(c fiber.Ctx) error {
		status := fiber.Map{
			"tour":  probe(client, tourURL+"/health/live"),
			"cache": probe(client, cacheURL+"/health/live"),
		}
		return c.JSON(fiber.Map{
			"status":    "ready",
			"upstreams": status,
		})
	}
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}

func probe(client *http.Client, url string) string {
	resp, err := client.Get(url)
	if err != nil {
		return "down"
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "down"
	}
	return "up"
}
