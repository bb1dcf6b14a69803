package proxy

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Proxy Handler
// ============================================================

// StripPrefix проксирует всё поддерево к upstream'у, срезая префикс группы:
// /api/v1/tour/houses -> {tourURL}/houses. Query string сохраняется.
func StripPrefix(prefix, upstreamURL string) fiber.Handler {
	upstream := strings.TrimSuffix(upstreamURL, "/")
	return func(c fiber.Ctx) error {
		path := strings.TrimPrefix(c.Path(), prefix)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}

		target := upstream + path
		if qs := string(c.Request().URI().QueryString()); qs != "" {
			target += "?" + qs
		}
		return forwardRequest(c, target)
	}
}

// forwardRequest проксирует любой метод с raw телом.
func forwardRequest(c fiber.Ctx, targetURL string) error {
	log.Printf("[PROXY] Request: %s %s", c.Method(), c.Path())
	log.Printf("[PROXY] Forwarding to: %s", targetURL)

	body := bytes.NewReader(c.Body())
	req, err := http.NewRequest(c.Method(), targetURL, body)
	if err != nil {
		log.Printf("[PROXY] build request error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "proxy failed"})
	}

	if contentType := c.Get("Content-Type"); contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("[PROXY] Error: %v", err)
		return c.Status(502).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return copyResponse(c, resp)
}

func copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[PROXY] Read response error: %v", err)
		return c.Status(502).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if len(values) > 0 {
			c.Set(key, values[0])
		}
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}
