package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"tour-engine/internal/cache/repository"
	"tour-engine/internal/cache/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Cache Handler
// ============================================================

type CacheHandler struct {
	repo    *repository.Repository
	fetcher *service.Fetcher
}

func NewCacheHandler(repo *repository.Repository, fetcher *service.Fetcher) *CacheHandler {
	return &CacheHandler{
		repo:    repo,
		fetcher: fetcher,
	}
}

type preloadRequest struct {
	URLs []string `json:"urls"`
}

// Preload принимает плоский список URL и ставит их в очередь прогрева.
// Ответ не ждёт скачивания: fire-and-forget.
func (h *CacheHandler) Preload(c fiber.Ctx) error {
	var req preloadRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if len(req.URLs) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "urls required"})
	}

	queued := 0
	for _, url := range req.URLs {
		if url == "" {
			continue
		}
		if h.fetcher.Enqueue(url) {
			queued++
		}
	}

	log.Printf("[CACHE] Preload request: %d urls, %d queued", len(req.URLs), queued)
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"queued": queued,
	})
}

// GetAsset отдаёт закэшированный ассет по исходному URL.
func (h *CacheHandler) GetAsset(c fiber.Ctx) error {
	url := c.Query("url")
	if url == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "url required"})
	}

	entry, err := h.repo.Get(context.Background(), url)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "not cached"})
		}
		log.Printf("[CACHE] get %s: %v", url, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "cache read failed"})
	}

	if entry.ContentType != "" {
		c.Set("Content-Type", entry.ContentType)
	}
	return c.Send(entry.Body)
}

// Stats возвращает количество записей и суммарный объём кэша.
func (h *CacheHandler) Stats(c fiber.Ctx) error {
	stats, err := h.repo.Stats(context.Background())
	if err != nil {
		log.Printf("[CACHE] stats error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "stats failed"})
	}
	return c.JSON(stats)
}
