package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"tour-engine/internal/tour/assets"
	"tour-engine/internal/tour/catalog"
	"tour-engine/internal/tour/markers"
	"tour-engine/internal/tour/models"
	"tour-engine/internal/tour/scene"
	"tour-engine/internal/tour/session"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Tour Handler
// ============================================================

type TourHandler struct {
	catalog  *catalog.Catalog
	builder  *scene.Builder
	resolver *assets.Resolver
	sessions *session.Manager
}

func NewTourHandler(cat *catalog.Catalog, builder *scene.Builder, resolver *assets.Resolver, sessions *session.Manager) *TourHandler {
	return &TourHandler{
		catalog:  cat,
		builder:  builder,
		resolver: resolver,
		sessions: sessions,
	}
}

// ============================================================
// Catalog endpoints
// ============================================================

// ListHouses возвращает каталог домов с превью тура.
func (h *TourHandler) ListHouses(c fiber.Ctx) error {
	ids := h.catalog.Houses()

	out := make([]models.HouseSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, h.summary(id))
	}
	return c.JSON(fiber.Map{"houses": out})
}

// GetTour отдаёт конфигурацию тура дома: комнаты и позиции маркеров.
func (h *TourHandler) GetTour(c fiber.Ctx) error {
	houseID := c.Params("id")
	color, err := parseColor(c.Query("color"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if _, ok := h.catalog.House(houseID); !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "house not found"})
	}

	cfg := h.catalog.TourConfig(houseID, color)
	return c.JSON(fiber.Map{
		"house_id":         houseID,
		"color":            color,
		"rooms":            cfg.Rooms,
		"marker_positions": cfg.MarkerPositions,
		"legacy":           cfg.Legacy,
		"fallback":         cfg.Fallback,
	})
}

// GetScene строит сцену комнаты без сессии (для прямых ссылок).
func (h *TourHandler) GetScene(c fiber.Ctx) error {
	houseID := c.Params("id")
	room := c.Params("room")
	color, err := parseColor(c.Query("color"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sc, err := h.builder.Build(houseID, room, color)
	if err != nil {
		var invalid *scene.InvalidSceneError
		if errors.As(err, &invalid) {
			log.Printf("[TOUR] invalid scene %s: %v", invalid.Key, invalid.Paths)
			return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"scene":   sc,
		"markers": markers.Build(sc.Links),
	})
}

// ============================================================
// Session endpoints
// ============================================================

type createSessionRequest struct {
	HouseID string `json:"house_id"`
	Color   string `json:"color"`
}

type enterRequest struct {
	Room string `json:"room"`
}

type markerRequest struct {
	To string `json:"to"`
}

type readyRequest struct {
	Epoch int `json:"epoch"`
}

// CreateSession монтирует тур и входит в первую комнату дома.
func (h *TourHandler) CreateSession(c fiber.Ctx) error {
	var req createSessionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.HouseID == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "house_id required"})
	}
	color, err := parseColor(req.Color)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s, sc, err := h.sessions.Create(context.Background(), req.HouseID, color)
	if err != nil {
		log.Printf("[TOUR] create session for %q: %v", req.HouseID, err)
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("[TOUR] session %s mounted on %s", s.Token(), sc.Key)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"token":   s.Token(),
		"epoch":   s.Epoch(),
		"scene":   sc,
		"markers": markers.Build(sc.Links),
	})
}

// GetSession возвращает снимок состояния сессии.
func (h *TourHandler) GetSession(c fiber.Ctx) error {
	s, ok := h.sessions.Resolve(c.Params("token"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	return c.JSON(s.Snapshot())
}

// EnterRoom переводит сессию в другую комнату.
func (h *TourHandler) EnterRoom(c fiber.Ctx) error {
	s, ok := h.sessions.Resolve(c.Params("token"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	var req enterRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.Room == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "room required"})
	}

	sc, err := s.EnterRoom(context.Background(), req.Room)
	if err != nil {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"epoch":   s.Epoch(),
		"scene":   sc,
		"markers": markers.Build(sc.Links),
	})
}

// SelectMarker обрабатывает клик по маркеру навигации.
func (h *TourHandler) SelectMarker(c fiber.Ctx) error {
	s, ok := h.sessions.Resolve(c.Params("token"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	var req markerRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.To == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "to required"})
	}

	sc, err := s.MarkerSelected(context.Background(), req.To)
	if err != nil {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"epoch":   s.Epoch(),
		"scene":   sc,
		"markers": markers.Build(sc.Links),
	})
}

// ViewerReady — подтверждение готовности от клиентского viewer'а.
// Устаревшая эпоха не ошибка: комната успела смениться, сигнал просто гасится.
func (h *TourHandler) ViewerReady(c fiber.Ctx) error {
	s, ok := h.sessions.Resolve(c.Params("token"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	var req readyRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	accepted := s.ViewerReady(req.Epoch)
	return c.JSON(fiber.Map{
		"accepted": accepted,
		"state":    s.Snapshot().State,
	})
}

// UpdatePosition запоминает ориентацию камеры клиента.
func (h *TourHandler) UpdatePosition(c fiber.Ctx) error {
	s, ok := h.sessions.Resolve(c.Params("token"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	var pos models.Position
	if err := json.Unmarshal(c.Body(), &pos); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	s.UpdatePosition(pos)
	return c.JSON(fiber.Map{"status": "ok"})
}

// DestroySession размонтирует тур.
func (h *TourHandler) DestroySession(c fiber.Ctx) error {
	token := c.Params("token")
	if !h.sessions.Destroy(token) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	log.Printf("[TOUR] session %s destroyed", token)
	return c.JSON(fiber.Map{"status": "destroyed"})
}

// ============================================================
// Helpers
// ============================================================

func (h *TourHandler) summary(houseID string) models.HouseSummary {
	house, _ := h.catalog.House(houseID)
	colors := h.catalog.Colors(houseID)

	firstColor := models.ColorNone
	if len(colors) > 0 {
		firstColor = colors[0]
	}
	cfg := h.catalog.TourConfig(houseID, firstColor)
	collection := h.catalog.Collection(houseID)

	thumb := h.resolver.ThumbnailPath(collection, houseID, cfg.Rooms[0], firstColor)
	if !assets.ValidPath(thumb) {
		thumb = assets.PlaceholderThumbnail
	}

	name := house.Name
	if name == "" {
		name = assets.StripNeoPrefix(houseID)
	}

	return models.HouseSummary{
		ID:         houseID,
		Name:       name,
		Collection: collection,
		Rooms:      cfg.Rooms,
		Colors:     colors,
		Thumbnail:  thumb,
		RoomCount:  len(cfg.Rooms),
	}
}

func parseColor(raw string) (models.ColorVariant, error) {
	switch models.ColorVariant(raw) {
	case models.ColorNone, models.ColorWhite, models.ColorDark:
		return models.ColorVariant(raw), nil
	default:
		return models.ColorNone, errors.New("color must be white or dark")
	}
}
