package scene

import (
	"fmt"
	"sort"
	"strings"

	"tour-engine/internal/tour/assets"
	"tour-engine/internal/tour/catalog"
	"tour-engine/internal/tour/models"
)

// ============================================================
// Scene Builder
// ============================================================

// Дефолтная ориентация камеры при входе в комнату: разворот на 180°,
// минимальный zoom — максимально широкий угол, чтобы не дезориентировать.
const (
	defaultYaw   = 180.0
	defaultPitch = 0.0
	defaultZoom  = 5
)

// InvalidSceneError — сцена не прошла валидацию путей; такую сцену
// нельзя отдавать viewer'у.
type InvalidSceneError struct {
	Key   string
	Paths []string
}

func (e *InvalidSceneError) Error() string {
	return fmt.Sprintf("scene %s: %d invalid asset path(s)", e.Key, len(e.Paths))
}

type Builder struct {
	catalog  *catalog.Catalog
	resolver *assets.Resolver
}

func New(cat *catalog.Catalog, res *assets.Resolver) *Builder {
	return &Builder{catalog: cat, resolver: res}
}

// Catalog exposes the shared configuration for callers that list houses.
func (b *Builder) Catalog() *catalog.Catalog {
	return b.catalog
}

// Build собирает сцену комнаты. Детерминированный: одинаковые входы и
// конфигурация дают структурно одинаковый результат.
func (b *Builder) Build(houseID, roomID string, color models.ColorVariant) (*models.Scene, error) {
	cfg := b.catalog.TourConfig(houseID, color)

	room := catalog.NormalizeRoomID(roomID)
	if !containsRoom(cfg.Rooms, room) {
		// Несуществующая цель — детерминированный fallback в первую комнату
		room = cfg.Rooms[0]
	}

	collection := b.catalog.Collection(houseID)
	panorama := b.resolver.Cubemap(collection, houseID, room, color)
	thumbnail := b.thumbnail(collection, houseID, room, color, cfg)

	// Валидация: все шесть тайлов + thumbnail без пустых и мусорных путей
	key := SceneKey(houseID, room, color)
	var bad []string
	for _, url := range panorama.URLs() {
		if !assets.ValidPath(url) {
			bad = append(bad, url)
		}
	}
	if !assets.ValidPath(thumbnail) {
		bad = append(bad, thumbnail)
	}
	if len(bad) > 0 {
		return nil, &InvalidSceneError{Key: key, Paths: bad}
	}

	yaw, pitch, zoom := initialView(room, cfg)

	return &models.Scene{
		Key:       key,
		Title:     sceneTitle(houseID, room, color),
		HouseID:   houseID,
		Room:      room,
		Color:     color,
		Panorama:  panorama,
		Thumbnail: thumbnail,
		Yaw:       yaw,
		Pitch:     pitch,
		Zoom:      zoom,
		Links:     BuildLinks(room, cfg),
	}, nil
}

// thumbnail с цепочкой fallback: thumbnail -> preview/hero -> общий placeholder.
func (b *Builder) thumbnail(collection, houseID, room string, color models.ColorVariant, cfg catalog.TourConfig) string {
	flags, known := cfg.AvailableFiles[room]

	if !known || flags.Thumbnail {
		if path := b.resolver.ThumbnailPath(collection, houseID, room, color); assets.ValidPath(path) {
			return path
		}
	}
	if !known || flags.Preview {
		if path := b.resolver.PreviewPath(collection, houseID, room, color); assets.ValidPath(path) {
			return path
		}
	}
	return assets.PlaceholderThumbnail
}

// ============================================================
// Navigation links
// ============================================================

// BuildLinks вычисляет исходящие связи комнаты. Либо явные позиции маркеров
// из конфигурации (только перечисленные там цели), либо равномерное
// распределение остальных комнат по 360° yaw. Режимы не смешиваются.
func BuildLinks(room string, cfg catalog.TourConfig) []models.NavigationLink {
	if overrides, ok := cfg.MarkerPositions[room]; ok {
		targets := make([]string, 0, len(overrides))
		for target := range overrides {
			if target != room {
				targets = append(targets, target)
			}
		}
		sort.Strings(targets)

		links := make([]models.NavigationLink, 0, len(targets))
		for _, target := range targets {
			pos := overrides[target]
			links = append(links, models.NavigationLink{
				To:    target,
				Yaw:   pos.Yaw,
				Pitch: pos.Pitch,
				Label: catalog.RoomLabel(target),
			})
		}
		return links
	}

	// Равномерное распределение в порядке конфигурации, текущая комната
	// пропускается. Для пары комнат единственный маркер встаёт на 180°.
	others := 0
	for _, target := range cfg.Rooms {
		if target != room {
			others++
		}
	}
	if others == 0 {
		return nil
	}

	step := 360.0 / float64(others)
	if len(cfg.Rooms) == 2 {
		step = 180.0
	}

	links := make([]models.NavigationLink, 0, others)
	for _, target := range cfg.Rooms {
		if target == room {
			continue
		}
		yaw := step * float64(len(links))
		if len(cfg.Rooms) == 2 {
			yaw = 180.0
		}
		links = append(links, models.NavigationLink{
			To:    target,
			Yaw:   yaw,
			Pitch: 0,
			Label: catalog.RoomLabel(target),
		})
	}
	return links
}

// ============================================================
// Helpers
// ============================================================

// SceneKey — стабильный ключ сцены: house_room[_color].
func SceneKey(houseID, room string, color models.ColorVariant) string {
	if color != models.ColorNone {
		return fmt.Sprintf("%s_%s_%s", houseID, room, color)
	}
	return fmt.Sprintf("%s_%s", houseID, room)
}

func sceneTitle(houseID, room string, color models.ColorVariant) string {
	title := fmt.Sprintf("%s - %s", capitalize(assets.StripNeoPrefix(houseID)), catalog.RoomLabel(room))
	if color != models.ColorNone {
		title += fmt.Sprintf(" (%s)", color)
	}
	return title
}

func initialView(room string, cfg catalog.TourConfig) (yaw, pitch float64, zoom int) {
	if view, ok := cfg.InitialViews[room]; ok {
		zoom = view.Zoom
		if zoom == 0 {
			zoom = defaultZoom
		}
		return view.Yaw, view.Pitch, zoom
	}
	return defaultYaw, defaultPitch, defaultZoom
}

func containsRoom(rooms []string, room string) bool {
	for _, r := range rooms {
		if r == room {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
