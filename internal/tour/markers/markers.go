package markers

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"tour-engine/internal/tour/catalog"
	"tour-engine/internal/tour/models"
)

// ============================================================
// Marker Builder
// ============================================================

// iconRules — семантическая иконка по типу комнаты, первое совпадение выигрывает.
var iconRules = []struct {
	substr string
	icon   string
}{
	{"living", "sofa"},
	{"guest", "sofa"},
	{"bedroom", "bed"},
	{"bath", "bath"},
	{"kitchen", "utensils-crossed"},
	{"dining", "utensils"},
	{"office", "monitor"},
	{"garage", "car"},
	{"balcony", "trees"},
	{"outdoor", "trees"},
	{"hall", "door-closed"},
	{"entry", "door-closed"},
	{"laundry", "washing-machine"},
	{"closet", "package"},
	{"wik", "package"},
	{"storage", "package"},
}

// defaultIcon для нераспознанных комнат.
const defaultIcon = "map-pin"

// IconFor подбирает слаг иконки по id комнаты.
func IconFor(room string) string {
	lower := strings.ToLower(room)
	for _, rule := range iconRules {
		if strings.Contains(lower, rule.substr) {
			return rule.icon
		}
	}
	return defaultIcon
}

// Build строит маркеры из связей сцены. Каждый вызов возвращает свежий slice:
// маркеры никогда не переиспользуются между сценами, чтобы во viewer'е не
// зависали устаревшие click-цели.
func Build(links []models.NavigationLink) []models.Marker {
	out := make([]models.Marker, 0, len(links))
	for _, link := range links {
		label := link.Label
		if label == "" {
			label = catalog.RoomLabel(link.To)
		}
		out = append(out, models.Marker{
			ID:    "marker-" + link.To,
			Yaw:   toRad(link.Yaw),
			Pitch: toRad(link.Pitch),
			Icon:  IconFor(link.To),
			Label: label,
			To:    link.To,
		})
	}
	return out
}

// toRad переводит градусы в радианы; значения в пределах 2π считаются
// уже радианами (legacy конфиги хранили позиции и так, и так).
func toRad(deg float64) float64 {
	if math.Abs(deg) <= 2*math.Pi {
		return deg
	}
	return mgl64.DegToRad(deg)
}
