package assets

import (
	"fmt"
	"strings"

	"tour-engine/internal/tour/models"
)

// ============================================================
// Asset Path Resolver
// ============================================================

// Collection names used in asset directories.
const (
	CollectionSkyline = "skyline"
	CollectionNeo     = "neo"
	CollectionPremium = "premium"
)

// PlaceholderThumbnail — общий запасной thumbnail на весь каталог.
const PlaceholderThumbnail = "/assets/placeholder-360.jpg"

const (
	extJPEG = ".jpg"
	extWebP = ".webp"
)

// NeoPrefix маркирует id домов Neo коллекции в каталоге ("neo-redwood").
// В путях к файлам префикс не участвует.
const NeoPrefix = "neo-"

// houseDirectories — исключения регистра: часть домов лежит на диске
// не так, как записана в каталоге.
var houseDirectories = map[string]string{
	"walnut": "Walnut",
	"oak":    "Oak",
}

// tileFiles maps a cubemap face to its file stem on disk.
var tileFiles = map[models.TileDirection]string{
	models.TileFront: "f",
	models.TileBack:  "b",
	models.TileLeft:  "l",
	models.TileRight: "r",
	models.TileUp:    "u",
	models.TileDown:  "d",
}

// Resolver builds asset URLs. The WebP capability is detected once at session
// start and injected here; the resolver itself never touches the network.
type Resolver struct {
	baseURL string
	webp    bool
}

func New(baseURL string, webpSupported bool) *Resolver {
	return &Resolver{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		webp:    webpSupported,
	}
}

// WebPSupported reports the capability flag the resolver was built with.
func (r *Resolver) WebPSupported() bool {
	return r.webp
}

// HouseDir приводит id дома к имени директории: neo- префикс убирается,
// затем таблица исключений, для Neo первая буква заглавная.
func HouseDir(collection, houseID string) string {
	id := StripNeoPrefix(houseID)

	if dir, ok := houseDirectories[strings.ToLower(id)]; ok {
		return dir
	}
	if collection == CollectionNeo {
		return capitalize(id)
	}
	return id
}

// StripNeoPrefix убирает "neo-" для путей, сохраняя исходный id для каталога.
func StripNeoPrefix(houseID string) string {
	return strings.TrimPrefix(houseID, NeoPrefix)
}

// TilePath возвращает URL одного тайла кубмапа:
// /assets/{collection}/{house}/360[/{color}]/{room}/{f|b|l|r|u|d}.{ext}
func (r *Resolver) TilePath(collection, houseID, room string, color models.ColorVariant, dir models.TileDirection) string {
	stem, ok := tileFiles[dir]
	if !ok || houseID == "" || room == "" {
		return ""
	}
	return r.roomDir(collection, houseID, room, color) + "/" + stem + r.tileExt(collection)
}

// Cubemap резолвит все шесть тайлов комнаты за один вызов.
func (r *Resolver) Cubemap(collection, houseID, room string, color models.ColorVariant) models.Cubemap {
	return models.Cubemap{
		Front: r.TilePath(collection, houseID, room, color, models.TileFront),
		Back:  r.TilePath(collection, houseID, room, color, models.TileBack),
		Left:  r.TilePath(collection, houseID, room, color, models.TileLeft),
		Right: r.TilePath(collection, houseID, room, color, models.TileRight),
		Up:    r.TilePath(collection, houseID, room, color, models.TileUp),
		Down:  r.TilePath(collection, houseID, room, color, models.TileDown),
	}
}

// ThumbnailPath — thumbnail комнаты. Всегда jpg: это placeholder загрузки,
// формат не согласуется.
func (r *Resolver) ThumbnailPath(collection, houseID, room string, color models.ColorVariant) string {
	if houseID == "" || room == "" {
		return ""
	}
	return r.roomDir(collection, houseID, room, color) + "/thumbnail" + extJPEG
}

// PreviewPath — hero/preview комнаты, запасной вариант для thumbnail.
func (r *Resolver) PreviewPath(collection, houseID, room string, color models.ColorVariant) string {
	if houseID == "" || room == "" {
		return ""
	}
	name := "preview"
	if collection == CollectionPremium {
		name = "hero"
	}
	return r.roomDir(collection, houseID, room, color) + "/" + name + extJPEG
}

// HeroPath — hero дома (снаружи тура, для каталога).
func (r *Resolver) HeroPath(collection, houseID string) string {
	if houseID == "" {
		return ""
	}
	return fmt.Sprintf("%s/assets/%s/%s/hero%s", r.baseURL, collection, HouseDir(collection, houseID), extJPEG)
}

func (r *Resolver) roomDir(collection, houseID, room string, color models.ColorVariant) string {
	parts := []string{r.baseURL, "assets", collection, HouseDir(collection, houseID), "360"}
	if color != models.ColorNone {
		parts = append(parts, string(color))
	}
	parts = append(parts, room)
	return strings.Join(parts, "/")
}

// tileExt согласует формат тайлов: WebP только при поддержке браузером,
// Premium дома всегда jpg (webp версий у них нет).
func (r *Resolver) tileExt(collection string) string {
	if r.webp && collection != CollectionPremium {
		return extWebP
	}
	return extJPEG
}

// ============================================================
// Validation
// ============================================================

// placeholderTokens — мусорные значения, попадающие в пути из битой конфигурации.
var placeholderTokens = []string{"undefined", "null"}

// ValidPath reports whether a resolved path can be handed to the viewer.
func ValidPath(path string) bool {
	if path == "" {
		return false
	}
	for _, token := range placeholderTokens {
		if strings.Contains(path, token) {
			return false
		}
	}
	return true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
