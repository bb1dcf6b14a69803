package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"

	"tour-engine/internal/tour/assets"
	"tour-engine/internal/tour/models"
)

// ============================================================
// Tour Configuration Loader
// ============================================================

// MarkerPosition — явная позиция маркера (градусы).
type MarkerPosition struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// FileFlags отмечает, какие ассеты реально есть у комнаты.
type FileFlags struct {
	Thumbnail bool `json:"thumbnail"`
	Preview   bool `json:"preview"`
}

// TourBlock — конфигурация тура одного дома (или одной цветовой схемы).
type TourBlock struct {
	Rooms           []string                             `json:"rooms"`
	MarkerPositions map[string]map[string]MarkerPosition `json:"markerPositions"`
	AvailableFiles  map[string]FileFlags                 `json:"availableFiles"`
	InitialViews    map[string]models.Position           `json:"initialViews"`
}

// HouseConfig — запись каталога. Tour360 для одноцветных домов,
// Colors для Neo (white/dark), Tour360Rooms — legacy формат.
type HouseConfig struct {
	Name         string                `json:"name"`
	Collection   string                `json:"collection"`
	Tour360      *TourBlock            `json:"tour360"`
	Colors       map[string]*TourBlock `json:"colors"`
	Tour360Rooms []string              `json:"tour360Rooms"`
}

// TourConfig — нормализованный результат для остального движка.
// Всегда непустой: при отсутствии дома/цвета подставляется шаблон.
type TourConfig struct {
	Rooms           []string
	MarkerPositions map[string]map[string]MarkerPosition
	AvailableFiles  map[string]FileFlags
	InitialViews    map[string]models.Position
	Legacy          bool
	Fallback        bool
}

// defaultRooms — фиксированный шаблон на 9 комнат для домов без конфигурации.
var defaultRooms = []string{
	"entry", "living", "kitchen", "hall",
	"bedroom", "bedroom2", "bathroom", "bathroom2", "wik",
}

// DefaultRooms returns a copy of the 9-room fallback template.
func DefaultRooms() []string {
	out := make([]string, len(defaultRooms))
	copy(out, defaultRooms)
	return out
}

// Catalog — загруженный JSON документ, keyed by house id.
// После загрузки только читается; TourConfig выдаёт копии.
type Catalog struct {
	houses map[string]HouseConfig
}

// Load читает каталог из файла или по http(s) URL.
func Load(source string) (*Catalog, error) {
	var data []byte
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetch(source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("load tour config: %w", err)
	}
	return Parse(data)
}

// Parse разбирает документ каталога.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Houses map[string]HouseConfig `json:"houses"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tour config: %w", err)
	}
	if doc.Houses == nil {
		doc.Houses = map[string]HouseConfig{}
	}
	return &Catalog{houses: doc.Houses}, nil
}

func fetch(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ============================================================
// Lookups
// ============================================================

// House ищет дом по точному id, затем по нормализованному регистру.
func (c *Catalog) House(houseID string) (HouseConfig, bool) {
	if h, ok := c.houses[houseID]; ok {
		return h, true
	}

	lower := strings.ToLower(houseID)
	if h, ok := c.houses[lower]; ok {
		return h, true
	}
	// Часть записей каталога хранится с заглавной буквы
	if h, ok := c.houses[normalizeHouseKey(houseID)]; ok {
		return h, true
	}
	// Neo дома могут запрашиваться без префикса
	if h, ok := c.houses[assets.NeoPrefix+lower]; ok {
		return h, true
	}
	return HouseConfig{}, false
}

// Collection возвращает коллекцию дома, по умолчанию skyline.
func (c *Catalog) Collection(houseID string) string {
	if h, ok := c.House(houseID); ok && h.Collection != "" {
		return h.Collection
	}
	if strings.HasPrefix(houseID, assets.NeoPrefix) {
		return assets.CollectionNeo
	}
	return assets.CollectionSkyline
}

// Houses перечисляет id домов каталога в стабильном порядке.
func (c *Catalog) Houses() []string {
	ids := make([]string, 0, len(c.houses))
	for id := range c.houses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Colors — доступные цветовые схемы дома (в фиксированном порядке white, dark).
func (c *Catalog) Colors(houseID string) []models.ColorVariant {
	h, ok := c.House(houseID)
	if !ok || len(h.Colors) == 0 {
		return nil
	}
	var out []models.ColorVariant
	for _, color := range []models.ColorVariant{models.ColorWhite, models.ColorDark} {
		if _, ok := h.Colors[string(color)]; ok {
			out = append(out, color)
		}
	}
	return out
}

// TourConfig возвращает конфигурацию тура. Никогда не падает: отсутствующий
// дом или цвет даёт дефолтный шаблон комнат (ConfigurationMissing — не ошибка).
func (c *Catalog) TourConfig(houseID string, color models.ColorVariant) TourConfig {
	h, ok := c.House(houseID)
	if !ok {
		log.Printf("[CATALOG] house %q not in config, using default rooms", houseID)
		return fallbackConfig()
	}

	block := c.pickBlock(houseID, h, color)
	if block == nil {
		// Legacy список комнат без позиций маркеров
		if rooms := normalizeRooms(h.Tour360Rooms, color != models.ColorNone); len(rooms) > 0 {
			return TourConfig{
				Rooms:  rooms,
				Legacy: true,
			}
		}
		log.Printf("[CATALOG] house %q has no rooms for color %q, using default rooms", houseID, color)
		return fallbackConfig()
	}

	// Пустоту проверяем после нормализации: список из одних мусорных id
	// тоже должен уходить в шаблон
	rooms := normalizeRooms(block.Rooms, color != models.ColorNone)
	if len(rooms) == 0 {
		log.Printf("[CATALOG] house %q has empty room list for color %q, using default rooms", houseID, color)
		return fallbackConfig()
	}

	return TourConfig{
		Rooms:           rooms,
		MarkerPositions: copyMarkerPositions(block.MarkerPositions),
		AvailableFiles:  copyFileFlags(block.AvailableFiles),
		InitialViews:    copyInitialViews(block.InitialViews),
	}
}

func (c *Catalog) pickBlock(houseID string, h HouseConfig, color models.ColorVariant) *TourBlock {
	if color != models.ColorNone {
		if block, ok := h.Colors[string(color)]; ok && block != nil {
			return block
		}
		return nil
	}
	return h.Tour360
}

func fallbackConfig() TourConfig {
	return TourConfig{Rooms: DefaultRooms(), Fallback: true}
}

// normalizeHouseKey: первая буква заглавная, остальные строчные
// (часть записей каталога хранится с заглавной буквы).
func normalizeHouseKey(houseID string) string {
	if houseID == "" {
		return houseID
	}
	return strings.ToUpper(houseID[:1]) + strings.ToLower(houseID[1:])
}

// ============================================================
// Copy helpers — конфиг shared read-only, наружу уходят копии
// ============================================================

func copyMarkerPositions(src map[string]map[string]MarkerPosition) map[string]map[string]MarkerPosition {
	if src == nil {
		return nil
	}
	out := make(map[string]map[string]MarkerPosition, len(src))
	for room, targets := range src {
		inner := make(map[string]MarkerPosition, len(targets))
		for target, pos := range targets {
			inner[NormalizeRoomID(target)] = pos
		}
		out[NormalizeRoomID(room)] = inner
	}
	return out
}

func copyFileFlags(src map[string]FileFlags) map[string]FileFlags {
	if src == nil {
		return nil
	}
	out := make(map[string]FileFlags, len(src))
	for room, flags := range src {
		out[NormalizeRoomID(room)] = flags
	}
	return out
}

func copyInitialViews(src map[string]models.Position) map[string]models.Position {
	if src == nil {
		return nil
	}
	out := make(map[string]models.Position, len(src))
	for room, pos := range src {
		out[NormalizeRoomID(room)] = pos
	}
	return out
}
