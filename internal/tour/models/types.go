package models

// ============================================================
// Tour core structures
// ============================================================

// ColorVariant — цветовая схема тура (для Neo домов). Пустая строка = одна схема.
type ColorVariant string

const (
	ColorNone  ColorVariant = ""
	ColorWhite ColorVariant = "white"
	ColorDark  ColorVariant = "dark"
)

// TileDirection is one of the six cubemap faces.
type TileDirection string

const (
	TileFront TileDirection = "front"
	TileBack  TileDirection = "back"
	TileLeft  TileDirection = "left"
	TileRight TileDirection = "right"
	TileUp    TileDirection = "up"
	TileDown  TileDirection = "down"
)

// TileDirections lists the faces in resolver order (f, b, l, r, u, d).
var TileDirections = []TileDirection{TileFront, TileBack, TileLeft, TileRight, TileUp, TileDown}

// Cubemap holds the six tile URLs the viewer renders.
type Cubemap struct {
	Front string `json:"front"`
	Back  string `json:"back"`
	Left  string `json:"left"`
	Right string `json:"right"`
	Up    string `json:"up"`
	Down  string `json:"down"`
}

// URLs возвращает все шесть тайлов в порядке обхода.
func (cm Cubemap) URLs() []string {
	return []string{cm.Front, cm.Back, cm.Left, cm.Right, cm.Up, cm.Down}
}

// NavigationLink — направленная связь текущей комнаты с другой.
// Yaw/Pitch в градусах, позиция маркера в текущей панораме.
type NavigationLink struct {
	To    string  `json:"to"`
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Label string  `json:"label"`
}

// Position — ориентация камеры. Yaw/Pitch в градусах, Zoom в процентах.
type Position struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Zoom  int     `json:"zoom"`
}

// Scene is the unit handed to the external panorama viewer.
type Scene struct {
	Key       string           `json:"key"`
	Title     string           `json:"title"`
	HouseID   string           `json:"house_id"`
	Room      string           `json:"room"`
	Color     ColorVariant     `json:"color,omitempty"`
	Panorama  Cubemap          `json:"panorama"`
	Thumbnail string           `json:"thumbnail"`
	Yaw       float64          `json:"yaw"`
	Pitch     float64          `json:"pitch"`
	Zoom      int              `json:"zoom"`
	Links     []NavigationLink `json:"links"`
}

// Marker — кликабельная иконка в панораме. Yaw/Pitch уже в радианах,
// To несёт id целевой комнаты (payload клика).
type Marker struct {
	ID    string  `json:"id"`
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Icon  string  `json:"icon"`
	Label string  `json:"label"`
	To    string  `json:"to"`
}

// ============================================================
// Catalog structures
// ============================================================

// HouseSummary описывает дом в каталоге для списков/превью.
type HouseSummary struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Collection string         `json:"collection"`
	Rooms      []string       `json:"rooms"`
	Colors     []ColorVariant `json:"colors,omitempty"`
	Thumbnail  string         `json:"thumbnail"`
	RoomCount  int            `json:"room_count"`
}

// ============================================================
// Session state
// ============================================================

// TourState is a snapshot of one tour session's state machine.
type TourState struct {
	Token       string       `json:"token"`
	HouseID     string       `json:"house_id"`
	Color       ColorVariant `json:"color,omitempty"`
	Room        string       `json:"room"`
	SceneKey    string       `json:"scene_key"`
	State       string       `json:"state"`
	Epoch       int          `json:"epoch"`
	ViewerReady bool         `json:"viewer_ready"`
	Position    Position     `json:"position"`
	LastError   string       `json:"last_error,omitempty"`
}
