package catalog

import (
	"sort"
	"strings"
)

// ============================================================
// Room id normalization
// ============================================================

// Legacy варианты имен комнат встречаются только в конфигурации; нормализация
// происходит один раз здесь, дальше движок работает с каноническими id.

// roomRenames — опечатки/старые имена из ранних конфигов.
var roomRenames = map[string]string{
	"badroom":  "bedroom",
	"badroom2": "bedroom2",
}

// NormalizeRoomID приводит id комнаты к каноническому виду:
// суффиксы цвета (_white/_dark) убираются, "_2" переписывается в "2",
// старые имена переименовываются.
func NormalizeRoomID(room string) string {
	r := strings.TrimSpace(strings.ToLower(room))
	r = strings.TrimSuffix(r, "_white")
	r = strings.TrimSuffix(r, "_dark")

	// bathroom_2 -> bathroom2
	if strings.HasSuffix(r, "_2") {
		r = strings.TrimSuffix(r, "_2") + "2"
	}

	if renamed, ok := roomRenames[r]; ok {
		r = renamed
	}
	return r
}

// roomLabels — отображаемые имена канонических комнат.
var roomLabels = map[string]string{
	"entry":     "Entry",
	"living":    "Living Room",
	"kitchen":   "Kitchen",
	"hall":      "Hallway",
	"bedroom":   "Bedroom 1",
	"bedroom2":  "Bedroom 2",
	"bathroom":  "Bathroom 1",
	"bathroom2": "Bathroom 2",
	"guest":     "Guest Room",
	"office":    "Office",
	"wik":       "Walk-in Closet",
}

// RoomLabel returns the display name for a room id, titleizing unknown ids.
func RoomLabel(room string) string {
	id := NormalizeRoomID(room)
	if label, ok := roomLabels[id]; ok {
		return label
	}
	return titleize(id)
}

func titleize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// normalizeRooms нормализует список, убирает дубли и для цветных туров
// ставит living первой (остальные по алфавиту).
func normalizeRooms(rooms []string, livingFirst bool) []string {
	seen := make(map[string]bool, len(rooms))
	out := make([]string, 0, len(rooms))
	for _, room := range rooms {
		id := NormalizeRoomID(room)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}

	if livingFirst {
		sort.Slice(out, func(i, j int) bool {
			if out[i] == "living" {
				return out[j] != "living"
			}
			if out[j] == "living" {
				return false
			}
			return out[i] < out[j]
		})
	}
	return out
}
