package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-engine/internal/tour/models"
)

const sampleConfig = `{
  "houses": {
    "walnut": {
      "name": "Walnut",
      "collection": "skyline",
      "tour360": {
        "rooms": ["entry", "kitchen", "badroom", "guest"],
        "markerPositions": {
          "entry": {
            "kitchen": {"yaw": 40, "pitch": 0},
            "badroom": {"yaw": 170, "pitch": -5}
          }
        }
      }
    },
    "oak": {
      "collection": "skyline",
      "tour360Rooms": ["entry", "living", "bathroom_2"]
    },
    "neo-redwood": {
      "collection": "neo",
      "colors": {
        "white": {
          "rooms": ["living_white", "kitchen_white", "bedroom_white"]
        }
      }
    }
  }
}`

func load(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	return cat
}

func TestNormalizeRoomID(t *testing.T) {
	assert.Equal(t, "bedroom", NormalizeRoomID("badroom"))
	assert.Equal(t, "bedroom2", NormalizeRoomID("badroom_2"))
	assert.Equal(t, "living", NormalizeRoomID("living_white"))
	assert.Equal(t, "kitchen", NormalizeRoomID("Kitchen_Dark"))
	assert.Equal(t, "bathroom2", NormalizeRoomID("bathroom_2"))
	assert.Equal(t, "wik", NormalizeRoomID("wik"))
}

func TestHouseLookupCaseAndPrefix(t *testing.T) {
	cat := load(t)

	_, ok := cat.House("walnut")
	assert.True(t, ok)
	_, ok = cat.House("WALNUT")
	assert.True(t, ok)
	// Neo дом находится и без префикса
	_, ok = cat.House("redwood")
	assert.True(t, ok)
	_, ok = cat.House("maple")
	assert.False(t, ok)
}

func TestTourConfigNormalizesRooms(t *testing.T) {
	cat := load(t)
	cfg := cat.TourConfig("walnut", models.ColorNone)

	assert.Equal(t, []string{"entry", "kitchen", "bedroom", "guest"}, cfg.Rooms)
	assert.False(t, cfg.Fallback)

	// Ключи позиций маркеров тоже канонические
	require.Contains(t, cfg.MarkerPositions, "entry")
	assert.Contains(t, cfg.MarkerPositions["entry"], "bedroom")
	assert.NotContains(t, cfg.MarkerPositions["entry"], "badroom")
}

func TestTourConfigUnknownHouseFallsBack(t *testing.T) {
	cat := load(t)
	cfg := cat.TourConfig("maple", models.ColorNone)

	assert.True(t, cfg.Fallback)
	assert.Equal(t, DefaultRooms(), cfg.Rooms)
	require.NotEmpty(t, cfg.Rooms)
	assert.Len(t, cfg.Rooms, 9)
}

func TestTourConfigMissingColorFallsBack(t *testing.T) {
	cat := load(t)

	// У redwood нет dark схемы — дефолтный шаблон вместо ошибки
	cfg := cat.TourConfig("neo-redwood", models.ColorDark)
	assert.True(t, cfg.Fallback)
	assert.Equal(t, DefaultRooms(), cfg.Rooms)
}

func TestTourConfigColorVariantLivingFirst(t *testing.T) {
	cat := load(t)
	cfg := cat.TourConfig("neo-redwood", models.ColorWhite)

	require.NotEmpty(t, cfg.Rooms)
	assert.Equal(t, "living", cfg.Rooms[0])
	assert.ElementsMatch(t, []string{"living", "kitchen", "bedroom"}, cfg.Rooms)
}

func TestTourConfigLegacyRoomList(t *testing.T) {
	cat := load(t)
	cfg := cat.TourConfig("oak", models.ColorNone)

	assert.True(t, cfg.Legacy)
	assert.Equal(t, []string{"entry", "living", "bathroom2"}, cfg.Rooms)
	assert.Empty(t, cfg.MarkerPositions)
}

func TestTourConfigBlankRoomsFallBack(t *testing.T) {
	// Комнаты, исчезающие при нормализации, равносильны пустому списку
	cat, err := Parse([]byte(`{
	  "houses": {
	    "walnut": {
	      "collection": "skyline",
	      "tour360": {"rooms": ["  ", ""]}
	    },
	    "oak": {
	      "collection": "skyline",
	      "tour360Rooms": ["  "]
	    }
	  }
	}`))
	require.NoError(t, err)

	cfg := cat.TourConfig("walnut", models.ColorNone)
	assert.True(t, cfg.Fallback)
	require.NotEmpty(t, cfg.Rooms)
	assert.Equal(t, DefaultRooms(), cfg.Rooms)

	legacy := cat.TourConfig("oak", models.ColorNone)
	assert.True(t, legacy.Fallback)
	assert.False(t, legacy.Legacy)
	require.NotEmpty(t, legacy.Rooms)
}

func TestColors(t *testing.T) {
	cat := load(t)

	assert.Equal(t, []models.ColorVariant{models.ColorWhite}, cat.Colors("neo-redwood"))
	assert.Nil(t, cat.Colors("walnut"))
}

func TestCollectionDefaults(t *testing.T) {
	cat := load(t)

	assert.Equal(t, "skyline", cat.Collection("walnut"))
	assert.Equal(t, "neo", cat.Collection("neo-redwood"))
	// Незнакомый дом с neo- префиксом все равно уходит в neo
	assert.Equal(t, "neo", cat.Collection("neo-maple"))
	assert.Equal(t, "skyline", cat.Collection("maple"))
}

func TestRoomLabel(t *testing.T) {
	assert.Equal(t, "Living Room", RoomLabel("living"))
	assert.Equal(t, "Walk-in Closet", RoomLabel("wik"))
	assert.Equal(t, "Bedroom 1", RoomLabel("badroom"))
	assert.Equal(t, "Sauna", RoomLabel("sauna"))
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("not json"))
	assert.Error(t, err)
}
