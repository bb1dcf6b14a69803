package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-engine/internal/tour/assets"
	"tour-engine/internal/tour/catalog"
	"tour-engine/internal/tour/models"
)

const sampleConfig = `{
  "houses": {
    "walnut": {
      "name": "Walnut",
      "collection": "skyline",
      "tour360": {
        "rooms": ["entry", "kitchen", "bedroom", "guest"],
        "markerPositions": {
          "entry": {
            "kitchen": {"yaw": 40, "pitch": 0},
            "bedroom": {"yaw": 170, "pitch": -5},
            "guest": {"yaw": 300, "pitch": 0}
          }
        },
        "availableFiles": {
          "kitchen": {"thumbnail": false, "preview": true}
        },
        "initialViews": {
          "kitchen": {"yaw": 90, "pitch": 0, "zoom": 10}
        }
      }
    },
    "duo": {
      "collection": "skyline",
      "tour360": {
        "rooms": ["entry", "living"]
      }
    },
    "neo-cedar": {
      "collection": "neo",
      "colors": {
        "white": {"rooms": ["living", "kitchen", "bedroom"]},
        "dark": {"rooms": ["living_dark", "kitchen_dark", "bedroom_dark"]}
      }
    }
  }
}`

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	cat, err := catalog.Parse([]byte(sampleConfig))
	require.NoError(t, err)
	return New(cat, assets.New("", true))
}

func TestBuildWalnutEntry(t *testing.T) {
	b := newBuilder(t)

	sc, err := b.Build("walnut", "entry", models.ColorNone)
	require.NoError(t, err)

	assert.Equal(t, "walnut_entry", sc.Key)
	assert.Equal(t, "entry", sc.Room)

	for _, url := range sc.Panorama.URLs() {
		assert.True(t, assets.ValidPath(url), "tile must resolve: %s", url)
	}

	// Только цели из таблицы позиций, в стабильном порядке
	require.Len(t, sc.Links, 3)
	assert.Equal(t, "bedroom", sc.Links[0].To)
	assert.Equal(t, "guest", sc.Links[1].To)
	assert.Equal(t, "kitchen", sc.Links[2].To)
	assert.Equal(t, 170.0, sc.Links[0].Yaw)
	assert.Equal(t, -5.0, sc.Links[0].Pitch)
}

func TestBuildIsDeterministic(t *testing.T) {
	b := newBuilder(t)

	first, err := b.Build("walnut", "entry", models.ColorNone)
	require.NoError(t, err)
	second, err := b.Build("walnut", "entry", models.ColorNone)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildNoSelfLinks(t *testing.T) {
	b := newBuilder(t)

	for _, room := range []string{"entry", "kitchen", "bedroom", "guest"} {
		sc, err := b.Build("walnut", room, models.ColorNone)
		require.NoError(t, err)
		for _, link := range sc.Links {
			assert.NotEqual(t, sc.Room, link.To, "room %s links to itself", room)
		}
	}
}

func TestBuildEvenDistribution(t *testing.T) {
	b := newBuilder(t)

	// У kitchen нет явных позиций: три остальные комнаты через 120°
	sc, err := b.Build("walnut", "kitchen", models.ColorNone)
	require.NoError(t, err)

	require.Len(t, sc.Links, 3)
	assert.Equal(t, 0.0, sc.Links[0].Yaw)
	assert.Equal(t, 120.0, sc.Links[1].Yaw)
	assert.Equal(t, 240.0, sc.Links[2].Yaw)
}

func TestBuildTwoRoomHouse(t *testing.T) {
	b := newBuilder(t)

	sc, err := b.Build("duo", "entry", models.ColorNone)
	require.NoError(t, err)

	// Единственный маркер встаёт за спиной, а не на yaw 0
	require.Len(t, sc.Links, 1)
	assert.Equal(t, "living", sc.Links[0].To)
	assert.Equal(t, 180.0, sc.Links[0].Yaw)
}

func TestBuildBlankRoomConfigUsesDefaultTemplate(t *testing.T) {
	cat, err := catalog.Parse([]byte(`{
	  "houses": {
	    "walnut": {
	      "collection": "skyline",
	      "tour360": {"rooms": ["  "]}
	    }
	  }
	}`))
	require.NoError(t, err)
	b := New(cat, assets.New("", true))

	sc, err := b.Build("walnut", "entry", models.ColorNone)
	require.NoError(t, err)
	assert.Equal(t, "entry", sc.Room)
	assert.Len(t, sc.Links, len(catalog.DefaultRooms())-1)
}

func TestBuildUnknownRoomFallsBackToFirst(t *testing.T) {
	b := newBuilder(t)

	sc, err := b.Build("walnut", "garage", models.ColorNone)
	require.NoError(t, err)
	assert.Equal(t, "entry", sc.Room)
}

func TestBuildInitialView(t *testing.T) {
	b := newBuilder(t)

	entry, err := b.Build("walnut", "entry", models.ColorNone)
	require.NoError(t, err)
	assert.Equal(t, 180.0, entry.Yaw)
	assert.Equal(t, 0.0, entry.Pitch)
	assert.Equal(t, 5, entry.Zoom)

	kitchen, err := b.Build("walnut", "kitchen", models.ColorNone)
	require.NoError(t, err)
	assert.Equal(t, 90.0, kitchen.Yaw)
	assert.Equal(t, 10, kitchen.Zoom)
}

func TestBuildThumbnailFallback(t *testing.T) {
	b := newBuilder(t)

	// У kitchen thumbnail помечен отсутствующим — уходим в preview
	sc, err := b.Build("walnut", "kitchen", models.ColorNone)
	require.NoError(t, err)
	assert.Equal(t, "/assets/skyline/Walnut/360/kitchen/preview.jpg", sc.Thumbnail)

	entry, err := b.Build("walnut", "entry", models.ColorNone)
	require.NoError(t, err)
	assert.Equal(t, "/assets/skyline/Walnut/360/entry/thumbnail.jpg", entry.Thumbnail)
}

func TestBuildColorVariant(t *testing.T) {
	b := newBuilder(t)

	sc, err := b.Build("neo-cedar", "kitchen", models.ColorDark)
	require.NoError(t, err)

	assert.Equal(t, "neo-cedar_kitchen_dark", sc.Key)
	assert.Contains(t, sc.Panorama.Front, "/assets/neo/Cedar/360/dark/kitchen/")
}

func TestSceneKey(t *testing.T) {
	assert.Equal(t, "walnut_entry", SceneKey("walnut", "entry", models.ColorNone))
	assert.Equal(t, "neo-cedar_living_white", SceneKey("neo-cedar", "living", models.ColorWhite))
}
