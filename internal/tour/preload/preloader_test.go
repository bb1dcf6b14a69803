package preload

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-engine/internal/tour/assets"
	"tour-engine/internal/tour/catalog"
	"tour-engine/internal/tour/models"
	"tour-engine/internal/tour/scene"
)

const sampleConfig = `{
  "houses": {
    "walnut": {
      "name": "Walnut",
      "collection": "skyline",
      "tour360": {
        "rooms": ["entry", "kitchen", "bedroom", "guest"]
      }
    }
  }
}`

type cacheStub struct {
	mu      sync.Mutex
	bodies  [][]string
	release chan struct{}
}

func newCacheStub(blocking bool) (*cacheStub, *httptest.Server) {
	stub := &cacheStub{}
	if blocking {
		stub.release = make(chan struct{})
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URLs []string `json:"urls"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		stub.mu.Lock()
		stub.bodies = append(stub.bodies, req.URLs)
		stub.mu.Unlock()

		if stub.release != nil {
			<-stub.release
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	return stub, srv
}

func (s *cacheStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bodies)
}

func newBuilder(t *testing.T) *scene.Builder {
	t.Helper()
	cat, err := catalog.Parse([]byte(sampleConfig))
	require.NoError(t, err)
	return scene.New(cat, assets.New("", true))
}

func TestPreloadNeighborsQueuesOneHop(t *testing.T) {
	builder := newBuilder(t)
	stub, srv := newCacheStub(false)
	defer srv.Close()

	p := New(builder, srv.URL, 2)

	sc, err := builder.Build("walnut", "entry", models.ColorNone)
	require.NoError(t, err)

	assert.Equal(t, 3, p.PreloadNeighbors(sc))

	require.Eventually(t, func() bool { return stub.count() == 3 }, 2*time.Second, 10*time.Millisecond)

	// Каждая комната отдает cache worker'у все шесть тайлов
	stub.mu.Lock()
	defer stub.mu.Unlock()
	for _, urls := range stub.bodies {
		assert.Len(t, urls, 6)
		for _, url := range urls {
			assert.Contains(t, url, "/assets/skyline/Walnut/360/")
		}
	}
}

func TestPreloadDeduplicatesInflight(t *testing.T) {
	builder := newBuilder(t)
	stub, srv := newCacheStub(true)
	defer srv.Close()

	p := New(builder, srv.URL, 2)

	sc, err := builder.Build("walnut", "entry", models.ColorNone)
	require.NoError(t, err)

	require.Equal(t, 3, p.PreloadNeighbors(sc))
	// Повторный заход, пока прогрев не закончен, ничего не добавляет
	assert.Equal(t, 0, p.PreloadNeighbors(sc))

	close(stub.release)
	require.Eventually(t, func() bool { return stub.count() == 3 }, 2*time.Second, 10*time.Millisecond)

	// После завершения комнаты можно греть снова
	require.Eventually(t, func() bool { return p.PreloadNeighbors(sc) > 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestPreloadSwallowsCacheFailures(t *testing.T) {
	builder := newBuilder(t)

	// Cache worker недоступен — прогрев не должен ронять тур
	p := New(builder, "http://127.0.0.1:1", 1)

	sc, err := builder.Build("walnut", "entry", models.ColorNone)
	require.NoError(t, err)

	assert.Equal(t, 3, p.PreloadNeighbors(sc))

	// Отказы дренируются, очередь освобождается
	require.Eventually(t, func() bool { return p.PreloadNeighbors(sc) > 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestPreloadNilScene(t *testing.T) {
	p := New(newBuilder(t), "", 1)
	assert.Equal(t, 0, p.PreloadNeighbors(nil))
}
