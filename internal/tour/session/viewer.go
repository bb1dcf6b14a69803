package session

import (
	"context"
	"fmt"
	"sync"

	"tour-engine/internal/tour/models"
)

// ============================================================
// Remote viewer
// ============================================================

// RemoteViewer представляет панорамный рендерер на стороне клиента.
// Сервис не рисует: он держит последнюю отданную сцену и маркеры, клиент
// забирает их через API и подтверждает готовность POST'ом /ready.
type RemoteViewer struct {
	mu      sync.Mutex
	scene   *models.Scene
	markers []models.Marker
}

func NewRemoteViewer() *RemoteViewer {
	return &RemoteViewer{}
}

func (v *RemoteViewer) SetPanorama(ctx context.Context, s *models.Scene) error {
	if s == nil {
		return fmt.Errorf("nil scene")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.scene = s
	v.markers = nil
	return nil
}

func (v *RemoteViewer) SetMarkers(ms []models.Marker) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.markers = ms
}

func (v *RemoteViewer) Destroy() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scene = nil
	v.markers = nil
}

// Markers возвращает маркеры текущей сцены.
func (v *RemoteViewer) Markers() []models.Marker {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.markers
}

// Scene возвращает текущую сцену viewer'а (nil после Destroy).
func (v *RemoteViewer) Scene() *models.Scene {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scene
}
