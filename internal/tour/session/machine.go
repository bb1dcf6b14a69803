package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"tour-engine/internal/tour/markers"
	"tour-engine/internal/tour/models"
	"tour-engine/internal/tour/scene"
)

// ============================================================
// Tour State Machine
// ============================================================

// Состояния сессии тура.
const (
	StateIdle    = "idle"
	StateLoading = "loading"
	StateReady   = "ready"
	StateError   = "error"
)

// Viewer — внешний рендерер панорамы. Движок им владеет, но внутрь не лезет:
// только сцена целиком, маркеры целиком, destroy.
type Viewer interface {
	SetPanorama(ctx context.Context, s *models.Scene) error
	SetMarkers(ms []models.Marker)
	Destroy()
}

// Preloader греет соседние комнаты после готовности сцены.
type Preloader interface {
	PreloadNeighbors(current *models.Scene) int
}

// Session — один тур одного клиента. Все переходы сериализованы мьютексом;
// epoch растёт на каждом входе в комнату и отсекает устаревшие сигналы
// готовности от viewer'а.
type Session struct {
	mu sync.Mutex

	token   string
	houseID string
	color   models.ColorVariant

	builder   *scene.Builder
	viewer    Viewer
	preloader Preloader

	state        string
	epoch        int
	viewerReady  bool
	viewerFailed bool
	current      *models.Scene
	position     models.Position
	lastErr      string
}

func newSession(token, houseID string, color models.ColorVariant, builder *scene.Builder, viewer Viewer, preloader Preloader) *Session {
	return &Session{
		token:     token,
		houseID:   houseID,
		color:     color,
		builder:   builder,
		viewer:    viewer,
		preloader: preloader,
		state:     StateIdle,
	}
}

// Token возвращает идентификатор сессии.
func (s *Session) Token() string {
	return s.token
}

// EnterRoom переводит тур в комнату: новая эпоха, сцена во viewer, свежие
// маркеры. Сессия остаётся в loading, пока viewer не подтвердит готовность.
func (s *Session) EnterRoom(ctx context.Context, roomID string) (*models.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.viewerFailed {
		return nil, fmt.Errorf("session %s: viewer failed, tour is over", s.token)
	}

	s.epoch++
	s.state = StateLoading
	s.viewerReady = false
	s.lastErr = ""

	sc, err := s.builder.Build(s.houseID, roomID, s.color)
	if err != nil {
		// Невалидная сцена не трогает viewer: текущая остаётся видимой,
		// а следующий EnterRoom выводит из error
		s.state = StateError
		s.lastErr = err.Error()
		log.Printf("[SESSION] %s: build scene %s/%s: %v", s.token, s.houseID, roomID, err)
		return nil, err
	}

	if err := s.viewer.SetPanorama(ctx, sc); err != nil {
		// Отказ viewer'а фатален: повторная инициализация не предусмотрена
		s.viewerFailed = true
		s.state = StateError
		s.lastErr = err.Error()
		log.Printf("[SESSION] %s: viewer init failed: %v", s.token, err)
		return nil, fmt.Errorf("set panorama: %w", err)
	}
	s.viewer.SetMarkers(markers.Build(sc.Links))

	s.current = sc
	s.position = models.Position{Yaw: sc.Yaw, Pitch: sc.Pitch, Zoom: sc.Zoom}
	log.Printf("[SESSION] %s: entering %s (epoch %d)", s.token, sc.Key, s.epoch)
	return sc, nil
}

// ViewerReady — сигнал от viewer'а, что сцена отрисована. Сигналы чужих эпох
// молча поглощаются: комната уже сменилась, готовность устарела.
func (s *Session) ViewerReady(epoch int) bool {
	s.mu.Lock()

	if epoch != s.epoch || s.state != StateLoading {
		s.mu.Unlock()
		log.Printf("[SESSION] %s: stale ready signal (epoch %d, current %d)", s.token, epoch, s.epoch)
		return false
	}

	s.state = StateReady
	s.viewerReady = true
	current := s.current
	s.mu.Unlock()

	if s.preloader != nil && current != nil {
		s.preloader.PreloadNeighbors(current)
	}
	return true
}

// MarkerSelected обрабатывает клик по маркеру: payload маркера это id
// целевой комнаты, дальше обычный вход.
func (s *Session) MarkerSelected(ctx context.Context, markerID string) (*models.Scene, error) {
	s.mu.Lock()
	var target string
	if s.current != nil {
		for _, m := range markers.Build(s.current.Links) {
			if m.ID == markerID || m.To == markerID {
				target = m.To
				break
			}
		}
	}
	s.mu.Unlock()

	if target == "" {
		return nil, fmt.Errorf("session %s: unknown marker %q", s.token, markerID)
	}
	return s.EnterRoom(ctx, target)
}

// UpdatePosition запоминает ориентацию камеры (приходит с фронта при движении).
func (s *Session) UpdatePosition(pos models.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = pos
}

// Epoch возвращает текущую эпоху (для подтверждений готовности).
func (s *Session) Epoch() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Snapshot — срез состояния сессии для API.
func (s *Session) Snapshot() models.TourState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := models.TourState{
		Token:       s.token,
		HouseID:     s.houseID,
		Color:       s.color,
		State:       s.state,
		Epoch:       s.epoch,
		ViewerReady: s.viewerReady,
		Position:    s.position,
		LastError:   s.lastErr,
	}
	if s.current != nil {
		st.Room = s.current.Room
		st.SceneKey = s.current.Key
	}
	return st
}

// Destroy останавливает сессию и освобождает viewer.
func (s *Session) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.viewer != nil {
		s.viewer.Destroy()
	}
	s.state = StateIdle
	s.current = nil
	s.viewerReady = false
}
