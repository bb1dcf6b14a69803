package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"tour-engine/internal/tour/models"
	"tour-engine/internal/tour/scene"
)

// ============================================================
// Session Manager
// ============================================================

// ViewerFactory создаёт viewer под конкретную сессию.
type ViewerFactory func() Viewer

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	builder   *scene.Builder
	preloader Preloader
	newViewer ViewerFactory
}

func NewManager(builder *scene.Builder, preloader Preloader, newViewer ViewerFactory) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		builder:   builder,
		preloader: preloader,
		newViewer: newViewer,
	}
}

// Create заводит сессию тура и сразу входит в первую комнату дома.
func (m *Manager) Create(ctx context.Context, houseID string, color models.ColorVariant) (*Session, *models.Scene, error) {
	cfg := m.builder.Catalog().TourConfig(houseID, color)

	token := uuid.NewString()
	s := newSession(token, houseID, color, m.builder, m.newViewer(), m.preloader)

	sc, err := s.EnterRoom(ctx, cfg.Rooms[0])
	if err != nil {
		s.Destroy()
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	m.mu.Lock()
	m.sessions[token] = s
	m.mu.Unlock()
	return s, sc, nil
}

// Resolve находит сессию по токену.
func (m *Manager) Resolve(token string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	return s, ok
}

// Destroy закрывает сессию и убирает её из реестра.
func (m *Manager) Destroy(token string) bool {
	m.mu.Lock()
	s, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()

	if ok {
		s.Destroy()
	}
	return ok
}

// Count — количество живых сессий (для health/stats).
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
