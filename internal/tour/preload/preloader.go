package preload

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"tour-engine/internal/tour/models"
	"tour-engine/internal/tour/scene"
)

// ============================================================
// Preloader / Cache Coordinator
// ============================================================

// Preloader греет тайлы комнат в один переход от текущей сцены.
// Чистая оптимизация: любые ошибки здесь глотаются и максимум логируются,
// на пользовательский тур они не влияют.
type Preloader struct {
	builder  *scene.Builder
	client   *http.Client
	cacheURL string // пустая строка = cache worker не подключен

	sem chan struct{} // низкий приоритет = маленький пул воркеров

	mu       sync.Mutex
	inflight map[string]bool // scene key -> уже в очереди
}

func New(builder *scene.Builder, cacheURL string, workers int) *Preloader {
	if workers <= 0 {
		workers = 2
	}
	return &Preloader{
		builder:  builder,
		client:   &http.Client{Timeout: 30 * time.Second},
		cacheURL: strings.TrimSuffix(cacheURL, "/"),
		sem:      make(chan struct{}, workers),
		inflight: make(map[string]bool),
	}
}

// PreloadNeighbors ставит в фон прогрев всех комнат, достижимых из сцены.
// Дедупликация по ключу сцены: одна комната не греется дважды одновременно.
// Возвращает количество реально поставленных в очередь комнат.
func (p *Preloader) PreloadNeighbors(current *models.Scene) int {
	if current == nil || len(current.Links) == 0 {
		return 0
	}

	queued := 0
	for _, link := range current.Links {
		key := scene.SceneKey(current.HouseID, link.To, current.Color)

		p.mu.Lock()
		if p.inflight[key] {
			p.mu.Unlock()
			continue
		}
		p.inflight[key] = true
		p.mu.Unlock()

		queued++
		go p.preloadRoom(key, current.HouseID, link.To, current.Color)
	}
	return queued
}

func (p *Preloader) preloadRoom(key, houseID, room string, color models.ColorVariant) {
	defer func() {
		p.mu.Lock()
		delete(p.inflight, key)
		p.mu.Unlock()
	}()

	s, err := p.builder.Build(houseID, room, color)
	if err != nil {
		log.Printf("[PRELOAD] skip %s: %v", key, err)
		return
	}

	urls := s.Panorama.URLs()

	// Прямой прогрев абсолютных URL; относительные пути греет только cache worker
	for _, url := range urls {
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			continue
		}
		p.sem <- struct{}{}
		p.warm(url)
		<-p.sem
	}

	p.handoff(urls)
	log.Printf("[PRELOAD] warmed tiles for %s", key)
}

// warm качает тайл и выбрасывает тело: важно только прогреть кэш по пути.
func (p *Preloader) warm(url string) {
	resp, err := p.client.Get(url)
	if err != nil {
		log.Printf("[PRELOAD] fetch %s: %v", url, err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
}

// handoff отдаёт список URL cache worker'у. Fire-and-forget: недоступный
// worker не ломает тур. Записи для уже неактуальных комнат безвредны,
// откатывать их не нужно.
func (p *Preloader) handoff(urls []string) {
	if p.cacheURL == "" || len(urls) == 0 {
		return
	}

	payload, err := json.Marshal(map[string][]string{"urls": urls})
	if err != nil {
		return
	}

	resp, err := p.client.Post(p.cacheURL+"/preload", "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("[PRELOAD] cache handoff failed: %v", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
}
