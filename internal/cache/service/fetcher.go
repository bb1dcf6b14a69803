package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	// Тайлы туров приходят только в этих двух форматах
	_ "image/jpeg"

	_ "golang.org/x/image/webp"

	"tour-engine/internal/cache/repository"
)

// ============================================================
// Tile Fetcher
// ============================================================

// maxTileSize ограничивает тело одного тайла (10 MB с запасом).
const maxTileSize = 10 << 20

// Fetcher качает тайлы и складывает их в репозиторий. Очередь обслуживается
// пулом воркеров фиксированного размера; переполненная очередь роняет URL,
// а не запрос — прогрев это best effort.
type Fetcher struct {
	repo   *repository.Repository
	client *http.Client
	queue  chan string
}

func NewFetcher(repo *repository.Repository, workers int) *Fetcher {
	if workers <= 0 {
		workers = 2
	}
	f := &Fetcher{
		repo:   repo,
		client: &http.Client{Timeout: 30 * time.Second},
		queue:  make(chan string, 256),
	}
	for i := 0; i < workers; i++ {
		go f.worker()
	}
	return f
}

// Enqueue ставит URL в очередь прогрева. Возвращает false при переполнении.
func (f *Fetcher) Enqueue(url string) bool {
	select {
	case f.queue <- url:
		return true
	default:
		log.Printf("[CACHE] queue full, dropping %s", url)
		return false
	}
}

func (f *Fetcher) worker() {
	for url := range f.queue {
		if err := f.fetch(url); err != nil {
			log.Printf("[CACHE] fetch %s: %v", url, err)
		}
	}
}

func (f *Fetcher) fetch(url string) error {
	resp, err := f.client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTileSize))
	if err != nil {
		return err
	}

	contentType := resp.Header.Get("Content-Type")
	if isImage(contentType, url) {
		// Битый тайл в кэше хуже отсутствующего
		if _, _, err := image.DecodeConfig(bytes.NewReader(body)); err != nil {
			return fmt.Errorf("decode image: %w", err)
		}
	}

	return f.repo.Upsert(context.Background(), repository.Entry{
		URL:         url,
		ContentType: contentType,
		Body:        body,
	})
}

func isImage(contentType, url string) bool {
	if strings.HasPrefix(contentType, "image/") {
		return true
	}
	for _, ext := range []string{".jpg", ".jpeg", ".webp"} {
		if strings.HasSuffix(strings.ToLower(url), ext) {
			return true
		}
	}
	return false
}
