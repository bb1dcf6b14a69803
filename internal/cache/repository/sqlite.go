package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ============================================================
// SQLite Tile Cache Repository
// ============================================================

// ErrNotFound сигналит промах кэша.
var ErrNotFound = errors.New("not found")

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Entry — закэшированный ассет.
type Entry struct {
	URL         string
	ContentType string
	Body        []byte
	Size        int64
	FetchedAt   string
}

// Stats — сводка по кэшу.
type Stats struct {
	Entries    int64 `json:"entries"`
	TotalBytes int64 `json:"total_bytes"`
}

// Init запускает миграции.
func (r *Repository) Init(migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.Exec(string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// Upsert сохраняет ассет; повторный прогрев того же URL перезаписывает запись.
func (r *Repository) Upsert(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO tiles (url, content_type, body, size, fetched_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(url) DO UPDATE SET
            content_type = excluded.content_type,
            body = excluded.body,
            size = excluded.size,
            fetched_at = excluded.fetched_at
    `, e.URL, e.ContentType, e.Body, int64(len(e.Body)), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert tile: %w", err)
	}
	return nil
}

// Get возвращает закэшированный ассет.
func (r *Repository) Get(ctx context.Context, url string) (*Entry, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT url, content_type, body, size, fetched_at
        FROM tiles
        WHERE url = ?
    `, url)

	var e Entry
	if err := row.Scan(&e.URL, &e.ContentType, &e.Body, &e.Size, &e.FetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
		}
		return nil, err
	}
	return &e, nil
}

// Stats считает количество записей и суммарный объём.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT COUNT(*), COALESCE(SUM(size), 0) FROM tiles
    `)

	var s Stats
	if err := row.Scan(&s.Entries, &s.TotalBytes); err != nil {
		return Stats{}, err
	}
	return s, nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
