// Package cache provides the local SQLite snapshot cache.
//
// The cache is not authoritative - the backend is. It holds the last board
// the client saw, so the TUI paints immediately on startup and stays usable
// read-only when the backend is unreachable. Mutations never queue here;
// the cache is overwritten wholesale after each successful fetch.
package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/abelbrown/newsboard/internal/logging"
	"github.com/abelbrown/newsboard/internal/news"
)

// Cache handles persistence of board snapshots.
// Thread-safety: the underlying sql.DB serializes access; individual
// operations are atomic, SaveItems runs in one transaction.
type Cache struct {
	db *sql.DB
}

// Open creates a Cache at the given database path.
// Creates tables if they don't exist. Uses WAL mode for file-based DBs.
func Open(dbPath string) (*Cache, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so all pooled connections see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	c := &Cache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return c, nil
}

func (c *Cache) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		id            TEXT PRIMARY KEY,
		source        TEXT NOT NULL,
		title         TEXT NOT NULL,
		summary       TEXT NOT NULL DEFAULT '',
		link          TEXT NOT NULL DEFAULT '',
		image_url     TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL,
		category      TEXT NOT NULL,
		is_favorite   INTEGER NOT NULL DEFAULT 0,
		personal_note TEXT NOT NULL DEFAULT '',
		user_id       TEXT NOT NULL DEFAULT '',
		is_public     INTEGER NOT NULL DEFAULT 0,
		created_at    DATETIME NOT NULL,
		updated_at    DATETIME,
		cached_at     DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);
	CREATE INDEX IF NOT EXISTS idx_items_created ON items(created_at DESC);

	CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// SaveItems replaces the cached board with items in a single transaction.
// A full replacement (not an upsert-merge) keeps the cache an exact copy of
// the last fetch: items deleted server-side disappear here too.
func (c *Cache) SaveItems(items []news.Item) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback is safe to call even after commit - it's a no-op
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM items"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO items (id, source, title, summary, link, image_url, status, category,
			is_favorite, personal_note, user_id, is_public, created_at, updated_at, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	var failed []string
	for _, it := range items {
		var updated any
		if it.UpdatedAt != nil {
			updated = *it.UpdatedAt
		}
		_, err := stmt.Exec(
			it.ID, it.Source, it.Title, it.Summary, it.Link, it.ImageURL,
			string(it.Status), string(it.Category),
			boolToInt(it.Favorite), it.Note, it.UserID, boolToInt(it.Public),
			it.CreatedAt, updated, now,
		)
		if err != nil {
			failed = append(failed, it.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	if len(failed) > 0 {
		logging.Warn("Some items failed to cache", "failed_count", len(failed), "failed_ids", failed)
	}
	return nil
}

// LoadItems returns the cached board in created_at order, newest first.
func (c *Cache) LoadItems() ([]news.Item, error) {
	rows, err := c.db.Query(`
		SELECT id, source, title, summary, link, image_url, status, category,
			is_favorite, personal_note, user_id, is_public, created_at, updated_at
		FROM items
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// CachedAt returns when the cache was last written, or the zero time for an
// empty cache.
func (c *Cache) CachedAt() (time.Time, error) {
	var t sql.NullTime
	err := c.db.QueryRow("SELECT MAX(cached_at) FROM items").Scan(&t)
	if err != nil {
		return time.Time{}, fmt.Errorf("query cache age: %w", err)
	}
	return t.Time, nil
}

// ItemCount returns the number of cached items.
func (c *Cache) ItemCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// scanItems scans rows into items, handling the common scanning logic.
func scanItems(rows *sql.Rows) ([]news.Item, error) {
	var items []news.Item
	for rows.Next() {
		var (
			it               news.Item
			status, category string
			favorite, public int
			updated          sql.NullTime
		)
		err := rows.Scan(
			&it.ID, &it.Source, &it.Title, &it.Summary, &it.Link, &it.ImageURL,
			&status, &category, &favorite, &it.Note, &it.UserID, &public,
			&it.CreatedAt, &updated,
		)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.Status = news.Status(status)
		it.Category = news.Category(category)
		it.Favorite = favorite != 0
		it.Public = public != 0
		if updated.Valid {
			t := updated.Time
			it.UpdatedAt = &t
		}
		items = append(items, it)
	}

	// Critical: check for errors from row iteration
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return items, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
