package portfolio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ImageCache stores rendered preview images in SQLite, keyed by
// ogimage.Spec.Key. Specs that have not changed since the last build or
// request are served without rendering.
type ImageCache struct {
	db *sql.DB
}

// OpenImageCache opens (or creates) the cache database at path, ensuring the
// directory exists and the schema is in place.
func OpenImageCache(path string) (*ImageCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the server read while a build writes; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	c := &ImageCache{db: db}
	if err := c.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close closes the underlying database connection.
func (c *ImageCache) Close() error {
	return c.db.Close()
}

func (c *ImageCache) ensureSchema() error {
	_, err := c.db.Exec(`
CREATE TABLE IF NOT EXISTS og_images (
    key TEXT PRIMARY KEY,
    png BLOB NOT NULL,
    created_at TEXT NOT NULL
);
`)
	return err
}

// Get returns the cached PNG for key. ok is false on a miss.
func (c *ImageCache) Get(ctx context.Context, key string) (data []byte, ok bool, err error) {
	err = c.db.QueryRowContext(ctx, `SELECT png FROM og_images WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("image cache get: %w", err)
	}
	return data, true, nil
}

// Put stores png under key, replacing any previous value.
func (c *ImageCache) Put(ctx context.Context, key string, png []byte) error {
	_, err := c.db.ExecContext(ctx, `INSERT OR REPLACE INTO og_images (key, png, created_at) VALUES (?, ?, ?)`,
		key, png, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("image cache put: %w", err)
	}
	return nil
}

// Prune deletes every entry whose key is not in keep and reports how many
// were removed.
func (c *ImageCache) Prune(ctx context.Context, keep map[string]struct{}) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT key FROM og_images`)
	if err != nil {
		return 0, err
	}
	var stale []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return 0, err
		}
		if _, ok := keep[key]; !ok {
			stale = append(stale, key)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	var removed int64
	for _, key := range stale {
		res, err := tx.ExecContext(ctx, `DELETE FROM og_images WHERE key = ?`, key)
		if err != nil {
			return 0, err
		}
		n, _ := res.RowsAffected()
		removed += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("image cache prune: %w", err)
	}
	return removed, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM og_images`).Scan(&n)
	return n, err
}
