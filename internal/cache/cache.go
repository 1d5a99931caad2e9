// Package cache keeps finished expansions in a SQLite database so an
// unchanged invocation is not rewritten twice.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SchemaVersion is bumped when the table layout changes. A database with
// another version is emptied and reused: its contents are only a cache.
const SchemaVersion = "1"

const driverName = "sqlite"

// MemoryPath opens a private in-memory cache.
const MemoryPath = ":memory:"

// Cache is a SQLite-backed expansion cache. It is safe for concurrent use.
type Cache struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// Stats summarizes the cache contents.
type Stats struct {
	Path    string
	Entries int64
	Hits    int64
	Bytes   int64
}

// Open opens or creates the cache at path, creating parent directories
// as needed.
func Open(path string) (*Cache, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	// one connection: an in-memory database exists per connection
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS expansions (
			key TEXT PRIMARY KEY,
			output TEXT NOT NULL,
			hits INTEGER NOT NULL DEFAULT 0,
			created TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache %s: %w", path, err)
	}

	c := &Cache{db: db, path: path}
	if err := c.checkSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache %s: %w", path, err)
	}
	return c, nil
}

func (c *Cache) checkSchema() error {
	var version string
	err := c.db.QueryRow("SELECT value FROM metadata WHERE key = 'schema_version'").Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if version == SchemaVersion {
		return nil
	}
	if version != "" {
		if _, err := c.db.Exec("DELETE FROM expansions"); err != nil {
			return err
		}
	}
	_, err = c.db.Exec(`
		INSERT INTO metadata (key, value) VALUES ('schema_version', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, SchemaVersion)
	return err
}

// Key derives the cache key of a macro body rendered under the settings
// identified by fingerprint.
func Key(fingerprint []byte, body string) string {
	h := sha256.New()
	h.Write(fingerprint)
	h.Write([]byte("\x00"))
	h.Write([]byte(body))
	return hex.EncodeToString(h.Sum(nil))[:32]
}

// Get returns the expansion stored under key and records the hit.
func (c *Cache) Get(key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var output string
	err := c.db.QueryRow("SELECT output FROM expansions WHERE key = ?", key).Scan(&output)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if _, err := c.db.Exec("UPDATE expansions SET hits = hits + 1 WHERE key = ?", key); err != nil {
		return "", false, err
	}
	return output, true, nil
}

// Put stores output under key, replacing any previous entry.
func (c *Cache) Put(key, output string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(`
		INSERT INTO expansions (key, output, created) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET output = excluded.output, created = excluded.created
	`, key, output, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Stats reports how many entries the cache holds and how often they were
// reused.
func (c *Cache) Stats() (Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Stats{Path: c.path}
	err := c.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(hits), 0), COALESCE(SUM(LENGTH(output)), 0)
		FROM expansions
	`).Scan(&st.Entries, &st.Hits, &st.Bytes)
	return st, err
}

// Clear removes every entry and returns how many there were.
func (c *Cache) Clear() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.db.Exec("DELETE FROM expansions")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Path returns the database path the cache was opened with.
func (c *Cache) Path() string {
	return c.path
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}
