// Package store provides an SQLite-backed cache for scraped pages, so that
// the movie and TV pipelines don't re-fetch the same chart or detail page
// within one scheduling window.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite-based page cache
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new store instance with an SQLite database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "reelbuzz.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	pagesTable := `
	CREATE TABLE IF NOT EXISTS pages (
		url TEXT PRIMARY KEY,
		body TEXT,
		date_fetched DATETIME
	);`

	if _, err := s.db.Exec(pagesTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// CachePage stores a fetched page body under its URL, replacing any
// previous entry.
func (s *Store) CachePage(url, body string) error {
	query := `
	INSERT OR REPLACE INTO pages (url, body, date_fetched)
	VALUES (?, ?, ?)`

	if _, err := s.db.Exec(query, url, body, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to cache page: %w", err)
	}
	return nil
}

// GetCachedPage returns a cached page body if it was fetched within ttl.
// A miss (absent or expired) returns ok=false and no error.
func (s *Store) GetCachedPage(url string, ttl time.Duration) (string, bool, error) {
	query := `SELECT body, date_fetched FROM pages WHERE url = ?`

	var body string
	var fetched time.Time
	err := s.db.QueryRow(query, url).Scan(&body, &fetched)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query page cache: %w", err)
	}

	if ttl > 0 && time.Since(fetched) > ttl {
		return "", false, nil
	}
	return body, true, nil
}

// PrunePages deletes cache entries older than maxAge and returns the number
// removed.
func (s *Store) PrunePages(maxAge time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxAge)
	res, err := s.db.Exec(`DELETE FROM pages WHERE date_fetched < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune page cache: %w", err)
	}
	return res.RowsAffected()
}
