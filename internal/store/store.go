// Package store keeps catalog's search history in SQLite.
// Only the queries are stored; product responses never are.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// MaxEntries bounds the history table. Older queries are pruned on write.
const MaxEntries = 500

// ErrEmptyQuery is returned when recording a blank query.
var ErrEmptyQuery = errors.New("empty query")

// Store handles SQLite persistence. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Search is one remembered query.
type Search struct {
	Query    string
	LastUsed time.Time
	Uses     int
}

// Open creates a Store at dbPath, creating tables if needed.
// ":memory:" opens an in-process database private to the returned Store.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Named per Store: pooled connections share it, other Stores don't.
		connStr = "file:catalog-" + uuid.NewString() + "?mode=memory&cache=shared"
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

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	schema := `
	CREATE TABLE IF NOT EXISTS searches (
		query TEXT PRIMARY KEY,
		last_used INTEGER NOT NULL,
		uses INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_searches_last_used ON searches(last_used DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// RecordSearch remembers query, bumping its use count if already known.
// Queries are stored trimmed.
func (s *Store) RecordSearch(query string) error {
	return s.recordAt(query, time.Now())
}

func (s *Store) recordAt(query string, at time.Time) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return ErrEmptyQuery
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO searches (query, last_used, uses) VALUES (?, ?, 1)
		ON CONFLICT(query) DO UPDATE SET
			last_used = excluded.last_used,
			uses = uses + 1
	`, query, at.UnixNano())
	if err != nil {
		return fmt.Errorf("record search: %w", err)
	}

	_, err = tx.Exec(`
		DELETE FROM searches WHERE query NOT IN (
			SELECT query FROM searches ORDER BY last_used DESC LIMIT ?
		)
	`, MaxEntries)
	if err != nil {
		return fmt.Errorf("prune searches: %w", err)
	}

	return tx.Commit()
}

// RecentSearches returns up to limit queries, most recently used first.
func (s *Store) RecentSearches(limit int) ([]Search, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT query, last_used, uses FROM searches
		ORDER BY last_used DESC, query ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query searches: %w", err)
	}
	defer rows.Close()

	var out []Search
	for rows.Next() {
		var (
			sr   Search
			nano int64
		)
		if err := rows.Scan(&sr.Query, &nano, &sr.Uses); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}
		sr.LastUsed = time.Unix(0, nano)
		out = append(out, sr)
	}
	return out, rows.Err()
}

// RecentQueries is RecentSearches reduced to the query strings.
func (s *Store) RecentQueries(limit int) ([]string, error) {
	searches, err := s.RecentSearches(limit)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(searches))
	for i, sr := range searches {
		out[i] = sr.Query
	}
	return out, nil
}

// ClearSearches forgets every query and returns how many were removed.
func (s *Store) ClearSearches() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM searches")
	if err != nil {
		return 0, fmt.Errorf("clear searches: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
