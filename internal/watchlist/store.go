// Package watchlist provides SQLite-backed persistence for the set of
// symbols the user is tracking.
package watchlist

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database holding the watched symbols.
type Store struct {
	db *sql.DB
}

// Entry is one watched symbol.
type Entry struct {
	Symbol   string
	Exchange string
	AddedAt  time.Time
}

// Open opens or creates the SQLite database at dbPath.
// An empty dbPath defaults to $TMPDIR/signaldash/watchlist.db.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "signaldash", "watchlist.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS watchlist (
			symbol   TEXT NOT NULL,
			exchange TEXT NOT NULL DEFAULT 'NSE',
			added_at INTEGER NOT NULL,
			PRIMARY KEY (symbol, exchange)
		)`)
	return err
}

// Add puts a symbol on the watchlist. Adding a symbol that is already
// watched is a no-op and keeps its original position.
func (s *Store) Add(symbol, exchange string) error {
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if exchange == "" {
		exchange = "NSE"
	}
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO watchlist (symbol, exchange, added_at)
		VALUES (?, ?, ?)`,
		symbol, exchange, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", symbol, err)
	}
	return nil
}

// Remove takes a symbol off the watchlist. Removing an unwatched symbol
// is a no-op.
func (s *Store) Remove(symbol, exchange string) error {
	if exchange == "" {
		exchange = "NSE"
	}
	if _, err := s.db.Exec(`DELETE FROM watchlist WHERE symbol = ? AND exchange = ?`, symbol, exchange); err != nil {
		return fmt.Errorf("failed to remove %s: %w", symbol, err)
	}
	return nil
}

// Contains reports whether a symbol is currently watched.
func (s *Store) Contains(symbol, exchange string) (bool, error) {
	if exchange == "" {
		exchange = "NSE"
	}
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM watchlist WHERE symbol = ? AND exchange = ?`, symbol, exchange).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", symbol, err)
	}
	return n > 0, nil
}

// List returns the watched symbols in the order they were added.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(`SELECT symbol, exchange, added_at FROM watchlist ORDER BY added_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var addedAtNano int64
		if err := rows.Scan(&e.Symbol, &e.Exchange, &addedAtNano); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.AddedAt = time.Unix(0, addedAtNano)
		entries = append(entries, e)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, rows.Err()
}
