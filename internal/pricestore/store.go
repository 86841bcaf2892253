// Package pricestore provides persistent caching for raw provider price
// series. Payloads are msgpack blobs with expiration timestamps for
// cache-first behavior across process restarts.
package pricestore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/meridian/internal/domain"
	"github.com/vmihailenco/msgpack/v5"
)

const schema = `
CREATE TABLE IF NOT EXISTS price_series (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_price_series_expires ON price_series(expires_at);
`

// Store is the disk-backed series cache.
type Store struct {
	db *sql.DB
}

// NewStore creates the price series store, initializing its schema.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize price_series schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Key builds the deterministic cache key for a series query.
func Key(kind domain.ProviderKind, symbol string, start, end domain.Date) string {
	return strings.Join([]string{string(kind), symbol, start.String(), end.String()}, "|")
}

// Store saves a series with expiration = now + ttl. Upserts; the last writer
// for a key wins.
func (s *Store) Store(key string, points []domain.PricePoint, ttl time.Duration) error {
	data, err := msgpack.Marshal(points)
	if err != nil {
		return fmt.Errorf("failed to marshal series: %w", err)
	}

	now := time.Now()
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO price_series (key, data, created_at, expires_at) VALUES (?, ?, ?, ?)",
		key, data, now.Unix(), now.Add(ttl).Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store series %s: %w", key, err)
	}

	return nil
}

// GetIfFresh returns the series only if expires_at > now.
// Returns nil, nil when the key is absent or expired. Use Get to read stale
// data as a fallback when the provider is down.
func (s *Store) GetIfFresh(key string) ([]domain.PricePoint, error) {
	return s.get(key, true)
}

// Get returns the series regardless of expiration status. Stale data is
// better than no data when the upstream fetch failed.
// Returns nil, nil when the key is absent.
func (s *Store) Get(key string) ([]domain.PricePoint, error) {
	return s.get(key, false)
}

func (s *Store) get(key string, freshOnly bool) ([]domain.PricePoint, error) {
	query := "SELECT data FROM price_series WHERE key = ?"
	args := []interface{}{key}
	if freshOnly {
		query += " AND expires_at > ?"
		args = append(args, time.Now().Unix())
	}

	var data []byte
	err := s.db.QueryRow(query, args...).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read series %s: %w", key, err)
	}

	var points []domain.PricePoint
	if err := msgpack.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("failed to unmarshal series %s: %w", key, err)
	}

	return points, nil
}

// Delete removes a specific entry.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM price_series WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete series %s: %w", key, err)
	}
	return nil
}

// DeleteExpired removes all rows where expires_at < now.
// Returns the number of rows deleted.
func (s *Store) DeleteExpired() (int64, error) {
	result, err := s.db.Exec("DELETE FROM price_series WHERE expires_at < ?", time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired series: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

// Stats reports entry counts for the status endpoint.
type Stats struct {
	Entries int64 `json:"entries"`
	Expired int64 `json:"expired"`
}

// Stats counts stored and already-expired entries.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	if err := s.db.QueryRow("SELECT COUNT(*) FROM price_series").Scan(&st.Entries); err != nil {
		return st, fmt.Errorf("failed to count series: %w", err)
	}
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM price_series WHERE expires_at < ?", time.Now().Unix(),
	).Scan(&st.Expired)
	if err != nil {
		return st, fmt.Errorf("failed to count expired series: %w", err)
	}
	return st, nil
}
