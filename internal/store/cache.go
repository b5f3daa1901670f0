// Package store provides a SQLite-backed cache of the last known exchange rate.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/rateio/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache stores the most recent successful quote per currency pair.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveQuote replaces the stored quote for q.Pair.
func (c *Cache) SaveQuote(q model.Quote) error {
	if q.Pair == "" {
		return errors.New("saving quote: empty pair")
	}

	fetchedAt := q.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	quotedAt := ""
	if !q.QuotedAt.IsZero() {
		quotedAt = q.QuotedAt.UTC().Format(time.RFC3339)
	}

	_, err := c.db.Exec(`INSERT OR REPLACE INTO quotes
		(pair, bid, ask, rate, quoted_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		q.Pair, q.Bid, q.Ask, q.Rate, quotedAt, fetchedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving quote: %w", err)
	}
	return nil
}

// LastQuote returns the stored quote for pair. found is false when none exists.
func (c *Cache) LastQuote(pair string) (q model.Quote, found bool, err error) {
	var quotedAt, fetchedAt string
	var bid sql.NullFloat64

	err = c.db.QueryRow(`SELECT pair, bid, ask, rate, COALESCE(quoted_at, ''), fetched_at
		FROM quotes WHERE pair = ?`, pair).
		Scan(&q.Pair, &bid, &q.Ask, &q.Rate, &quotedAt, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Quote{}, false, nil
	}
	if err != nil {
		return model.Quote{}, false, fmt.Errorf("reading quote: %w", err)
	}

	q.Bid = bid.Float64
	if quotedAt != "" {
		q.QuotedAt, _ = time.Parse(time.RFC3339, quotedAt)
	}
	q.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)
	return q, true, nil
}

// Clear removes every cached quote.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec("DELETE FROM quotes"); err != nil {
		return fmt.Errorf("clearing quotes: %w", err)
	}
	return nil
}
