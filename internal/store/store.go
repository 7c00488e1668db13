// Package store provides the persistence layer over the SQLite database,
// handling UUID generation, timestamps, and null/absent field mapping.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"omac/internal/db"
	"omac/internal/domain"
)

// Store is the root store that provides access to domain-specific stores.
type Store struct {
	db *db.DB

	Figures  *FigureStore
	Photos   *PhotoStore
	Wishlist *WishlistStore
}

// New creates a new Store wrapping the given database connection.
func New(database *db.DB) *Store {
	s := &Store{db: database}
	s.Figures = &FigureStore{store: s}
	s.Photos = &PhotoStore{store: s}
	s.Wishlist = &WishlistStore{store: s}
	return s
}

// DB returns the underlying database connection (for read-only queries).
func (s *Store) DB() *db.DB {
	return s.db
}

// withTx executes fn within a transaction. If fn returns nil, the transaction
// is committed; otherwise it is rolled back.
func (s *Store) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// formatTime renders a timestamp in the canonical database layout.
func formatTime(t time.Time) string {
	return t.UTC().Format(domain.TimeFormat)
}

// parseTime parses a timestamp in the canonical database layout. SQLite's
// strftime defaults produce the same layout.
func parseTime(s string) (time.Time, error) {
	return time.Parse(domain.TimeFormat, s)
}

func nullStr(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func strPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	i := int(n.Int64)
	return &i
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}
