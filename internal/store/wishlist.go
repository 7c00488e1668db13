package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"omac/internal/domain"
)

// WishlistStore handles wishlist persistence operations.
type WishlistStore struct {
	store *Store
}

const wishlistColumns = `uuid, name, series, wave, manufacturer, year, scale,
	target_price, priority, notes, created_at, updated_at`

// Add inserts a new wishlist item.
func (ws *WishlistStore) Add(w *domain.WishlistItem) error {
	if err := domain.ValidateName(w.Name); err != nil {
		return err
	}
	if w.Priority == "" {
		w.Priority = domain.PriorityMedium
	}
	if err := domain.ValidatePriority(w.Priority); err != nil {
		return err
	}

	if w.UUID == "" {
		w.UUID = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Second)
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	if w.UpdatedAt.IsZero() {
		w.UpdatedAt = w.CreatedAt
	}

	_, err := ws.store.db.Exec(`
		INSERT INTO wishlist (uuid, name, series, wave, manufacturer, year, scale,
			target_price, priority, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, w.UUID, w.Name, nullStr(w.Series), nullStr(w.Wave), nullStr(w.Manufacturer),
		nullInt(w.Year), nullStr(w.Scale), nullFloat(w.TargetPrice),
		string(w.Priority), nullStr(w.Notes),
		formatTime(w.CreatedAt), formatTime(w.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return nil
}

// List returns all wishlist items, highest priority first, newest first.
func (ws *WishlistStore) List() ([]domain.WishlistItem, error) {
	rows, err := ws.store.db.Query(`
		SELECT ` + wishlistColumns + ` FROM wishlist
		ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END,
			created_at DESC, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	var items []domain.WishlistItem
	for rows.Next() {
		w, err := scanWishlistItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *w)
	}
	return items, rows.Err()
}

// Get returns a wishlist item by UUID.
func (ws *WishlistStore) Get(itemUUID string) (*domain.WishlistItem, error) {
	row := ws.store.db.QueryRow(
		`SELECT `+wishlistColumns+` FROM wishlist WHERE uuid = ?`, itemUUID)
	w, err := scanWishlistItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("wishlist item not found: %s", itemUUID)
	}
	return w, err
}

// Update writes every field of the item back to its row.
func (ws *WishlistStore) Update(w *domain.WishlistItem) error {
	if err := domain.ValidateName(w.Name); err != nil {
		return err
	}
	if err := domain.ValidatePriority(w.Priority); err != nil {
		return err
	}
	w.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	res, err := ws.store.db.Exec(`
		UPDATE wishlist SET name = ?, series = ?, wave = ?, manufacturer = ?, year = ?,
			scale = ?, target_price = ?, priority = ?, notes = ?, updated_at = ?
		WHERE uuid = ?
	`, w.Name, nullStr(w.Series), nullStr(w.Wave), nullStr(w.Manufacturer),
		nullInt(w.Year), nullStr(w.Scale), nullFloat(w.TargetPrice),
		string(w.Priority), nullStr(w.Notes), formatTime(w.UpdatedAt), w.UUID)
	if err != nil {
		return fmt.Errorf("failed to update wishlist item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("wishlist item not found: %s", w.UUID)
	}
	return nil
}

// Delete removes a wishlist item.
func (ws *WishlistStore) Delete(itemUUID string) error {
	res, err := ws.store.db.Exec(`DELETE FROM wishlist WHERE uuid = ?`, itemUUID)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("wishlist item not found: %s", itemUUID)
	}
	return nil
}

// Promote converts a wishlist item into a collection figure. The insert and
// the wishlist delete happen in one transaction: either both succeed or
// neither does.
func (ws *WishlistStore) Promote(itemUUID string) (*domain.Figure, error) {
	item, err := ws.Get(itemUUID)
	if err != nil {
		return nil, err
	}

	fig := item.ToFigure()
	fig.UUID = uuid.New().String()
	now := time.Now().UTC().Truncate(time.Second)
	fig.CreatedAt = now
	fig.UpdatedAt = now

	err = ws.store.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO figures (uuid, name, series, wave, manufacturer, year, scale,
				notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, fig.UUID, fig.Name, nullStr(fig.Series), nullStr(fig.Wave),
			nullStr(fig.Manufacturer), nullInt(fig.Year), nullStr(fig.Scale),
			nullStr(fig.Notes), formatTime(fig.CreatedAt), formatTime(fig.UpdatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert promoted figure: %w", err)
		}

		res, err := tx.Exec(`DELETE FROM wishlist WHERE uuid = ?`, itemUUID)
		if err != nil {
			return fmt.Errorf("failed to remove wishlist item: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("wishlist item not found: %s", itemUUID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fig, nil
}

func scanWishlistItem(s scanner) (*domain.WishlistItem, error) {
	var w domain.WishlistItem
	var series, wave, manufacturer, scale, notes sql.NullString
	var year sql.NullInt64
	var targetPrice sql.NullFloat64
	var priority, createdAt, updatedAt string

	err := s.Scan(&w.UUID, &w.Name, &series, &wave, &manufacturer, &year, &scale,
		&targetPrice, &priority, &notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	w.Series = strPtr(series)
	w.Wave = strPtr(wave)
	w.Manufacturer = strPtr(manufacturer)
	w.Year = intPtr(year)
	w.Scale = strPtr(scale)
	w.TargetPrice = floatPtr(targetPrice)
	w.Priority = domain.Priority(priority)
	w.Notes = strPtr(notes)

	if w.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	if w.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at %q: %w", updatedAt, err)
	}
	return &w, nil
}
