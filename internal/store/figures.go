package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"omac/internal/domain"
)

// FigureStore handles figure persistence operations.
type FigureStore struct {
	store *Store
}

// figureColumns is the canonical column list scanned by scanFigure.
const figureColumns = `uuid, name, series, wave, manufacturer, year, scale, condition,
	purchase_price, current_value, location, notes, created_at, updated_at`

// sortColumns whitelists the columns accepted by List and Search.
var sortColumns = map[string]string{
	"name":         "name",
	"series":       "series",
	"wave":         "wave",
	"manufacturer": "manufacturer",
	"year":         "year",
	"condition":    "condition",
	"created":      "created_at",
	"updated":      "updated_at",
}

// Stats summarizes the collection for status display.
type Stats struct {
	TotalFigures int
	TotalPhotos  int
	TotalSpent   float64
	TotalValue   float64
}

// Create inserts a new figure. A missing UUID is generated and zero
// timestamps are set to now.
func (fs *FigureStore) Create(f *domain.Figure) error {
	if err := domain.ValidateFigure(f); err != nil {
		return err
	}

	if f.UUID == "" {
		f.UUID = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Second)
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = f.CreatedAt
	}

	_, err := fs.store.db.Exec(`
		INSERT INTO figures (uuid, name, series, wave, manufacturer, year, scale, condition,
			purchase_price, current_value, location, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, f.UUID, f.Name, nullStr(f.Series), nullStr(f.Wave), nullStr(f.Manufacturer),
		nullInt(f.Year), nullStr(f.Scale), nullStr(f.Condition),
		nullFloat(f.PurchasePrice), nullFloat(f.CurrentValue),
		nullStr(f.Location), nullStr(f.Notes),
		formatTime(f.CreatedAt), formatTime(f.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create figure: %w", err)
	}
	return nil
}

// Update writes every field of the figure back to its row. The caller is
// responsible for setting UpdatedAt.
func (fs *FigureStore) Update(f *domain.Figure) error {
	if err := domain.ValidateFigure(f); err != nil {
		return err
	}

	res, err := fs.store.db.Exec(`
		UPDATE figures SET name = ?, series = ?, wave = ?, manufacturer = ?, year = ?,
			scale = ?, condition = ?, purchase_price = ?, current_value = ?,
			location = ?, notes = ?, updated_at = ?
		WHERE uuid = ?
	`, f.Name, nullStr(f.Series), nullStr(f.Wave), nullStr(f.Manufacturer),
		nullInt(f.Year), nullStr(f.Scale), nullStr(f.Condition),
		nullFloat(f.PurchasePrice), nullFloat(f.CurrentValue),
		nullStr(f.Location), nullStr(f.Notes),
		formatTime(f.UpdatedAt), f.UUID)
	if err != nil {
		return fmt.Errorf("failed to update figure: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("figure not found: %s", f.UUID)
	}
	return nil
}

// Get returns a figure by UUID.
func (fs *FigureStore) Get(figureUUID string) (*domain.Figure, error) {
	row := fs.store.db.QueryRow(
		`SELECT `+figureColumns+` FROM figures WHERE uuid = ?`, figureUUID)
	f, err := scanFigure(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("figure not found: %s", figureUUID)
	}
	return f, err
}

// List returns all figures ordered by the given column.
func (fs *FigureStore) List(sortColumn, sortOrder string) ([]domain.Figure, error) {
	return fs.query(``, nil, sortColumn, sortOrder)
}

// Search returns figures whose name, series, wave, or manufacturer contains
// the search term.
func (fs *FigureStore) Search(term, sortColumn, sortOrder string) ([]domain.Figure, error) {
	like := "%" + term + "%"
	where := `WHERE name LIKE ? OR series LIKE ? OR manufacturer LIKE ? OR wave LIKE ?`
	return fs.query(where, []interface{}{like, like, like, like}, sortColumn, sortOrder)
}

// Delete removes a figure and its photo rows (cascade), returning the file
// paths of the photos so the caller can remove the files.
func (fs *FigureStore) Delete(figureUUID string) ([]string, error) {
	var paths []string

	err := fs.store.withTx(func(tx *sql.Tx) error {
		rows, err := tx.Query(`SELECT file_path FROM photos WHERE figure_uuid = ?`, figureUUID)
		if err != nil {
			return fmt.Errorf("failed to list photos: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var p string
			if err := rows.Scan(&p); err != nil {
				return fmt.Errorf("failed to scan photo path: %w", err)
			}
			paths = append(paths, p)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		res, err := tx.Exec(`DELETE FROM figures WHERE uuid = ?`, figureUUID)
		if err != nil {
			return fmt.Errorf("failed to delete figure: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("figure not found: %s", figureUUID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// Stats returns collection totals for status display.
func (fs *FigureStore) Stats() (*Stats, error) {
	s := &Stats{}
	err := fs.store.db.QueryRow(`SELECT COUNT(*) FROM figures`).Scan(&s.TotalFigures)
	if err != nil {
		return nil, fmt.Errorf("failed to count figures: %w", err)
	}
	err = fs.store.db.QueryRow(`SELECT COUNT(*) FROM photos`).Scan(&s.TotalPhotos)
	if err != nil {
		return nil, fmt.Errorf("failed to count photos: %w", err)
	}
	err = fs.store.db.QueryRow(
		`SELECT COALESCE(SUM(purchase_price), 0) FROM figures WHERE purchase_price IS NOT NULL`,
	).Scan(&s.TotalSpent)
	if err != nil {
		return nil, fmt.Errorf("failed to sum purchase prices: %w", err)
	}
	err = fs.store.db.QueryRow(
		`SELECT COALESCE(SUM(COALESCE(current_value, purchase_price)), 0) FROM figures`,
	).Scan(&s.TotalValue)
	if err != nil {
		return nil, fmt.Errorf("failed to sum values: %w", err)
	}
	return s, nil
}

func (fs *FigureStore) query(where string, args []interface{}, sortColumn, sortOrder string) ([]domain.Figure, error) {
	col, ok := sortColumns[sortColumn]
	if !ok {
		col = "name"
	}
	order := "ASC"
	if sortOrder == "desc" || sortOrder == "DESC" {
		order = "DESC"
	}

	query := `SELECT ` + figureColumns + ` FROM figures ` + where +
		fmt.Sprintf(` ORDER BY %s %s, name ASC`, col, order)

	rows, err := fs.store.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query figures: %w", err)
	}
	defer rows.Close()

	var figures []domain.Figure
	for rows.Next() {
		f, err := scanFigure(rows)
		if err != nil {
			return nil, err
		}
		figures = append(figures, *f)
	}
	return figures, rows.Err()
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanFigure(s scanner) (*domain.Figure, error) {
	var f domain.Figure
	var series, wave, manufacturer, scale, condition, location, notes sql.NullString
	var year sql.NullInt64
	var purchasePrice, currentValue sql.NullFloat64
	var createdAt, updatedAt string

	err := s.Scan(&f.UUID, &f.Name, &series, &wave, &manufacturer, &year, &scale,
		&condition, &purchasePrice, &currentValue, &location, &notes,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	f.Series = strPtr(series)
	f.Wave = strPtr(wave)
	f.Manufacturer = strPtr(manufacturer)
	f.Year = intPtr(year)
	f.Scale = strPtr(scale)
	f.Condition = strPtr(condition)
	f.PurchasePrice = floatPtr(purchasePrice)
	f.CurrentValue = floatPtr(currentValue)
	f.Location = strPtr(location)
	f.Notes = strPtr(notes)

	if f.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	if f.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at %q: %w", updatedAt, err)
	}
	return &f, nil
}
