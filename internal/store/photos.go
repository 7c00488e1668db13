package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"omac/internal/domain"
)

// PhotoStore handles photo reference persistence. Photo files themselves are
// managed by the photos package; the store only records paths.
type PhotoStore struct {
	store *Store
}

const photoColumns = `uuid, figure_uuid, file_path, caption, is_primary, upload_date`

// Add inserts a photo reference. When the new photo is marked primary, any
// existing primary photo on the same figure is demoted in the same
// transaction, keeping at most one primary per figure.
func (ps *PhotoStore) Add(p *domain.Photo) error {
	if p.FigureUUID == "" {
		return fmt.Errorf("photo requires a figure UUID")
	}
	if p.FilePath == "" {
		return fmt.Errorf("photo requires a file path")
	}

	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	if p.UploadDate.IsZero() {
		p.UploadDate = time.Now().UTC().Truncate(time.Second)
	}

	return ps.store.withTx(func(tx *sql.Tx) error {
		if p.IsPrimary {
			if _, err := tx.Exec(
				`UPDATE photos SET is_primary = 0 WHERE figure_uuid = ?`, p.FigureUUID); err != nil {
				return fmt.Errorf("failed to demote existing primary photo: %w", err)
			}
		}

		_, err := tx.Exec(`
			INSERT INTO photos (uuid, figure_uuid, file_path, caption, is_primary, upload_date)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.UUID, p.FigureUUID, p.FilePath, nullStr(p.Caption), boolToInt(p.IsPrimary),
			formatTime(p.UploadDate))
		if err != nil {
			return fmt.Errorf("failed to add photo: %w", err)
		}
		return nil
	})
}

// ListForFigure returns a figure's photos, primary first, newest first.
func (ps *PhotoStore) ListForFigure(figureUUID string) ([]domain.Photo, error) {
	return ps.query(`WHERE figure_uuid = ? ORDER BY is_primary DESC, upload_date DESC, uuid`,
		figureUUID)
}

// ListAll returns every photo reference in the collection.
func (ps *PhotoStore) ListAll() ([]domain.Photo, error) {
	return ps.query(`ORDER BY figure_uuid, upload_date DESC, uuid`)
}

// SetPrimary marks one photo as the figure's primary, demoting all others.
func (ps *PhotoStore) SetPrimary(figureUUID, photoUUID string) error {
	return ps.store.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			`UPDATE photos SET is_primary = 0 WHERE figure_uuid = ?`, figureUUID); err != nil {
			return fmt.Errorf("failed to demote photos: %w", err)
		}

		res, err := tx.Exec(
			`UPDATE photos SET is_primary = 1 WHERE uuid = ? AND figure_uuid = ?`,
			photoUUID, figureUUID)
		if err != nil {
			return fmt.Errorf("failed to set primary photo: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("photo not found: %s", photoUUID)
		}
		return nil
	})
}

// Delete removes a photo reference and returns its file path so the caller
// can remove the file.
func (ps *PhotoStore) Delete(photoUUID string) (string, error) {
	var filePath string

	err := ps.store.withTx(func(tx *sql.Tx) error {
		err := tx.QueryRow(`SELECT file_path FROM photos WHERE uuid = ?`, photoUUID).Scan(&filePath)
		if err == sql.ErrNoRows {
			return fmt.Errorf("photo not found: %s", photoUUID)
		}
		if err != nil {
			return fmt.Errorf("failed to look up photo: %w", err)
		}

		if _, err := tx.Exec(`DELETE FROM photos WHERE uuid = ?`, photoUUID); err != nil {
			return fmt.Errorf("failed to delete photo: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return filePath, nil
}

func (ps *PhotoStore) query(tail string, args ...interface{}) ([]domain.Photo, error) {
	rows, err := ps.store.db.Query(`SELECT `+photoColumns+` FROM photos `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}
	defer rows.Close()

	var photos []domain.Photo
	for rows.Next() {
		var p domain.Photo
		var caption sql.NullString
		var isPrimary int
		var uploadDate string

		if err := rows.Scan(&p.UUID, &p.FigureUUID, &p.FilePath, &caption, &isPrimary, &uploadDate); err != nil {
			return nil, err
		}
		p.Caption = strPtr(caption)
		p.IsPrimary = isPrimary != 0
		if p.UploadDate, err = parseTime(uploadDate); err != nil {
			return nil, fmt.Errorf("failed to parse upload_date %q: %w", uploadDate, err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
