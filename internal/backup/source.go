package backup

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"omac/internal/domain"
	"omac/internal/merge"
)

// Source feeds a backup archive to the merge engine: figure rows become
// drafts and each figure's photo files are extracted to a staging directory
// so the engine can copy them like any other source path. Close removes the
// staging directory.
type Source struct {
	drafts   []*domain.DraftFigure
	stageDir string
	pos      int
}

// OpenSource opens archivePath as a merge source.
func OpenSource(archivePath string) (*Source, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup: %w", err)
	}
	defer zr.Close()

	if err := validateArchive(&zr.Reader); err != nil {
		return nil, err
	}
	figures, err := readFiguresEntry(&zr.Reader)
	if err != nil {
		return nil, err
	}
	photoRows, err := readPhotosEntry(&zr.Reader)
	if err != nil {
		return nil, err
	}

	stageDir, err := os.MkdirTemp("", "omac-merge-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	photosByFigure := make(map[string][]domain.DraftPhoto)
	for i := range photoRows {
		p := &photoRows[i]
		staged := filepath.Join(stageDir, filepath.Base(p.FilePath))
		if err := stagePhoto(&zr.Reader, p.FilePath, staged); err != nil {
			os.RemoveAll(stageDir)
			return nil, err
		}
		photosByFigure[p.FigureUUID] = append(photosByFigure[p.FigureUUID], domain.DraftPhoto{
			SourcePath: staged,
			Caption:    p.Caption,
			IsPrimary:  p.IsPrimary,
		})
	}

	s := &Source{stageDir: stageDir}
	for i := range figures {
		f := &figures[i]
		d := &domain.DraftFigure{
			Name:          f.Name,
			Series:        f.Series,
			Wave:          f.Wave,
			Manufacturer:  f.Manufacturer,
			Year:          f.Year,
			Scale:         f.Scale,
			Condition:     f.Condition,
			PurchasePrice: f.PurchasePrice,
			CurrentValue:  f.CurrentValue,
			Location:      f.Location,
			Notes:         f.Notes,
			Photos:        photosByFigure[f.UUID],
		}
		if !f.CreatedAt.IsZero() {
			t := f.CreatedAt
			d.CreatedAt = &t
		}
		if !f.UpdatedAt.IsZero() {
			t := f.UpdatedAt
			d.UpdatedAt = &t
		}
		s.drafts = append(s.drafts, d)
	}
	return s, nil
}

// Next yields the next figure from the archive. Backup rows were valid when
// archived, so there are no row errors from this source.
func (s *Source) Next() (*domain.DraftFigure, *merge.RowError, error) {
	if s.pos >= len(s.drafts) {
		return nil, nil, io.EOF
	}
	d := s.drafts[s.pos]
	s.pos++
	return d, nil, nil
}

// Reset rewinds to the first figure.
func (s *Source) Reset() error {
	s.pos = 0
	return nil
}

// Close removes the staging directory holding extracted photo files.
func (s *Source) Close() error {
	if s.stageDir == "" {
		return nil
	}
	err := os.RemoveAll(s.stageDir)
	s.stageDir = ""
	return err
}

func stagePhoto(zr *zip.Reader, name, dst string) error {
	rc, err := openEntry(zr, photosPrefix+name)
	if err != nil {
		return fmt.Errorf("photo %s missing from backup: %w", name, err)
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to stage photo %s: %w", name, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("failed to stage photo %s: %w", name, err)
	}
	return nil
}
