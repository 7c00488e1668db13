// Package backup creates and restores zip archives of the whole collection:
// figure records, photo metadata, and photo files. A backup from another
// installation can also be opened as a merge source instead of restored
// wholesale.
package backup

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"omac/internal/csvio"
	"omac/internal/domain"
	"omac/internal/photos"
	"omac/internal/store"
)

// Archive member names.
const (
	figuresEntry  = "figures.csv"
	photosEntry   = "photos.csv"
	photosPrefix  = "photos/"
	manifestEntry = "manifest.yaml"
)

// Manifest describes an archive's contents.
type Manifest struct {
	App         string    `yaml:"app"`
	FormatVer   int       `yaml:"format_version"`
	CreatedAt   time.Time `yaml:"created_at"`
	FigureCount int       `yaml:"figure_count"`
	PhotoCount  int       `yaml:"photo_count"`
}

// figuresHeader is the figures.csv header: the collection columns prefixed
// with uuid so photo metadata can be re-linked on restore. The uuid column
// is ignored when an archive is fed to the merge engine.
var figuresHeader = append([]string{"uuid"}, csvio.Columns...)

var photosHeader = []string{"figure_uuid", "file_path", "caption", "is_primary", "upload_date"}

// Create writes a backup of the collection to outPath.
func Create(s *store.Store, photoDir *photos.Storage, outPath string) (*Manifest, error) {
	figures, err := s.Figures.List("created", "asc")
	if err != nil {
		return nil, fmt.Errorf("failed to list figures: %w", err)
	}
	photoRows, err := s.Photos.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup file: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	if err := writeFiguresEntry(zw, figures); err != nil {
		return nil, err
	}
	if err := writePhotosEntry(zw, photoRows); err != nil {
		return nil, err
	}
	for _, p := range photoRows {
		if err := addPhotoFile(zw, photoDir, p.FilePath); err != nil {
			return nil, err
		}
	}

	manifest := &Manifest{
		App:         "omac",
		FormatVer:   1,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		FigureCount: len(figures),
		PhotoCount:  len(photoRows),
	}
	if err := writeManifest(zw, manifest); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize backup: %w", err)
	}
	return manifest, nil
}

// Restore replaces the collection with an archive's contents: existing
// figures, photo rows, and photo files are removed first. Archive paths are
// validated before any destructive step runs.
func Restore(archivePath string, s *store.Store, photoDir *photos.Storage) (*Manifest, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup: %w", err)
	}
	defer zr.Close()

	if err := validateArchive(&zr.Reader); err != nil {
		return nil, err
	}
	manifest, err := readManifest(&zr.Reader)
	if err != nil {
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

	if err := clearCollection(s, photoDir); err != nil {
		return nil, err
	}

	for i := range figures {
		if err := s.Figures.Create(&figures[i]); err != nil {
			return nil, fmt.Errorf("failed to restore figure %q: %w", figures[i].Name, err)
		}
	}

	if err := photoDir.EnsureDir(); err != nil {
		return nil, err
	}
	for i := range photoRows {
		p := &photoRows[i]
		if err := extractPhotoFile(&zr.Reader, photoDir, p.FilePath); err != nil {
			return nil, err
		}
		if err := s.Photos.Add(p); err != nil {
			return nil, fmt.Errorf("failed to restore photo %s: %w", p.FilePath, err)
		}
	}
	return manifest, nil
}

// ReadManifest returns an archive's manifest without touching anything else.
func ReadManifest(archivePath string) (*Manifest, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup: %w", err)
	}
	defer zr.Close()
	return readManifest(&zr.Reader)
}

// validateArchive rejects archives with absolute or parent-escaping member
// paths before anything is extracted.
func validateArchive(zr *zip.Reader) error {
	foundFigures := false
	for _, f := range zr.File {
		name := f.Name
		if path.IsAbs(name) || strings.HasPrefix(name, "/") {
			return fmt.Errorf("backup contains absolute path %q", name)
		}
		for _, part := range strings.Split(name, "/") {
			if part == ".." {
				return fmt.Errorf("backup contains unsafe path %q", name)
			}
		}
		if name == figuresEntry {
			foundFigures = true
		}
	}
	if !foundFigures {
		return fmt.Errorf("backup has no %s entry", figuresEntry)
	}
	return nil
}

func clearCollection(s *store.Store, photoDir *photos.Storage) error {
	figures, err := s.Figures.List("name", "asc")
	if err != nil {
		return fmt.Errorf("failed to list figures: %w", err)
	}
	for i := range figures {
		paths, err := s.Figures.Delete(figures[i].UUID)
		if err != nil {
			return fmt.Errorf("failed to clear figure %q: %w", figures[i].Name, err)
		}
		for _, p := range paths {
			if err := photoDir.Delete(p); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeFiguresEntry(zw *zip.Writer, figures []domain.Figure) error {
	w, err := zw.Create(figuresEntry)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", figuresEntry, err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(figuresHeader); err != nil {
		return err
	}
	for i := range figures {
		f := &figures[i]
		row := append([]string{f.UUID}, csvio.FigureRecord(f)...)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readFiguresEntry(zr *zip.Reader) ([]domain.Figure, error) {
	rc, err := openEntry(zr, figuresEntry)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	cr := csv.NewReader(rc)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", figuresEntry, err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["uuid"]; !ok {
		return nil, fmt.Errorf("%s has no uuid column", figuresEntry)
	}

	var figures []domain.Figure
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed %s: %w", figuresEntry, err)
		}
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		f := domain.Figure{
			UUID:          get("uuid"),
			Name:          get("name"),
			Series:        domain.StrPtr(get("series")),
			Wave:          domain.StrPtr(get("wave")),
			Manufacturer:  domain.StrPtr(get("manufacturer")),
			Scale:         domain.StrPtr(get("scale")),
			Condition:     domain.StrPtr(get("condition")),
			Location:      domain.StrPtr(get("location")),
			Notes:         domain.StrPtr(get("notes")),
		}
		if n, err := strconv.Atoi(get("year")); err == nil {
			f.Year = &n
		}
		if v, err := strconv.ParseFloat(get("purchase_price"), 64); err == nil {
			f.PurchasePrice = &v
		}
		if v, err := strconv.ParseFloat(get("current_value"), 64); err == nil {
			f.CurrentValue = &v
		}
		if t, err := time.ParseInLocation(domain.TimeFormat, get("created_at"), time.UTC); err == nil {
			f.CreatedAt = t
		}
		if t, err := time.ParseInLocation(domain.TimeFormat, get("updated_at"), time.UTC); err == nil {
			f.UpdatedAt = t
		}
		figures = append(figures, f)
	}
	return figures, nil
}

func writePhotosEntry(zw *zip.Writer, photoRows []domain.Photo) error {
	w, err := zw.Create(photosEntry)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", photosEntry, err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(photosHeader); err != nil {
		return err
	}
	for i := range photoRows {
		p := &photoRows[i]
		primary := "0"
		if p.IsPrimary {
			primary = "1"
		}
		row := []string{
			p.FigureUUID, p.FilePath, domain.StrOrEmpty(p.Caption),
			primary, p.UploadDate.Format(domain.TimeFormat),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readPhotosEntry(zr *zip.Reader) ([]domain.Photo, error) {
	rc, err := openEntry(zr, photosEntry)
	if err != nil {
		// Archives without photos carry no photos.csv.
		return nil, nil
	}
	defer rc.Close()

	cr := csv.NewReader(rc)
	cr.TrimLeadingSpace = true
	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", photosEntry, err)
	}

	var photoRows []domain.Photo
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed %s: %w", photosEntry, err)
		}
		if len(record) < len(photosHeader) {
			return nil, fmt.Errorf("short row in %s", photosEntry)
		}
		p := domain.Photo{
			FigureUUID: record[0],
			FilePath:   record[1],
			Caption:    domain.StrPtr(record[2]),
			IsPrimary:  record[3] == "1",
		}
		if t, err := time.ParseInLocation(domain.TimeFormat, record[4], time.UTC); err == nil {
			p.UploadDate = t
		}
		photoRows = append(photoRows, p)
	}
	return photoRows, nil
}

func addPhotoFile(zw *zip.Writer, photoDir *photos.Storage, name string) error {
	src, err := os.Open(filepath.Join(photoDir.Dir(), name))
	if err != nil {
		return fmt.Errorf("failed to open photo %s: %w", name, err)
	}
	defer src.Close()

	w, err := zw.Create(photosPrefix + name)
	if err != nil {
		return fmt.Errorf("failed to add photo %s: %w", name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("failed to archive photo %s: %w", name, err)
	}
	return nil
}

func extractPhotoFile(zr *zip.Reader, photoDir *photos.Storage, name string) error {
	rc, err := openEntry(zr, photosPrefix+name)
	if err != nil {
		return fmt.Errorf("photo %s missing from backup: %w", name, err)
	}
	defer rc.Close()

	dst, err := os.Create(filepath.Join(photoDir.Dir(), name))
	if err != nil {
		return fmt.Errorf("failed to extract photo %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, rc); err != nil {
		return fmt.Errorf("failed to extract photo %s: %w", name, err)
	}
	return nil
}

func writeManifest(zw *zip.Writer, m *Manifest) error {
	w, err := zw.Create(manifestEntry)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", manifestEntry, err)
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func readManifest(zr *zip.Reader) (*Manifest, error) {
	rc, err := openEntry(zr, manifestEntry)
	if err != nil {
		// Pre-manifest archives are still restorable.
		return &Manifest{App: "omac"}, nil
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

func openEntry(zr *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range zr.File {
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("entry %s not found", name)
}
