// Package photos handles photo file I/O for the collection directory.
// Incoming files are copied in; existing files are never overwritten.
// Name collisions are resolved by appending a numeric suffix before the
// extension.
package photos

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Storage manages the destination photo directory.
type Storage struct {
	dir string
}

// New returns a Storage rooted at dir. The directory is not created until
// EnsureDir is called.
func New(dir string) *Storage {
	return &Storage{dir: dir}
}

// Dir returns the photo directory path.
func (s *Storage) Dir() string {
	return s.dir
}

// EnsureDir creates the photo directory if it doesn't exist.
func (s *Storage) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create photo directory: %w", err)
	}
	return nil
}

// Exists reports whether a file with the given name exists in the directory.
func (s *Storage) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil
}

// Copy copies src into the photo directory under desiredName, renaming on
// collision. It returns the final (possibly renamed) file name.
func (s *Storage) Copy(src, desiredName string) (string, error) {
	finalName := s.resolveCollision(desiredName)

	srcFile, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open source photo: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(filepath.Join(s.dir, finalName))
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		os.Remove(dstFile.Name())
		return "", fmt.Errorf("failed to copy photo: %w", err)
	}
	return finalName, nil
}

// Delete removes a photo file. Missing files are not an error.
func (s *Storage) Delete(name string) error {
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// resolveCollision returns desiredName if free, otherwise base_1.ext,
// base_2.ext, ... until a free name is found.
func (s *Storage) resolveCollision(desiredName string) string {
	if !s.Exists(desiredName) {
		return desiredName
	}

	ext := filepath.Ext(desiredName)
	base := strings.TrimSuffix(desiredName, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if !s.Exists(candidate) {
			return candidate
		}
	}
}

// Checksum returns the hex SHA-256 of a file's contents.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// DetectMimeType attempts to detect MIME type from filename extension.
// Falls back to application/octet-stream if unknown.
func DetectMimeType(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return "application/octet-stream"
	}

	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		return "application/octet-stream"
	}

	if idx := strings.IndexByte(mimeType, ';'); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	return mimeType
}

// IsImageFile reports whether a filename carries a recognized image
// extension.
func IsImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp":
		return true
	}
	return false
}
