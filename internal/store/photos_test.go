package store

import (
	"testing"

	"omac/internal/domain"
)

func TestPhotoAddDemotesPrimary(t *testing.T) {
	s := newTestStore(t)

	f := &domain.Figure{Name: "Iron Man"}
	if err := s.Figures.Create(f); err != nil {
		t.Fatal(err)
	}

	first := &domain.Photo{FigureUUID: f.UUID, FilePath: "photos/a.jpg", IsPrimary: true}
	if err := s.Photos.Add(first); err != nil {
		t.Fatal(err)
	}
	second := &domain.Photo{FigureUUID: f.UUID, FilePath: "photos/b.jpg", IsPrimary: true}
	if err := s.Photos.Add(second); err != nil {
		t.Fatal(err)
	}

	photos, err := s.Photos.ListForFigure(f.UUID)
	if err != nil {
		t.Fatal(err)
	}
	primaries := 0
	for _, p := range photos {
		if p.IsPrimary {
			primaries++
			if p.UUID != second.UUID {
				t.Errorf("expected latest photo to be primary, got %s", p.FilePath)
			}
		}
	}
	if primaries != 1 {
		t.Errorf("expected exactly one primary photo, got %d", primaries)
	}
}

func TestPhotoSetPrimary(t *testing.T) {
	s := newTestStore(t)

	f := &domain.Figure{Name: "Iron Man"}
	if err := s.Figures.Create(f); err != nil {
		t.Fatal(err)
	}

	a := &domain.Photo{FigureUUID: f.UUID, FilePath: "photos/a.jpg", IsPrimary: true}
	b := &domain.Photo{FigureUUID: f.UUID, FilePath: "photos/b.jpg"}
	if err := s.Photos.Add(a); err != nil {
		t.Fatal(err)
	}
	if err := s.Photos.Add(b); err != nil {
		t.Fatal(err)
	}

	if err := s.Photos.SetPrimary(f.UUID, b.UUID); err != nil {
		t.Fatalf("SetPrimary failed: %v", err)
	}

	photos, err := s.Photos.ListForFigure(f.UUID)
	if err != nil {
		t.Fatal(err)
	}
	if photos[0].UUID != b.UUID || !photos[0].IsPrimary {
		t.Error("expected b to be the primary photo, listed first")
	}
	for _, p := range photos[1:] {
		if p.IsPrimary {
			t.Error("expected a single primary photo")
		}
	}
}

func TestPhotoDeleteReturnsPath(t *testing.T) {
	s := newTestStore(t)

	f := &domain.Figure{Name: "Iron Man"}
	if err := s.Figures.Create(f); err != nil {
		t.Fatal(err)
	}
	p := &domain.Photo{FigureUUID: f.UUID, FilePath: "photos/a.jpg"}
	if err := s.Photos.Add(p); err != nil {
		t.Fatal(err)
	}

	path, err := s.Photos.Delete(p.UUID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if path != "photos/a.jpg" {
		t.Errorf("expected deleted path, got %q", path)
	}

	if _, err := s.Photos.Delete(p.UUID); err == nil {
		t.Error("expected error deleting missing photo")
	}
}
