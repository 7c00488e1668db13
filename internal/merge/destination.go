package merge

import (
	"omac/internal/domain"
	"omac/internal/store"
)

// StoreDestination adapts the sqlite store to the engine's Destination
// surface. The photos.Storage type satisfies FileStore directly.
type StoreDestination struct {
	store *store.Store
}

// NewStoreDestination wraps a store for use as a merge destination.
func NewStoreDestination(s *store.Store) *StoreDestination {
	return &StoreDestination{store: s}
}

func (d *StoreDestination) ListAll() ([]domain.Figure, error) {
	return d.store.Figures.List("name", "asc")
}

func (d *StoreDestination) Insert(f *domain.Figure) error {
	return d.store.Figures.Create(f)
}

func (d *StoreDestination) Update(f *domain.Figure) error {
	return d.store.Figures.Update(f)
}

func (d *StoreDestination) AddPhoto(p *domain.Photo) error {
	return d.store.Photos.Add(p)
}
