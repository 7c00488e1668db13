// Package merge imports figure records from an external source (CSV file or
// backup archive) into a destination collection, detecting duplicates and
// resolving conflicts under a caller-chosen policy.
package merge

import (
	"fmt"

	"omac/internal/domain"
)

// Policy selects how a matched (duplicate) incoming record is handled.
type Policy string

const (
	// PolicySkip leaves the existing record untouched and imports nothing
	// from the matched row.
	PolicySkip Policy = "skip"
	// PolicyOverwrite applies the incoming record's present fields onto the
	// existing record. Absent fields never erase existing values.
	PolicyOverwrite Policy = "overwrite"
	// PolicyMergePhotos leaves the existing record's fields untouched but
	// imports the incoming record's photos.
	PolicyMergePhotos Policy = "merge-photos"
)

// ParsePolicy converts a user-supplied policy name.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicySkip, PolicyOverwrite, PolicyMergePhotos:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown merge policy %q (want skip, overwrite, or merge-photos)", s)
}

// RowError records a source row that could not be imported. Row is the
// 1-based data row number (the header row is not counted).
type RowError struct {
	Row    int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// Rename records a photo file that had to be stored under a different name
// because the desired name was taken.
type Rename struct {
	OriginalName string
	FinalName    string
}

// Report summarizes an Apply run.
type Report struct {
	Analyzed     int
	Inserted     int
	Updated      int
	Skipped      int
	RowErrors    []RowError
	PhotoRenames []Rename
	Warnings     []string
}

// Preview summarizes an Analyze pass. Analyze never mutates the destination,
// so a Preview can be produced repeatedly with identical results.
type Preview struct {
	Analyzed  int
	New       int
	Matched   int
	RowErrors []RowError
	// Conflicts pairs each matched draft with the existing figure it would
	// collide with, for diff display.
	Conflicts []Conflict
}

// Conflict is a matched (incoming, existing) pair found during Analyze.
type Conflict struct {
	Row      int
	Draft    *domain.DraftFigure
	Existing *domain.Figure
}

// Source yields draft figures one row at a time. Next returns exactly one of
// a draft or a row error per call, and io.EOF when exhausted. Reset rewinds
// the source so it can be read again.
type Source interface {
	Next() (*domain.DraftFigure, *RowError, error)
	Reset() error
}

// Destination is the record surface the engine writes to.
type Destination interface {
	ListAll() ([]domain.Figure, error)
	Insert(*domain.Figure) error
	Update(*domain.Figure) error
	AddPhoto(*domain.Photo) error
}

// FileStore is the photo file surface the engine copies into. Copy must
// never overwrite an existing file; it resolves name collisions itself and
// returns the final stored name.
type FileStore interface {
	Copy(src, desiredName string) (string, error)
	Exists(name string) bool
}

// DestinationUnavailableError is the only fatal error class of Apply: the
// destination could not be read at the start of the run.
type DestinationUnavailableError struct {
	Err error
}

func (e *DestinationUnavailableError) Error() string {
	return fmt.Sprintf("destination unavailable: %v", e.Err)
}

func (e *DestinationUnavailableError) Unwrap() error {
	return e.Err
}
