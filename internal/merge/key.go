package merge

import (
	"fmt"
	"strings"

	"omac/internal/domain"
)

// Key identifies a figure for duplicate detection: case-insensitive,
// whitespace-trimmed (name, series, manufacturer). Absent series or
// manufacturer normalizes to the empty string, so "Optimus Prime" with no
// series matches another "Optimus Prime" with no series.
type Key struct {
	Name         string
	Series       string
	Manufacturer string
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// KeyOf derives the duplicate-detection key for any record shape.
func KeyOf(name string, series, manufacturer *string) Key {
	return Key{
		Name:         normalize(name),
		Series:       normalize(domain.StrOrEmpty(series)),
		Manufacturer: normalize(domain.StrOrEmpty(manufacturer)),
	}
}

// Detector indexes a snapshot of the destination collection by Key and
// answers "does an equivalent figure already exist?". Figures inserted
// during a run are added to the index so later identical rows in the same
// input match them.
type Detector struct {
	byKey map[Key][]*domain.Figure
}

// NewDetector builds a detector over the given snapshot.
func NewDetector(figures []domain.Figure) *Detector {
	d := &Detector{byKey: make(map[Key][]*domain.Figure, len(figures))}
	for i := range figures {
		d.Add(&figures[i])
	}
	return d
}

// Add indexes one more figure.
func (d *Detector) Add(f *domain.Figure) {
	k := KeyOf(f.Name, f.Series, f.Manufacturer)
	d.byKey[k] = append(d.byKey[k], f)
}

// Match returns the existing figure for the draft's key, if any. When the
// destination holds several figures under one key (possible if records were
// added outside the engine), the earliest-created one wins and a warning
// describing the ambiguity is returned.
func (d *Detector) Match(draft *domain.DraftFigure) (*domain.Figure, string) {
	k := KeyOf(draft.Name, draft.Series, draft.Manufacturer)
	candidates := d.byKey[k]
	if len(candidates) == 0 {
		return nil, ""
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.CreatedAt.Before(best.CreatedAt) {
			best = c
		}
	}

	warning := ""
	if len(candidates) > 1 {
		warning = fmt.Sprintf("%d existing figures match %q / %q / %q; using earliest (created %s)",
			len(candidates), draft.Name, domain.StrOrEmpty(draft.Series),
			domain.StrOrEmpty(draft.Manufacturer), best.CreatedAt.Format(domain.TimeFormat))
	}
	return best, warning
}
