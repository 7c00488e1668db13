package merge

import (
	"time"

	"omac/internal/domain"
)

// Action is the outcome a resolution prescribes for one row.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
)

// Resolution is the plan for one incoming row: what to do with the record
// and which photos to import. Figure is the record to insert or update (nil
// for a plain skip); Photos go to the figure regardless of Action when the
// policy imports them.
type Resolution struct {
	Action Action
	Figure *domain.Figure
	Photos []domain.DraftPhoto
}

// Resolve decides what to do with a draft given its match (nil when the
// detector found none) and the active policy. now stamps UpdatedAt on
// overwrites so every record touched in one run carries the run's timestamp.
func Resolve(draft *domain.DraftFigure, existing *domain.Figure, policy Policy, now time.Time) Resolution {
	if existing == nil {
		return Resolution{
			Action: ActionInsert,
			Figure: draftToFigure(draft, now),
			Photos: draft.Photos,
		}
	}

	switch policy {
	case PolicyOverwrite:
		merged := *existing
		applyPresent(&merged, draft)
		merged.UpdatedAt = now
		return Resolution{Action: ActionUpdate, Figure: &merged, Photos: draft.Photos}
	case PolicyMergePhotos:
		return Resolution{Action: ActionSkip, Figure: existing, Photos: draft.Photos}
	default: // PolicySkip
		return Resolution{Action: ActionSkip}
	}
}

// draftToFigure materializes a new figure from a draft. Source timestamps
// are honored when present; otherwise the run timestamp is used.
func draftToFigure(d *domain.DraftFigure, now time.Time) *domain.Figure {
	f := &domain.Figure{
		Name:          d.Name,
		Series:        d.Series,
		Wave:          d.Wave,
		Manufacturer:  d.Manufacturer,
		Year:          d.Year,
		Scale:         d.Scale,
		Condition:     d.Condition,
		PurchasePrice: d.PurchasePrice,
		CurrentValue:  d.CurrentValue,
		Location:      d.Location,
		Notes:         d.Notes,
	}
	if d.CreatedAt != nil {
		f.CreatedAt = *d.CreatedAt
	} else {
		f.CreatedAt = now
	}
	if d.UpdatedAt != nil && !d.UpdatedAt.Before(f.CreatedAt) {
		f.UpdatedAt = *d.UpdatedAt
	} else {
		f.UpdatedAt = f.CreatedAt
	}
	return f
}

// applyPresent copies every present (non-nil) draft field onto the figure.
// Absent fields never erase existing values.
func applyPresent(f *domain.Figure, d *domain.DraftFigure) {
	if d.Name != "" {
		f.Name = d.Name
	}
	if d.Series != nil {
		f.Series = d.Series
	}
	if d.Wave != nil {
		f.Wave = d.Wave
	}
	if d.Manufacturer != nil {
		f.Manufacturer = d.Manufacturer
	}
	if d.Year != nil {
		f.Year = d.Year
	}
	if d.Scale != nil {
		f.Scale = d.Scale
	}
	if d.Condition != nil {
		f.Condition = d.Condition
	}
	if d.PurchasePrice != nil {
		f.PurchasePrice = d.PurchasePrice
	}
	if d.CurrentValue != nil {
		f.CurrentValue = d.CurrentValue
	}
	if d.Location != nil {
		f.Location = d.Location
	}
	if d.Notes != nil {
		f.Notes = d.Notes
	}
}
