package domain

import (
	"time"
)

// TimeFormat is the timestamp layout used in the database, CSV files,
// and backup archives.
const TimeFormat = "2006-01-02 15:04:05"

// Priority represents the priority of a wishlist item
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Figure represents an action figure in the collection
type Figure struct {
	UUID          string    `json:"uuid" db:"uuid"`
	Name          string    `json:"name" db:"name"`
	Series        *string   `json:"series,omitempty" db:"series"`
	Wave          *string   `json:"wave,omitempty" db:"wave"`
	Manufacturer  *string   `json:"manufacturer,omitempty" db:"manufacturer"`
	Year          *int      `json:"year,omitempty" db:"year"`
	Scale         *string   `json:"scale,omitempty" db:"scale"`
	Condition     *string   `json:"condition,omitempty" db:"condition"`
	PurchasePrice *float64  `json:"purchase_price,omitempty" db:"purchase_price"`
	CurrentValue  *float64  `json:"current_value,omitempty" db:"current_value"`
	Location      *string   `json:"location,omitempty" db:"location"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Photo represents a photo attached to a figure. Photos are owned by their
// figure; deleting the figure removes its photo rows (and files).
type Photo struct {
	UUID       string    `json:"uuid" db:"uuid"`
	FigureUUID string    `json:"figure_uuid" db:"figure_uuid"`
	FilePath   string    `json:"file_path" db:"file_path"`
	Caption    *string   `json:"caption,omitempty" db:"caption"`
	IsPrimary  bool      `json:"is_primary" db:"is_primary"`
	UploadDate time.Time `json:"upload_date" db:"upload_date"`
}

// WishlistItem represents a figure the collector wants but does not own.
// It carries the descriptive fields of a Figure minus value/location, plus
// a target price and priority.
type WishlistItem struct {
	UUID         string    `json:"uuid" db:"uuid"`
	Name         string    `json:"name" db:"name"`
	Series       *string   `json:"series,omitempty" db:"series"`
	Wave         *string   `json:"wave,omitempty" db:"wave"`
	Manufacturer *string   `json:"manufacturer,omitempty" db:"manufacturer"`
	Year         *int      `json:"year,omitempty" db:"year"`
	Scale        *string   `json:"scale,omitempty" db:"scale"`
	TargetPrice  *float64  `json:"target_price,omitempty" db:"target_price"`
	Priority     Priority  `json:"priority" db:"priority"`
	Notes        *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// DraftFigure is a parsed-but-not-yet-persisted candidate record produced by
// a merge source (CSV reader or backup archive). Optional fields are nil when
// absent in the source; absence is distinct from zero.
type DraftFigure struct {
	Name          string
	Series        *string
	Wave          *string
	Manufacturer  *string
	Year          *int
	Scale         *string
	Condition     *string
	PurchasePrice *float64
	CurrentValue  *float64
	Location      *string
	Notes         *string
	CreatedAt     *time.Time
	UpdatedAt     *time.Time
	Photos        []DraftPhoto
}

// DraftPhoto is a candidate photo carried by a draft figure. SourcePath
// points at a readable file outside destination storage.
type DraftPhoto struct {
	SourcePath string
	Caption    *string
	IsPrimary  bool
}

// ToFigure converts a wishlist item into a figure, dropping target price and
// priority. Used by wishlist promotion.
func (w *WishlistItem) ToFigure() *Figure {
	return &Figure{
		Name:         w.Name,
		Series:       w.Series,
		Wave:         w.Wave,
		Manufacturer: w.Manufacturer,
		Year:         w.Year,
		Scale:        w.Scale,
		Notes:        w.Notes,
	}
}

// StrPtr returns a pointer to s, or nil if s is empty.
// Empty text fields are stored as absent, never as blank strings.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StrOrEmpty dereferences an optional string field for display and key
// derivation, treating absent as "".
func StrOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
