package domain

import (
	"fmt"
	"strings"
	"time"
)

// ValidateName validates a figure or wishlist name. Names are required and
// may not be blank.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required and may not be empty")
	}
	return nil
}

// ValidatePriority validates a wishlist priority
func ValidatePriority(p Priority) error {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return nil
	default:
		return fmt.Errorf("invalid priority: must be one of: low, medium, high")
	}
}

// ValidateYear validates a release year if present
func ValidateYear(year *int) error {
	if year == nil {
		return nil
	}
	if *year < 1900 || *year > 2100 {
		return fmt.Errorf("invalid year: must be between 1900 and 2100")
	}
	return nil
}

// ValidatePrice validates a price field if present
func ValidatePrice(price *float64) error {
	if price == nil {
		return nil
	}
	if *price < 0 {
		return fmt.Errorf("invalid price: must not be negative")
	}
	return nil
}

// ValidateTimestamp validates and parses a timestamp in the canonical
// "YYYY-MM-DD HH:MM:SS" layout.
func ValidateTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp format: expected %s", TimeFormat)
	}
	return t, nil
}

// ValidateFigure checks the invariants of a figure record: non-empty name
// and updated_at >= created_at.
func ValidateFigure(f *Figure) error {
	if err := ValidateName(f.Name); err != nil {
		return err
	}
	if err := ValidateYear(f.Year); err != nil {
		return err
	}
	if err := ValidatePrice(f.PurchasePrice); err != nil {
		return fmt.Errorf("purchase_price: %w", err)
	}
	if err := ValidatePrice(f.CurrentValue); err != nil {
		return fmt.Errorf("current_value: %w", err)
	}
	if !f.UpdatedAt.IsZero() && !f.CreatedAt.IsZero() && f.UpdatedAt.Before(f.CreatedAt) {
		return fmt.Errorf("updated_at must not precede created_at")
	}
	return nil
}
