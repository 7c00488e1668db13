package domain

import (
	"testing"
	"time"
)

func TestValidateName(t *testing.T) {
	if err := ValidateName("Iron Man"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
	if err := ValidateName(""); err == nil {
		t.Error("empty name accepted")
	}
	if err := ValidateName("   "); err == nil {
		t.Error("blank name accepted")
	}
}

func TestValidatePriority(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if err := ValidatePriority(p); err != nil {
			t.Errorf("valid priority %q rejected: %v", p, err)
		}
	}
	if err := ValidatePriority("urgent"); err == nil {
		t.Error("invalid priority accepted")
	}
}

func TestValidateYear(t *testing.T) {
	if err := ValidateYear(nil); err != nil {
		t.Errorf("absent year rejected: %v", err)
	}
	y := 1984
	if err := ValidateYear(&y); err != nil {
		t.Errorf("valid year rejected: %v", err)
	}
	y = 1776
	if err := ValidateYear(&y); err == nil {
		t.Error("out-of-range year accepted")
	}
}

func TestValidateTimestamp(t *testing.T) {
	ts, err := ValidateTimestamp("2024-06-01 13:45:00")
	if err != nil {
		t.Fatalf("valid timestamp rejected: %v", err)
	}
	if ts.Year() != 2024 || ts.Hour() != 13 {
		t.Errorf("timestamp parsed incorrectly: %v", ts)
	}
	if _, err := ValidateTimestamp("2024-06-01T13:45:00Z"); err == nil {
		t.Error("RFC3339 timestamp accepted, expected canonical layout only")
	}
}

func TestValidateFigure(t *testing.T) {
	now := time.Now()
	f := &Figure{Name: "Iron Man", CreatedAt: now, UpdatedAt: now}
	if err := ValidateFigure(f); err != nil {
		t.Errorf("valid figure rejected: %v", err)
	}

	f.UpdatedAt = now.Add(-time.Hour)
	if err := ValidateFigure(f); err == nil {
		t.Error("figure with updated_at before created_at accepted")
	}

	f.UpdatedAt = now
	f.Name = ""
	if err := ValidateFigure(f); err == nil {
		t.Error("figure with empty name accepted")
	}

	f.Name = "Iron Man"
	bad := -5.0
	f.PurchasePrice = &bad
	if err := ValidateFigure(f); err == nil {
		t.Error("figure with negative purchase price accepted")
	}
}

func TestWishlistToFigure(t *testing.T) {
	series := "Marvel Legends"
	price := 29.99
	w := &WishlistItem{
		Name:        "Doctor Doom",
		Series:      &series,
		TargetPrice: &price,
		Priority:    PriorityHigh,
	}

	f := w.ToFigure()
	if f.Name != "Doctor Doom" {
		t.Errorf("name not carried over: %q", f.Name)
	}
	if StrOrEmpty(f.Series) != "Marvel Legends" {
		t.Errorf("series not carried over: %q", StrOrEmpty(f.Series))
	}
	if f.PurchasePrice != nil || f.CurrentValue != nil || f.Location != nil {
		t.Error("price/location fields must be dropped on promotion")
	}
}

func TestStrPtr(t *testing.T) {
	if StrPtr("") != nil {
		t.Error("empty string should map to absent")
	}
	if p := StrPtr("x"); p == nil || *p != "x" {
		t.Error("non-empty string should round-trip")
	}
}
