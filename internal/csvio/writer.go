package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"omac/internal/domain"
)

// WriteFigures exports figures as collection CSV in the canonical column
// order, header first.
func WriteFigures(w io.Writer, figures []domain.Figure) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range figures {
		if err := cw.Write(FigureRecord(&figures[i])); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FigureRecord renders one figure as a CSV row in canonical column order.
func FigureRecord(f *domain.Figure) []string {
	return []string{
		f.Name,
		domain.StrOrEmpty(f.Series),
		domain.StrOrEmpty(f.Wave),
		domain.StrOrEmpty(f.Manufacturer),
		intCell(f.Year),
		domain.StrOrEmpty(f.Scale),
		domain.StrOrEmpty(f.Condition),
		floatCell(f.PurchasePrice),
		floatCell(f.CurrentValue),
		domain.StrOrEmpty(f.Location),
		domain.StrOrEmpty(f.Notes),
		f.CreatedAt.Format(domain.TimeFormat),
		f.UpdatedAt.Format(domain.TimeFormat),
	}
}

func intCell(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func floatCell(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
