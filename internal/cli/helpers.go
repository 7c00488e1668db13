package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"omac/internal/cli/appctx"
	"omac/internal/domain"
)

// resolveFigure finds a figure by UUID, UUID prefix, or exact name. A name
// matching several figures is an error listing the candidates.
func resolveFigure(app *appctx.App, ref string) (*domain.Figure, error) {
	if f, err := app.Store.Figures.Get(ref); err == nil {
		return f, nil
	}

	figures, err := app.Store.Figures.List("name", "asc")
	if err != nil {
		return nil, err
	}

	var matches []*domain.Figure
	for i := range figures {
		f := &figures[i]
		if strings.HasPrefix(f.UUID, ref) || strings.EqualFold(f.Name, ref) {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no figure matches %q", ref)
	case 1:
		return matches[0], nil
	}

	var names []string
	for _, m := range matches {
		names = append(names, fmt.Sprintf("%s (%s)", m.Name, shortUUID(m.UUID)))
	}
	return nil, fmt.Errorf("%q is ambiguous: %s", ref, strings.Join(names, ", "))
}

func shortUUID(u string) string {
	if len(u) > 8 {
		return u[:8]
	}
	return u
}

func orDash(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

func intOrDash(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}

func priceOrDash(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *p)
}

// figureFlags is the shared flag set of add, set, and wish add/set. Each
// flag only takes effect when changed, so set never clobbers fields the
// user didn't mention.
type figureFlags struct {
	series        string
	wave          string
	manufacturer  string
	year          int
	scale         string
	condition     string
	purchasePrice float64
	currentValue  float64
	location      string
	notes         string
}

func (ff *figureFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ff.series, "series", "", "Product line or series")
	cmd.Flags().StringVar(&ff.wave, "wave", "", "Wave within the series")
	cmd.Flags().StringVar(&ff.manufacturer, "manufacturer", "", "Manufacturer")
	cmd.Flags().IntVar(&ff.year, "year", 0, "Release year")
	cmd.Flags().StringVar(&ff.scale, "scale", "", "Scale (e.g. 1:12)")
	cmd.Flags().StringVar(&ff.condition, "condition", "", "Condition")
	cmd.Flags().Float64Var(&ff.purchasePrice, "price", 0, "Purchase price")
	cmd.Flags().Float64Var(&ff.currentValue, "value", 0, "Current value")
	cmd.Flags().StringVar(&ff.location, "location", "", "Storage location")
	cmd.Flags().StringVar(&ff.notes, "notes", "", "Free-form notes")
}

// apply copies every changed flag onto the figure. An explicitly empty
// string clears the field.
func (ff *figureFlags) apply(cmd *cobra.Command, f *domain.Figure) {
	if cmd.Flags().Changed("series") {
		f.Series = domain.StrPtr(ff.series)
	}
	if cmd.Flags().Changed("wave") {
		f.Wave = domain.StrPtr(ff.wave)
	}
	if cmd.Flags().Changed("manufacturer") {
		f.Manufacturer = domain.StrPtr(ff.manufacturer)
	}
	if cmd.Flags().Changed("year") {
		y := ff.year
		f.Year = &y
	}
	if cmd.Flags().Changed("scale") {
		f.Scale = domain.StrPtr(ff.scale)
	}
	if cmd.Flags().Changed("condition") {
		f.Condition = domain.StrPtr(ff.condition)
	}
	if cmd.Flags().Changed("price") {
		p := ff.purchasePrice
		f.PurchasePrice = &p
	}
	if cmd.Flags().Changed("value") {
		v := ff.currentValue
		f.CurrentValue = &v
	}
	if cmd.Flags().Changed("location") {
		f.Location = domain.StrPtr(ff.location)
	}
	if cmd.Flags().Changed("notes") {
		f.Notes = domain.StrPtr(ff.notes)
	}
}

func figureRows(figures []domain.Figure) ([]string, [][]string) {
	headers := []string{"UUID", "Name", "Series", "Manufacturer", "Year", "Condition", "Value"}
	var rows [][]string
	for i := range figures {
		f := &figures[i]
		value := f.CurrentValue
		if value == nil {
			value = f.PurchasePrice
		}
		rows = append(rows, []string{
			shortUUID(f.UUID),
			f.Name,
			orDash(f.Series),
			orDash(f.Manufacturer),
			intOrDash(f.Year),
			orDash(f.Condition),
			priceOrDash(value),
		})
	}
	return headers, rows
}
