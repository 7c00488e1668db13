package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"omac/internal/cli/appctx"
	"omac/internal/domain"
	"omac/internal/render"
)

var showCmd = &cobra.Command{
	Use:   "show <figure>",
	Short: "Show a figure's details and photos",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runShow),
}

var showJSON bool

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
}

func runShow(app *appctx.App, cmd *cobra.Command, args []string) error {
	f, err := resolveFigure(app, args[0])
	if err != nil {
		return err
	}
	figPhotos, err := app.Store.Photos.ListForFigure(f.UUID)
	if err != nil {
		return err
	}

	if showJSON {
		r := render.NewRenderer(cmd.OutOrStdout(), render.Options{Format: render.FormatJSON})
		return r.RenderJSON(struct {
			Figure *domain.Figure `json:"figure"`
			Photos []domain.Photo `json:"photos"`
		}{f, figPhotos})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", f.Name)
	fmt.Fprintf(out, "  UUID:         %s\n", f.UUID)
	fmt.Fprintf(out, "  Series:       %s\n", orDash(f.Series))
	fmt.Fprintf(out, "  Wave:         %s\n", orDash(f.Wave))
	fmt.Fprintf(out, "  Manufacturer: %s\n", orDash(f.Manufacturer))
	fmt.Fprintf(out, "  Year:         %s\n", intOrDash(f.Year))
	fmt.Fprintf(out, "  Scale:        %s\n", orDash(f.Scale))
	fmt.Fprintf(out, "  Condition:    %s\n", orDash(f.Condition))
	fmt.Fprintf(out, "  Price:        %s\n", priceOrDash(f.PurchasePrice))
	fmt.Fprintf(out, "  Value:        %s\n", priceOrDash(f.CurrentValue))
	fmt.Fprintf(out, "  Location:     %s\n", orDash(f.Location))
	fmt.Fprintf(out, "  Notes:        %s\n", orDash(f.Notes))
	fmt.Fprintf(out, "  Added:        %s\n", f.CreatedAt.Format(domain.TimeFormat))
	fmt.Fprintf(out, "  Updated:      %s\n", f.UpdatedAt.Format(domain.TimeFormat))

	if len(figPhotos) > 0 {
		fmt.Fprintf(out, "  Photos (%d):\n", len(figPhotos))
		for _, p := range figPhotos {
			marker := " "
			if p.IsPrimary {
				marker = "*"
			}
			fmt.Fprintf(out, "   %s %s  %s  %s\n", marker, shortUUID(p.UUID), p.FilePath,
				orDash(p.Caption))
		}
	}
	return nil
}
