package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"omac/internal/cli/appctx"
	"omac/internal/domain"
	"omac/internal/render"
)

var wishCmd = &cobra.Command{
	Use:   "wish",
	Short: "Manage the wishlist",
}

var wishAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a wishlist item",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runWishAdd),
}

var wishLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the wishlist, highest priority first",
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runWishLs),
}

var wishSetCmd = &cobra.Command{
	Use:   "set <item-uuid>",
	Short: "Update a wishlist item",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runWishSet),
}

var wishRmCmd = &cobra.Command{
	Use:   "rm <item-uuid>",
	Short: "Remove a wishlist item",
	Args:  cobra.ExactArgs(1),
	RunE:  appctx.WithApp(appctx.DefaultOptions(), runWishRm),
}

var wishPromoteCmd = &cobra.Command{
	Use:   "promote <item-uuid>",
	Short: "Convert a wishlist item into an owned figure",
	Long: `Moves an item from the wishlist into the collection. Target price and
priority are dropped; record the actual purchase price with 'omac set'.`,
	Args: cobra.ExactArgs(1),
	RunE: appctx.WithApp(appctx.DefaultOptions(), runWishPromote),
}

var (
	wishAddSeries       string
	wishAddWave         string
	wishAddManufacturer string
	wishAddYear         int
	wishAddScale        string
	wishAddTargetPrice  float64
	wishAddPriority     string
	wishAddNotes        string
	wishLsJSON          bool

	wishSetTargetPrice float64
	wishSetPriority    string
	wishSetNotes       string
)

func init() {
	rootCmd.AddCommand(wishCmd)
	wishCmd.AddCommand(wishAddCmd, wishLsCmd, wishSetCmd, wishRmCmd, wishPromoteCmd)

	wishAddCmd.Flags().StringVar(&wishAddSeries, "series", "", "Product line or series")
	wishAddCmd.Flags().StringVar(&wishAddWave, "wave", "", "Wave within the series")
	wishAddCmd.Flags().StringVar(&wishAddManufacturer, "manufacturer", "", "Manufacturer")
	wishAddCmd.Flags().IntVar(&wishAddYear, "year", 0, "Release year")
	wishAddCmd.Flags().StringVar(&wishAddScale, "scale", "", "Scale (e.g. 1:12)")
	wishAddCmd.Flags().Float64Var(&wishAddTargetPrice, "target", 0, "Target price")
	wishAddCmd.Flags().StringVar(&wishAddPriority, "priority", "medium", "Priority (low, medium, high)")
	wishAddCmd.Flags().StringVar(&wishAddNotes, "notes", "", "Free-form notes")

	wishLsCmd.Flags().BoolVar(&wishLsJSON, "json", false, "Output as JSON")

	wishSetCmd.Flags().Float64Var(&wishSetTargetPrice, "target", 0, "Target price")
	wishSetCmd.Flags().StringVar(&wishSetPriority, "priority", "", "Priority (low, medium, high)")
	wishSetCmd.Flags().StringVar(&wishSetNotes, "notes", "", "Free-form notes")
}

func runWishAdd(app *appctx.App, cmd *cobra.Command, args []string) error {
	w := &domain.WishlistItem{
		Name:         args[0],
		Series:       domain.StrPtr(wishAddSeries),
		Wave:         domain.StrPtr(wishAddWave),
		Manufacturer: domain.StrPtr(wishAddManufacturer),
		Scale:        domain.StrPtr(wishAddScale),
		Notes:        domain.StrPtr(wishAddNotes),
		Priority:     domain.Priority(strings.ToLower(wishAddPriority)),
	}
	if cmd.Flags().Changed("year") {
		y := wishAddYear
		w.Year = &y
	}
	if cmd.Flags().Changed("target") {
		t := wishAddTargetPrice
		w.TargetPrice = &t
	}

	if err := app.Store.Wishlist.Add(w); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wishlisted %s (%s, %s priority)\n",
		w.Name, shortUUID(w.UUID), w.Priority)
	return nil
}

func runWishLs(app *appctx.App, cmd *cobra.Command, args []string) error {
	items, err := app.Store.Wishlist.List()
	if err != nil {
		return err
	}

	r := render.NewRenderer(cmd.OutOrStdout(), render.Options{Format: render.FormatTable})
	if wishLsJSON {
		return r.RenderJSON(items)
	}

	headers := []string{"UUID", "Name", "Series", "Manufacturer", "Target", "Priority"}
	var rows [][]string
	for i := range items {
		w := &items[i]
		rows = append(rows, []string{
			shortUUID(w.UUID), w.Name, orDash(w.Series), orDash(w.Manufacturer),
			priceOrDash(w.TargetPrice), string(w.Priority),
		})
	}
	return r.RenderTable(headers, rows)
}

func runWishSet(app *appctx.App, cmd *cobra.Command, args []string) error {
	w, err := app.Store.Wishlist.Get(args[0])
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("target") {
		t := wishSetTargetPrice
		w.TargetPrice = &t
	}
	if cmd.Flags().Changed("priority") {
		w.Priority = domain.Priority(strings.ToLower(wishSetPriority))
	}
	if cmd.Flags().Changed("notes") {
		w.Notes = domain.StrPtr(wishSetNotes)
	}

	if err := app.Store.Wishlist.Update(w); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", w.Name)
	return nil
}

func runWishRm(app *appctx.App, cmd *cobra.Command, args []string) error {
	if err := app.Store.Wishlist.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Removed wishlist item")
	return nil
}

func runWishPromote(app *appctx.App, cmd *cobra.Command, args []string) error {
	f, err := app.Store.Wishlist.Promote(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Promoted %s to the collection (%s)\n",
		f.Name, shortUUID(f.UUID))
	return nil
}
