package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"omac/internal/backup"
	"omac/internal/cli/appctx"
	"omac/internal/csvio"
	"omac/internal/domain"
	"omac/internal/imaging"
	"omac/internal/merge"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a CSV file or backup archive into the collection",
	Long: `Imports figure records from a collection CSV export or a backup zip.
Records matching an existing figure (same name, series, and manufacturer,
case-insensitive) are handled per --policy:

  skip          keep the existing record, import nothing from the row
  overwrite     apply the row's present fields; absent fields never erase
  merge-photos  keep the record's fields, import the row's photos

Rows that cannot be imported are reported and do not stop the run.`,
	Args: cobra.ExactArgs(1),
	RunE: appctx.WithApp(appctx.DefaultOptions(), runImport),
}

var (
	importPolicy  string
	importAnalyze bool
	importDiff    bool
	importQuiet   bool
)

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importPolicy, "policy", "skip", "Duplicate policy (skip, overwrite, merge-photos)")
	importCmd.Flags().BoolVar(&importAnalyze, "analyze", false, "Preview without changing anything")
	importCmd.Flags().BoolVar(&importDiff, "diff", false, "With --analyze, show a field diff for each conflict")
	importCmd.Flags().BoolVarP(&importQuiet, "quiet", "q", false, "Suppress progress output")
}

func runImport(app *appctx.App, cmd *cobra.Command, args []string) error {
	policy, err := merge.ParsePolicy(importPolicy)
	if err != nil {
		return err
	}

	src, closeSrc, err := openSource(args[0])
	if err != nil {
		return err
	}
	defer closeSrc()

	if err := app.Photos.EnsureDir(); err != nil {
		return err
	}
	engine := merge.NewEngine(merge.NewStoreDestination(app.Store), app.Photos)
	engine.SetThumbnailer(func(name string) error {
		_, err := imaging.Thumbnail(app.Photos.Dir(), name)
		return err
	})

	if importAnalyze {
		return runImportAnalyze(engine, src, cmd)
	}

	var progress func(done, total int)
	if !importQuiet {
		progress = func(done, total int) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\rImporting %d/%d", done, total)
			if done == total {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
		}
	}

	report, err := engine.Apply(cmd.Context(), src, policy, progress)
	if report != nil {
		printReport(cmd.OutOrStdout(), report)
	}
	return err
}

func runImportAnalyze(engine *merge.Engine, src merge.Source, cmd *cobra.Command) error {
	preview, err := engine.Analyze(cmd.Context(), src)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Analyzed: %d rows (%d new, %d matched, %d errors)\n",
		preview.Analyzed, preview.New, preview.Matched, len(preview.RowErrors))
	for _, re := range preview.RowErrors {
		fmt.Fprintf(out, "  row %d: %s\n", re.Row, re.Reason)
	}

	if importDiff {
		for _, c := range preview.Conflicts {
			diff, err := conflictDiff(c)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nRow %d: %s\n%s", c.Row, c.Draft.Name, diff)
		}
	}
	return nil
}

// conflictDiff renders a unified diff of the existing record against what
// the incoming row carries, field by field.
func conflictDiff(c merge.Conflict) (string, error) {
	existing := figureFieldLines(c.Existing)
	incoming := draftFieldLines(c.Draft)

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(existing),
		B:        difflib.SplitLines(incoming),
		FromFile: "existing",
		ToFile:   "incoming",
		Context:  3,
	})
}

func figureFieldLines(f *domain.Figure) string {
	var b strings.Builder
	writeField(&b, "name", f.Name)
	writeField(&b, "series", domain.StrOrEmpty(f.Series))
	writeField(&b, "wave", domain.StrOrEmpty(f.Wave))
	writeField(&b, "manufacturer", domain.StrOrEmpty(f.Manufacturer))
	writeField(&b, "year", intOrDash(f.Year))
	writeField(&b, "scale", domain.StrOrEmpty(f.Scale))
	writeField(&b, "condition", domain.StrOrEmpty(f.Condition))
	writeField(&b, "purchase_price", priceOrDash(f.PurchasePrice))
	writeField(&b, "current_value", priceOrDash(f.CurrentValue))
	writeField(&b, "location", domain.StrOrEmpty(f.Location))
	writeField(&b, "notes", domain.StrOrEmpty(f.Notes))
	return b.String()
}

func draftFieldLines(d *domain.DraftFigure) string {
	var b strings.Builder
	writeField(&b, "name", d.Name)
	writeField(&b, "series", domain.StrOrEmpty(d.Series))
	writeField(&b, "wave", domain.StrOrEmpty(d.Wave))
	writeField(&b, "manufacturer", domain.StrOrEmpty(d.Manufacturer))
	writeField(&b, "year", intOrDash(d.Year))
	writeField(&b, "scale", domain.StrOrEmpty(d.Scale))
	writeField(&b, "condition", domain.StrOrEmpty(d.Condition))
	writeField(&b, "purchase_price", priceOrDash(d.PurchasePrice))
	writeField(&b, "current_value", priceOrDash(d.CurrentValue))
	writeField(&b, "location", domain.StrOrEmpty(d.Location))
	writeField(&b, "notes", domain.StrOrEmpty(d.Notes))
	return b.String()
}

func writeField(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "%s: %s\n", name, value)
}

// openSource opens a CSV file or backup zip as a merge source.
func openSource(path string) (merge.Source, func(), error) {
	if strings.HasSuffix(strings.ToLower(path), ".zip") {
		src, err := backup.OpenSource(path)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { src.Close() }, nil
	}

	reader, err := csvio.NewReader(func() (io.ReadCloser, error) {
		return os.Open(path)
	})
	if err != nil {
		return nil, nil, err
	}
	return reader, func() { reader.Close() }, nil
}

func printReport(out io.Writer, r *merge.Report) {
	fmt.Fprintf(out, "Analyzed %d rows: %d inserted, %d updated, %d skipped\n",
		r.Analyzed, r.Inserted, r.Updated, r.Skipped)
	for _, rename := range r.PhotoRenames {
		fmt.Fprintf(out, "  photo renamed: %s -> %s\n", rename.OriginalName, rename.FinalName)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", w)
	}
	for _, re := range r.RowErrors {
		fmt.Fprintf(out, "  row %d: %s\n", re.Row, re.Reason)
	}
}
