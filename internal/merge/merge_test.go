package merge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"omac/internal/domain"
)

// sliceSource yields a fixed sequence of drafts and row errors.
type sliceSource struct {
	entries []sourceRow
	pos     int
}

func (s *sliceSource) Next() (*domain.DraftFigure, *RowError, error) {
	if s.pos >= len(s.entries) {
		return nil, nil, io.EOF
	}
	e := s.entries[s.pos]
	s.pos++
	return e.draft, e.rowErr, nil
}

func (s *sliceSource) Reset() error {
	s.pos = 0
	return nil
}

func sourceOf(drafts ...*domain.DraftFigure) *sliceSource {
	s := &sliceSource{}
	for _, d := range drafts {
		s.entries = append(s.entries, sourceRow{draft: d})
	}
	return s
}

// fakeDest is an in-memory Destination.
type fakeDest struct {
	figures []*domain.Figure
	photos  []*domain.Photo
	nextID  int
	listErr error
}

func (d *fakeDest) ListAll() ([]domain.Figure, error) {
	if d.listErr != nil {
		return nil, d.listErr
	}
	out := make([]domain.Figure, len(d.figures))
	for i, f := range d.figures {
		out[i] = *f
	}
	return out, nil
}

func (d *fakeDest) Insert(f *domain.Figure) error {
	d.nextID++
	f.UUID = fmt.Sprintf("fig-%d", d.nextID)
	cp := *f
	d.figures = append(d.figures, &cp)
	return nil
}

func (d *fakeDest) Update(f *domain.Figure) error {
	for i, existing := range d.figures {
		if existing.UUID == f.UUID {
			cp := *f
			d.figures[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("figure not found: %s", f.UUID)
}

func (d *fakeDest) AddPhoto(p *domain.Photo) error {
	cp := *p
	d.photos = append(d.photos, &cp)
	return nil
}

func (d *fakeDest) byName(name string) *domain.Figure {
	for _, f := range d.figures {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// fakeFiles is an in-memory FileStore with the same collision-rename rule
// as the real photo directory.
type fakeFiles struct {
	stored  map[string]string // final name -> source path
	copyErr error
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{stored: make(map[string]string)}
}

func (fs *fakeFiles) Exists(name string) bool {
	_, ok := fs.stored[name]
	return ok
}

func (fs *fakeFiles) Copy(src, desiredName string) (string, error) {
	if fs.copyErr != nil {
		return "", fs.copyErr
	}
	name := desiredName
	if fs.Exists(name) {
		ext := ""
		base := desiredName
		if i := strings.LastIndex(desiredName, "."); i >= 0 {
			base, ext = desiredName[:i], desiredName[i:]
		}
		for i := 1; ; i++ {
			name = fmt.Sprintf("%s_%d%s", base, i, ext)
			if !fs.Exists(name) {
				break
			}
		}
	}
	fs.stored[name] = src
	return name, nil
}

func draft(name string, mods ...func(*domain.DraftFigure)) *domain.DraftFigure {
	d := &domain.DraftFigure{Name: name}
	for _, m := range mods {
		m(d)
	}
	return d
}

func withSeries(s string) func(*domain.DraftFigure) {
	return func(d *domain.DraftFigure) { d.Series = &s }
}

func withManufacturer(s string) func(*domain.DraftFigure) {
	return func(d *domain.DraftFigure) { d.Manufacturer = &s }
}

func withPhoto(src string, primary bool) func(*domain.DraftFigure) {
	return func(d *domain.DraftFigure) {
		d.Photos = append(d.Photos, domain.DraftPhoto{SourcePath: src, IsPrimary: primary})
	}
}

func existingFigure(name, series, manufacturer string, created time.Time) *domain.Figure {
	return &domain.Figure{
		Name:         name,
		Series:       domain.StrPtr(series),
		Manufacturer: domain.StrPtr(manufacturer),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestKeyNormalization(t *testing.T) {
	series := " Generations "
	a := KeyOf("  Optimus Prime ", &series, nil)
	b := KeyOf("optimus prime", domain.StrPtr("generations"), nil)
	if a != b {
		t.Errorf("keys should match after trim/lowercase: %+v vs %+v", a, b)
	}

	c := KeyOf("Optimus Prime", nil, nil)
	if c == a {
		t.Error("absent series must not match a present series")
	}
	if c.Series != "" || c.Manufacturer != "" {
		t.Errorf("absent fields must normalize to empty, got %+v", c)
	}
}

func TestDetectorEarliestCreatedWins(t *testing.T) {
	older := existingFigure("Optimus Prime", "Generations", "Hasbro",
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	older.UUID = "older"
	newer := existingFigure("Optimus Prime", "Generations", "Hasbro",
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	newer.UUID = "newer"

	d := NewDetector([]domain.Figure{*newer, *older})
	match, warning := d.Match(draft("Optimus Prime",
		withSeries("Generations"), withManufacturer("Hasbro")))
	if match == nil || match.UUID != "older" {
		t.Fatalf("expected earliest-created match, got %+v", match)
	}
	if warning == "" {
		t.Error("expected ambiguity warning for multiple candidates")
	}
}

func TestResolveOverwriteNeverErases(t *testing.T) {
	existing := existingFigure("Optimus Prime", "Generations", "Hasbro",
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	existing.UUID = "fig-1"
	price := 49.99
	existing.PurchasePrice = &price
	existing.Notes = domain.StrPtr("boxed")

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	newValue := 80.0
	d := draft("Optimus Prime", withSeries("Generations"), withManufacturer("Hasbro"))
	d.CurrentValue = &newValue

	res := Resolve(d, existing, PolicyOverwrite, now)
	if res.Action != ActionUpdate {
		t.Fatalf("expected update, got %s", res.Action)
	}
	if res.Figure.PurchasePrice == nil || *res.Figure.PurchasePrice != 49.99 {
		t.Error("absent purchase_price must not erase existing value")
	}
	if domain.StrOrEmpty(res.Figure.Notes) != "boxed" {
		t.Error("absent notes must not erase existing value")
	}
	if res.Figure.CurrentValue == nil || *res.Figure.CurrentValue != 80.0 {
		t.Error("present current_value must be applied")
	}
	if !res.Figure.UpdatedAt.Equal(now) {
		t.Errorf("overwrite must refresh updated_at, got %v", res.Figure.UpdatedAt)
	}
	if !res.Figure.CreatedAt.Equal(existing.CreatedAt) {
		t.Error("created_at must be preserved on overwrite")
	}
}

func TestApplyFreshImport(t *testing.T) {
	dest := &fakeDest{}
	engine := NewEngine(dest, newFakeFiles())

	src := sourceOf(
		draft("Optimus Prime", withSeries("Generations")),
		draft("Megatron", withSeries("Legacy")),
		draft("Starscream"),
	)

	report, err := engine.Apply(context.Background(), src, PolicySkip, nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if report.Analyzed != 3 || report.Inserted != 3 || report.Updated != 0 || report.Skipped != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
	if len(dest.figures) != 3 {
		t.Errorf("expected 3 figures in destination, got %d", len(dest.figures))
	}
}

func TestApplySkipLeavesDestinationUntouched(t *testing.T) {
	existing := existingFigure("Optimus Prime", "Generations", "Hasbro",
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	existing.UUID = "fig-1"
	existing.Notes = domain.StrPtr("original notes")
	dest := &fakeDest{figures: []*domain.Figure{existing}, nextID: 1}
	engine := NewEngine(dest, newFakeFiles())

	d := draft("Optimus Prime", withSeries("Generations"), withManufacturer("Hasbro"))
	d.Notes = domain.StrPtr("incoming notes")

	report, err := engine.Apply(context.Background(), sourceOf(d), PolicySkip, nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if report.Skipped != 1 || report.Inserted != 0 || report.Updated != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
	if got := domain.StrOrEmpty(dest.figures[0].Notes); got != "original notes" {
		t.Errorf("skip must not touch existing record, notes became %q", got)
	}
}

func TestApplyMergePhotosImportsPhotosOnly(t *testing.T) {
	existing := existingFigure("Optimus Prime", "Generations", "Hasbro",
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	existing.UUID = "fig-1"
	existing.Notes = domain.StrPtr("original notes")
	dest := &fakeDest{figures: []*domain.Figure{existing}, nextID: 1}
	files := newFakeFiles()
	files.stored["prime.jpg"] = "pre-existing"
	engine := NewEngine(dest, files)

	d := draft("Optimus Prime", withSeries("Generations"), withManufacturer("Hasbro"),
		withPhoto("/import/prime.jpg", true))
	d.Notes = domain.StrPtr("incoming notes")

	report, err := engine.Apply(context.Background(), sourceOf(d), PolicyMergePhotos, nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if report.Skipped != 1 {
		t.Errorf("merge-photos rows count as skipped, got %+v", report)
	}
	if got := domain.StrOrEmpty(dest.figures[0].Notes); got != "original notes" {
		t.Errorf("merge-photos must not touch fields, notes became %q", got)
	}
	if len(dest.photos) != 1 || dest.photos[0].FigureUUID != "fig-1" {
		t.Fatalf("expected photo attached to existing figure, got %+v", dest.photos)
	}
	if dest.photos[0].FilePath != "prime_1.jpg" {
		t.Errorf("expected collision rename to prime_1.jpg, got %q", dest.photos[0].FilePath)
	}
	if len(report.PhotoRenames) != 1 || report.PhotoRenames[0].FinalName != "prime_1.jpg" {
		t.Errorf("rename not reported: %+v", report.PhotoRenames)
	}
}

func TestApplyIntraRunDuplicateMatchesInsertedRow(t *testing.T) {
	dest := &fakeDest{}
	engine := NewEngine(dest, newFakeFiles())

	src := sourceOf(
		draft("Optimus Prime", withSeries("Generations")),
		draft("Optimus Prime", withSeries("Generations")),
	)

	report, err := engine.Apply(context.Background(), src, PolicySkip, nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if report.Inserted != 1 || report.Skipped != 1 {
		t.Errorf("second identical row must match the first insert: %+v", report)
	}
	if len(dest.figures) != 1 {
		t.Errorf("expected a single figure, got %d", len(dest.figures))
	}
}

func TestApplyAccumulatesRowErrors(t *testing.T) {
	dest := &fakeDest{}
	engine := NewEngine(dest, newFakeFiles())

	src := &sliceSource{entries: []sourceRow{
		{draft: draft("Optimus Prime")},
		{rowErr: &RowError{Row: 2, Reason: "missing name"}},
		{draft: draft("Megatron")},
	}}

	report, err := engine.Apply(context.Background(), src, PolicySkip, nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if report.Inserted != 2 {
		t.Errorf("rows after a failed row must still be processed: %+v", report)
	}
	if len(report.RowErrors) != 1 || report.RowErrors[0].Row != 2 {
		t.Errorf("unexpected row errors: %+v", report.RowErrors)
	}
}

func TestApplyPhotoFailureIsRowErrorNotFatal(t *testing.T) {
	dest := &fakeDest{}
	files := newFakeFiles()
	files.copyErr = errors.New("disk full")
	engine := NewEngine(dest, files)

	src := sourceOf(
		draft("Optimus Prime", withPhoto("/import/prime.jpg", true)),
		draft("Megatron"),
	)

	report, err := engine.Apply(context.Background(), src, PolicySkip, nil)
	if err != nil {
		t.Fatalf("photo failures must not abort the run: %v", err)
	}
	if report.Inserted != 2 {
		t.Errorf("record changes must stand despite photo failure: %+v", report)
	}
	if len(report.RowErrors) != 1 || report.RowErrors[0].Row != 1 {
		t.Errorf("expected one photo row error on row 1: %+v", report.RowErrors)
	}
	if len(dest.photos) != 0 {
		t.Error("failed photo must not be registered")
	}
}

func TestApplyCancellationBetweenRows(t *testing.T) {
	dest := &fakeDest{}
	engine := NewEngine(dest, newFakeFiles())

	ctx, cancel := context.WithCancel(context.Background())
	src := sourceOf(draft("Optimus Prime"), draft("Megatron"), draft("Starscream"))

	var once bool
	report, err := engine.Apply(ctx, src, PolicySkip, func(done, total int) {
		if !once {
			once = true
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if report == nil || report.Inserted != 1 {
		t.Errorf("already-applied rows must stay applied: %+v", report)
	}
	if len(dest.figures) != 1 {
		t.Errorf("expected 1 figure in destination, got %d", len(dest.figures))
	}
}

func TestApplyDestinationUnavailableIsFatal(t *testing.T) {
	dest := &fakeDest{listErr: errors.New("database is locked")}
	engine := NewEngine(dest, newFakeFiles())

	_, err := engine.Apply(context.Background(), sourceOf(draft("Optimus Prime")), PolicySkip, nil)
	var unavailable *DestinationUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected DestinationUnavailableError, got %v", err)
	}
}

func TestApplyProgressCoversEveryRow(t *testing.T) {
	dest := &fakeDest{}
	engine := NewEngine(dest, newFakeFiles())

	src := &sliceSource{entries: []sourceRow{
		{draft: draft("Optimus Prime")},
		{rowErr: &RowError{Row: 2, Reason: "missing name"}},
		{draft: draft("Megatron")},
	}}

	var calls []int
	_, err := engine.Apply(context.Background(), src, PolicySkip, func(done, total int) {
		if total != 3 {
			t.Errorf("expected total 3, got %d", total)
		}
		calls = append(calls, done)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 3 || calls[2] != 3 {
		t.Errorf("progress must tick once per row: %v", calls)
	}
}

func TestAnalyzeIsPureAndRepeatable(t *testing.T) {
	existing := existingFigure("Optimus Prime", "Generations", "Hasbro",
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	existing.UUID = "fig-1"
	dest := &fakeDest{figures: []*domain.Figure{existing}, nextID: 1}
	engine := NewEngine(dest, newFakeFiles())

	src := &sliceSource{entries: []sourceRow{
		{draft: draft("Optimus Prime", withSeries("Generations"), withManufacturer("Hasbro"))},
		{draft: draft("Megatron")},
		{rowErr: &RowError{Row: 3, Reason: "missing name"}},
		{draft: draft("Megatron")}, // duplicate of a simulated insert
	}}

	for pass := 0; pass < 2; pass++ {
		p, err := engine.Analyze(context.Background(), src)
		if err != nil {
			t.Fatalf("Analyze pass %d failed: %v", pass, err)
		}
		if p.Analyzed != 4 || p.New != 1 || p.Matched != 2 || len(p.RowErrors) != 1 {
			t.Errorf("pass %d: unexpected preview %+v", pass, p)
		}
	}
	if len(dest.figures) != 1 || len(dest.photos) != 0 {
		t.Error("Analyze must not mutate the destination")
	}
	if dest.byName("Megatron") != nil {
		t.Error("Analyze must not insert simulated figures")
	}
}

func TestApplyThumbnailFailureIsWarning(t *testing.T) {
	dest := &fakeDest{}
	engine := NewEngine(dest, newFakeFiles())
	engine.SetThumbnailer(func(name string) error {
		return errors.New("decode failed")
	})

	src := sourceOf(draft("Optimus Prime", withPhoto("/import/prime.jpg", true)))
	report, err := engine.Apply(context.Background(), src, PolicySkip, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.RowErrors) != 0 {
		t.Errorf("thumbnail failure must not be a row error: %+v", report.RowErrors)
	}
	if len(report.Warnings) != 1 {
		t.Errorf("expected a thumbnail warning, got %+v", report.Warnings)
	}
	if len(dest.photos) != 1 {
		t.Error("photo must still be registered")
	}
}
