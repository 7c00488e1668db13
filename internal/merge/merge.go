package merge

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"omac/internal/domain"
)

// Engine runs merges from a Source into a Destination. It is stateless
// between runs; every Apply call takes a fresh snapshot of the destination.
type Engine struct {
	dest  Destination
	files FileStore

	// thumbnail, when set, is called with each stored photo name after a
	// successful copy. Failures become report warnings, never row errors.
	thumbnail func(name string) error
}

// NewEngine returns an engine over the given record and file destinations.
func NewEngine(dest Destination, files FileStore) *Engine {
	return &Engine{dest: dest, files: files}
}

// SetThumbnailer installs an optional post-copy hook for generating
// thumbnails of imported photos.
func (e *Engine) SetThumbnailer(fn func(name string) error) {
	e.thumbnail = fn
}

// sourceRow is one drained source row: exactly one of draft or rowErr is set.
type sourceRow struct {
	row    int
	draft  *domain.DraftFigure
	rowErr *RowError
}

// Analyze reads the whole source and reports what Apply would do, without
// mutating anything. The preview simulates insertions, so a row identical to
// an earlier row in the same input counts as matched.
func (e *Engine) Analyze(ctx context.Context, src Source) (*Preview, error) {
	if err := src.Reset(); err != nil {
		return nil, fmt.Errorf("failed to rewind source: %w", err)
	}
	rows, err := drain(src)
	if err != nil {
		return nil, err
	}

	snapshot, err := e.dest.ListAll()
	if err != nil {
		return nil, &DestinationUnavailableError{Err: err}
	}
	detector := NewDetector(snapshot)

	now := time.Now().UTC().Truncate(time.Second)
	p := &Preview{}
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.Analyzed++
		if r.rowErr != nil {
			p.RowErrors = append(p.RowErrors, *r.rowErr)
			continue
		}
		existing, _ := detector.Match(r.draft)
		if existing == nil {
			p.New++
			detector.Add(draftToFigure(r.draft, now))
			continue
		}
		p.Matched++
		p.Conflicts = append(p.Conflicts, Conflict{Row: r.row, Draft: r.draft, Existing: existing})
	}
	return p, nil
}

// Apply merges the source into the destination under the given policy. Rows
// are processed in input order; each failed row is recorded and processing
// continues. progress (optional) is called after every processed row.
//
// Cancellation via ctx stops cleanly between rows: already-applied rows stay
// applied, and the returned report covers them alongside ctx.Err().
//
// The only fatal setup error is the destination being unreadable at the
// start of the run.
func (e *Engine) Apply(ctx context.Context, src Source, policy Policy, progress func(done, total int)) (*Report, error) {
	if err := src.Reset(); err != nil {
		return nil, fmt.Errorf("failed to rewind source: %w", err)
	}
	rows, err := drain(src)
	if err != nil {
		return nil, err
	}

	snapshot, err := e.dest.ListAll()
	if err != nil {
		return nil, &DestinationUnavailableError{Err: err}
	}
	detector := NewDetector(snapshot)

	now := time.Now().UTC().Truncate(time.Second)
	report := &Report{}
	total := len(rows)

	for i, r := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Analyzed++
		if r.rowErr != nil {
			report.RowErrors = append(report.RowErrors, *r.rowErr)
			e.tick(progress, i+1, total)
			continue
		}

		existing, warning := detector.Match(r.draft)
		if warning != "" {
			report.Warnings = append(report.Warnings, warning)
		}
		res := Resolve(r.draft, existing, policy, now)

		switch res.Action {
		case ActionInsert:
			if err := e.dest.Insert(res.Figure); err != nil {
				report.RowErrors = append(report.RowErrors,
					RowError{Row: r.row, Reason: fmt.Sprintf("insert failed: %v", err)})
				e.tick(progress, i+1, total)
				continue
			}
			report.Inserted++
			detector.Add(res.Figure)
		case ActionUpdate:
			if err := e.dest.Update(res.Figure); err != nil {
				report.RowErrors = append(report.RowErrors,
					RowError{Row: r.row, Reason: fmt.Sprintf("update failed: %v", err)})
				e.tick(progress, i+1, total)
				continue
			}
			report.Updated++
		case ActionSkip:
			report.Skipped++
		}

		if res.Figure != nil {
			e.importPhotos(r.row, res, report)
		}
		e.tick(progress, i+1, total)
	}
	return report, nil
}

// importPhotos copies and registers the photos of one resolved row. A failed
// photo becomes a row error, but the row's record changes stand and the
// remaining photos are still attempted.
func (e *Engine) importPhotos(row int, res Resolution, report *Report) {
	for _, p := range res.Photos {
		desired := filepath.Base(p.SourcePath)
		final, err := e.files.Copy(p.SourcePath, desired)
		if err != nil {
			report.RowErrors = append(report.RowErrors,
				RowError{Row: row, Reason: fmt.Sprintf("photo %s: %v", desired, err)})
			continue
		}
		if final != desired {
			report.PhotoRenames = append(report.PhotoRenames,
				Rename{OriginalName: desired, FinalName: final})
		}

		photo := &domain.Photo{
			FigureUUID: res.Figure.UUID,
			FilePath:   final,
			Caption:    p.Caption,
			IsPrimary:  p.IsPrimary,
		}
		if err := e.dest.AddPhoto(photo); err != nil {
			report.RowErrors = append(report.RowErrors,
				RowError{Row: row, Reason: fmt.Sprintf("photo %s: %v", final, err)})
			continue
		}

		if e.thumbnail != nil {
			if err := e.thumbnail(final); err != nil {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("thumbnail for %s: %v", final, err))
			}
		}
	}
}

func (e *Engine) tick(progress func(done, total int), done, total int) {
	if progress != nil {
		progress(done, total)
	}
}

// drain reads the source to io.EOF, preserving input order and 1-based data
// row numbering.
func drain(src Source) ([]sourceRow, error) {
	var rows []sourceRow
	for n := 1; ; n++ {
		draft, rowErr, err := src.Next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read source: %w", err)
		}
		if rowErr != nil {
			if rowErr.Row == 0 {
				rowErr.Row = n
			}
			rows = append(rows, sourceRow{row: n, rowErr: rowErr})
			continue
		}
		rows = append(rows, sourceRow{row: n, draft: draft})
	}
}
