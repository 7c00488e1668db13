package csvio

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"omac/internal/domain"
	"omac/internal/merge"
)

func stringReader(s string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(s)), nil
	}
}

func readAll(t *testing.T, r *Reader) ([]*domain.DraftFigure, []merge.RowError) {
	t.Helper()
	var drafts []*domain.DraftFigure
	var errs []merge.RowError
	for {
		d, rowErr, err := r.Next()
		if err == io.EOF {
			return drafts, errs
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if (d == nil) == (rowErr == nil) {
			t.Fatal("expected exactly one of draft or row error")
		}
		if d != nil {
			drafts = append(drafts, d)
		} else {
			errs = append(errs, *rowErr)
		}
	}
}

func TestReaderParsesTypedFields(t *testing.T) {
	csv := "name,series,year,purchase_price,created_at\n" +
		"Optimus Prime,Generations,2022,49.99,2023-01-15 10:30:00\n"

	r, err := NewReader(stringReader(csv))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	drafts, errs := readAll(t, r)
	if len(errs) != 0 || len(drafts) != 1 {
		t.Fatalf("expected 1 draft, 0 errors; got %d drafts, %d errors", len(drafts), len(errs))
	}

	d := drafts[0]
	if d.Name != "Optimus Prime" || domain.StrOrEmpty(d.Series) != "Generations" {
		t.Errorf("text fields mismatch: %+v", d)
	}
	if d.Year == nil || *d.Year != 2022 {
		t.Errorf("expected year 2022, got %v", d.Year)
	}
	if d.PurchasePrice == nil || *d.PurchasePrice != 49.99 {
		t.Errorf("expected price 49.99, got %v", d.PurchasePrice)
	}
	want := time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC)
	if d.CreatedAt == nil || !d.CreatedAt.Equal(want) {
		t.Errorf("expected created_at %v, got %v", want, d.CreatedAt)
	}
	if d.Manufacturer != nil || d.Notes != nil {
		t.Error("columns absent from the header must stay nil")
	}
}

func TestReaderHeaderCaseInsensitive(t *testing.T) {
	r, err := NewReader(stringReader("Name,SERIES\nMegatron,Legacy\n"))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	drafts, _ := readAll(t, r)
	if len(drafts) != 1 || drafts[0].Name != "Megatron" {
		t.Fatalf("unexpected drafts: %+v", drafts)
	}
	if domain.StrOrEmpty(drafts[0].Series) != "Legacy" {
		t.Errorf("series not matched case-insensitively: %+v", drafts[0])
	}
}

func TestReaderMissingNameIsRowError(t *testing.T) {
	csv := "name,series\nOptimus Prime,Generations\n,Legacy\nMegatron,Legacy\n"
	r, err := NewReader(stringReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	drafts, errs := readAll(t, r)
	if len(drafts) != 2 {
		t.Errorf("expected 2 drafts, got %d", len(drafts))
	}
	if len(errs) != 1 || errs[0].Row != 2 || !strings.Contains(errs[0].Reason, "missing name") {
		t.Errorf("expected row 2 missing-name error, got %+v", errs)
	}
}

func TestReaderBadTypedValueIsAbsentNotError(t *testing.T) {
	csv := "name,year,purchase_price\nSoundwave,not-a-year,abc\n"
	r, err := NewReader(stringReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	drafts, errs := readAll(t, r)
	if len(errs) != 0 || len(drafts) != 1 {
		t.Fatalf("coercion failure must not reject the row: %d drafts, %d errors", len(drafts), len(errs))
	}
	if drafts[0].Year != nil || drafts[0].PurchasePrice != nil {
		t.Errorf("unparseable values must be absent: %+v", drafts[0])
	}
}

func TestReaderQuotedFields(t *testing.T) {
	csv := "name,notes\n" +
		"\"Grimlock, King\",\"He said \"\"me Grimlock\"\"\nacross lines\"\n"
	r, err := NewReader(stringReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	drafts, errs := readAll(t, r)
	if len(errs) != 0 || len(drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d drafts %d errors", len(drafts), len(errs))
	}
	if drafts[0].Name != "Grimlock, King" {
		t.Errorf("embedded comma lost: %q", drafts[0].Name)
	}
	notes := domain.StrOrEmpty(drafts[0].Notes)
	if !strings.Contains(notes, `"me Grimlock"`) || !strings.Contains(notes, "\n") {
		t.Errorf("doubled quotes or embedded newline lost: %q", notes)
	}
}

func TestReaderQuotedWhitespacePreserved(t *testing.T) {
	csv := "name,notes,year\n" +
		"Optimus Prime,\"  keep my padding  \", 2022 \n"
	r, err := NewReader(stringReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	drafts, errs := readAll(t, r)
	if len(errs) != 0 || len(drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d drafts %d errors", len(drafts), len(errs))
	}
	if got := domain.StrOrEmpty(drafts[0].Notes); got != "  keep my padding  " {
		t.Errorf("quoted field content must be byte-intact, got %q", got)
	}
	if drafts[0].Year == nil || *drafts[0].Year != 2022 {
		t.Errorf("padded typed cell must still coerce, got %v", drafts[0].Year)
	}
}

func TestReaderBlankQuotedNameIsRowError(t *testing.T) {
	r, err := NewReader(stringReader("name\n\"   \"\n"))
	if err != nil {
		t.Fatal(err)
	}
	drafts, errs := readAll(t, r)
	if len(drafts) != 0 || len(errs) != 1 {
		t.Errorf("whitespace-only name must reject the row: %d drafts, %d errors", len(drafts), len(errs))
	}
}

func TestReaderUnknownColumnsIgnored(t *testing.T) {
	r, err := NewReader(stringReader("name,hit_points\nStarscream,9000\n"))
	if err != nil {
		t.Fatal(err)
	}
	drafts, errs := readAll(t, r)
	if len(errs) != 0 || len(drafts) != 1 {
		t.Fatalf("unknown columns must be ignored: %d drafts, %d errors", len(drafts), len(errs))
	}
}

func TestReaderRejectsMissingHeader(t *testing.T) {
	if _, err := NewReader(stringReader("")); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := NewReader(stringReader("series,year\nGenerations,2022\n")); err == nil {
		t.Error("expected error for header without name column")
	}
}

func TestReaderReset(t *testing.T) {
	r, err := NewReader(stringReader("name\nOptimus Prime\nMegatron\n"))
	if err != nil {
		t.Fatal(err)
	}
	first, _ := readAll(t, r)
	if err := r.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	second, _ := readAll(t, r)
	if len(first) != 2 || len(second) != 2 {
		t.Errorf("expected 2 drafts on both passes, got %d then %d", len(first), len(second))
	}
}

func TestWriteFiguresRoundTrip(t *testing.T) {
	year := 2022
	price := 49.99
	series := "Generations"
	fig := domain.Figure{
		Name:          "Optimus Prime",
		Series:        &series,
		Year:          &year,
		PurchasePrice: &price,
		CreatedAt:     time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	if err := WriteFigures(&buf, []domain.Figure{fig}); err != nil {
		t.Fatalf("WriteFigures failed: %v", err)
	}

	r, err := NewReader(stringReader(buf.String()))
	if err != nil {
		t.Fatalf("export not readable: %v", err)
	}
	drafts, errs := readAll(t, r)
	if len(errs) != 0 || len(drafts) != 1 {
		t.Fatalf("expected clean round trip, got %d drafts %d errors", len(drafts), len(errs))
	}
	d := drafts[0]
	if d.Name != fig.Name || *d.Year != year || *d.PurchasePrice != price {
		t.Errorf("round trip mismatch: %+v", d)
	}
	if d.CreatedAt == nil || !d.CreatedAt.Equal(fig.CreatedAt) {
		t.Errorf("timestamp round trip mismatch: %v", d.CreatedAt)
	}
}
