// Package csvio reads and writes the collection CSV format: a mandatory
// header row followed by one record per row. Column names are matched
// case-insensitively and unknown columns are ignored, so exports from other
// tools load as long as they carry a name column.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"omac/internal/domain"
	"omac/internal/merge"
)

// Columns is the canonical column order written by the Writer and accepted
// (in any order) by the Reader.
var Columns = []string{
	"name", "series", "wave", "manufacturer", "year", "scale", "condition",
	"purchase_price", "current_value", "location", "notes",
	"created_at", "updated_at",
}

// Reader parses collection CSV into draft figures. It satisfies the merge
// engine's Source: each Next call yields exactly one draft or one row error,
// and io.EOF when the input is exhausted.
type Reader struct {
	open func() (io.ReadCloser, error)

	rc      io.ReadCloser
	csv     *csv.Reader
	columns map[string]int
	row     int
}

// NewReader returns a reader over a reopenable input. open is called once up
// front and again on every Reset.
func NewReader(open func() (io.ReadCloser, error)) (*Reader, error) {
	r := &Reader{open: open}
	if err := r.Reset(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reset rewinds the reader to the first data row, re-reading the header.
func (r *Reader) Reset() error {
	if r.rc != nil {
		r.rc.Close()
		r.rc = nil
	}

	rc, err := r.open()
	if err != nil {
		return fmt.Errorf("failed to open CSV input: %w", err)
	}

	cr := csv.NewReader(rc)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		rc.Close()
		return fmt.Errorf("CSV input is empty: missing header row")
	}
	if err != nil {
		rc.Close()
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["name"]; !ok {
		rc.Close()
		return fmt.Errorf("CSV header has no name column")
	}

	r.rc = rc
	r.csv = cr
	r.columns = columns
	r.row = 0
	return nil
}

// Close releases the underlying input.
func (r *Reader) Close() error {
	if r.rc == nil {
		return nil
	}
	err := r.rc.Close()
	r.rc = nil
	return err
}

// Next returns the next data row as a draft figure, or a row error when the
// row cannot yield a record. Malformed typed values are not errors: they
// leave the field absent. Only a missing name rejects the row.
//
// Cell content is kept byte-intact. Whitespace inside quoted fields is part
// of the value; only leading whitespace outside quotes is dropped (by the
// csv reader) and typed cells tolerate padding during coercion.
func (r *Reader) Next() (*domain.DraftFigure, *merge.RowError, error) {
	record, err := r.csv.Read()
	if err == io.EOF {
		return nil, nil, io.EOF
	}
	r.row++
	if err != nil {
		return nil, &merge.RowError{Row: r.row, Reason: fmt.Sprintf("malformed CSV: %v", err)}, nil
	}

	get := func(col string) string {
		i, ok := r.columns[col]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	name := get("name")
	if strings.TrimSpace(name) == "" {
		return nil, &merge.RowError{Row: r.row, Reason: "missing name"}, nil
	}

	d := &domain.DraftFigure{
		Name:          name,
		Series:        domain.StrPtr(get("series")),
		Wave:          domain.StrPtr(get("wave")),
		Manufacturer:  domain.StrPtr(get("manufacturer")),
		Scale:         domain.StrPtr(get("scale")),
		Condition:     domain.StrPtr(get("condition")),
		Location:      domain.StrPtr(get("location")),
		Notes:         domain.StrPtr(get("notes")),
		Year:          parseInt(get("year")),
		PurchasePrice: parseFloat(get("purchase_price")),
		CurrentValue:  parseFloat(get("current_value")),
		CreatedAt:     parseTime(get("created_at")),
		UpdatedAt:     parseTime(get("updated_at")),
	}
	return d, nil, nil
}

// parseInt coerces a CSV cell to an optional int. Unparseable input is
// treated as absent, not as an error.
func parseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation(domain.TimeFormat, s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}
