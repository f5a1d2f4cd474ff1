// Package csvrow reads solver input rows from CSV and formats results the
// way the batch output expects them.
package csvrow

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// Row is one unit of work: a target amount followed by up to a handful of
// candidate amounts. Index is the 1-based position in the input file.
type Row struct {
	Index      int
	Target     decimal.Decimal
	Candidates []decimal.Decimal
}

// RowError wraps a parse failure with the row it came from so batch callers
// can report and keep going.
type RowError struct {
	Index int
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Index, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// ParseCell converts one CSV cell into a decimal. Cells written with a
// European decimal comma ("3,5") are coerced, but only when the comma is
// unambiguous: exactly one comma and no dot.
func ParseCell(cell string) (decimal.Decimal, error) {
	cell = strings.TrimSpace(cell)
	if strings.Count(cell, ",") == 1 && !strings.Contains(cell, ".") {
		cell = strings.Replace(cell, ",", ".", 1)
	}
	d, err := decimal.NewFromString(cell)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("cannot parse %q as a number", cell)
	}
	return d, nil
}

// Reader streams rows out of a CSV source. Row.Index is the 1-based record
// number; whitespace-only records are skipped but still counted.
type Reader struct {
	csv   *csv.Reader
	index int
}

func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	// rows legitimately vary in width
	cr.FieldsPerRecord = -1
	return &Reader{csv: cr}
}

// Next returns the next non-blank row, io.EOF at the end of input, or a
// RowError for a malformed row. After a RowError the reader remains usable.
func (r *Reader) Next() (Row, error) {
	for {
		record, err := r.csv.Read()
		if err == io.EOF {
			return Row{}, io.EOF
		}
		r.index++
		if err != nil {
			return Row{}, RowError{Index: r.index, Err: err}
		}

		if isBlank(record) {
			continue
		}
		if len(record) < 2 {
			return Row{}, RowError{
				Index: r.index,
				Err:   fmt.Errorf("need a target and at least one candidate"),
			}
		}

		row := Row{Index: r.index}
		for i, cell := range record {
			d, err := ParseCell(cell)
			if err != nil {
				return Row{}, RowError{Index: r.index, Err: err}
			}
			if i == 0 {
				row.Target = d
			} else {
				row.Candidates = append(row.Candidates, d)
			}
		}
		return row, nil
	}
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// FormatDecimal prints integral amounts without a fraction and everything
// else without trailing zeros: "100", "15.5", "0.25".
func FormatDecimal(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.Truncate(0).String()
	}
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// FormatLine renders one solved row:
//
//	Row 3: chosen=[5.5, 10] sum=15.5 / target=15.5
func FormatLine(row Row, chosen []decimal.Decimal, sum decimal.Decimal) string {
	parts := make([]string, len(chosen))
	for i, v := range chosen {
		parts[i] = FormatDecimal(v)
	}
	return fmt.Sprintf(
		"Row %d: chosen=[%s] sum=%s / target=%s",
		row.Index,
		strings.Join(parts, ", "),
		FormatDecimal(sum),
		FormatDecimal(row.Target),
	)
}
