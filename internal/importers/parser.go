package importers

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one data line of an import file, keyed by header name.
// Columns keeps the header order; a name appears once even if the header repeats it.
type Row struct {
	Line    int
	Columns []string
	Values  map[string]string
}

// Get returns the value of a column and whether the row has it.
func (r Row) Get(name string) (string, bool) {
	v, ok := r.Values[name]
	return v, ok
}

// RowReader reads rows from CSV input.
type RowReader struct {
	csv    *csv.Reader
	header []string
}

// NewRowReader reads the header line. Empty input or an unparseable header
// returns an error wrapping ErrFormat.
func NewRowReader(r io.Reader) (*RowReader, error) {
	br := bufio.NewReader(r)
	if prefix, _ := br.Peek(len(utf8BOM)); bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header row", ErrFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", ErrFormat, err)
	}

	names := make([]string, len(header))
	blank := true
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
		if names[i] != "" {
			blank = false
		}
	}
	if blank {
		return nil, fmt.Errorf("%w: header row has no column names", ErrFormat)
	}

	return &RowReader{csv: reader, header: names}, nil
}

// Header returns the column names in file order.
func (p *RowReader) Header() []string {
	return p.header
}

// Next returns the next row, io.EOF at the end of input, or a *LineError for
// a malformed line that the caller may skip.
func (p *RowReader) Next() (Row, error) {
	record, err := p.csv.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return Row{}, &LineError{Line: parseErr.StartLine, Err: parseErr.Err}
		}
		return Row{}, err
	}

	line, _ := p.csv.FieldPos(0)
	return p.zip(record, line), nil
}

// zip pairs header names with values up to the shorter of the two.
// A repeated header name keeps its first position and takes the last value.
func (p *RowReader) zip(record []string, line int) Row {
	n := min(len(p.header), len(record))
	row := Row{
		Line:    line,
		Columns: make([]string, 0, n),
		Values:  make(map[string]string, n),
	}
	for i := 0; i < n; i++ {
		name := p.header[i]
		if name == "" {
			continue
		}
		if _, seen := row.Values[name]; !seen {
			row.Columns = append(row.Columns, name)
		}
		row.Values[name] = record[i]
	}
	return row
}

// LineError reports a malformed data line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
