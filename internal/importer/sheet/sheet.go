// Package sheet reads semicolon separated spreadsheets whose layout is
// recognised from their header row.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Tim1593/shop-db2/internal/encoding"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

// Record is one data row.
type Record struct {
	// Line is the 1-based line number in the file.
	Line  int
	cells []string
	idx   map[string]int
}

// Value returns the trimmed cell of field, or "" when the row has none.
func (r Record) Value(field string) string {
	i, ok := r.idx[field]
	if !ok || i >= len(r.cells) {
		return ""
	}

	return strings.TrimSpace(r.cells[i])
}

// Sheet is a parsed file.
type Sheet struct {
	Charset string
	// Headerless is set when the columns were taken in profile order.
	Headerless bool
	Records    []Record
}

// Read decodes r to UTF-8 and parses it against p. A header row is searched
// for first; files starting straight with numeric data are read positionally.
func Read(r io.Reader, p *Profile) (*Sheet, error) {
	utf8r, charset, err := encoding.UTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []row

	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, shoperr.Field(shoperr.ErrInvalidData, fmt.Sprintf("csv: %v", err))
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, row{line: line, cells: cells})
	}

	idx, start, headerless, ok := locate(p, rows)
	if !ok {
		return nil, shoperr.Field(shoperr.ErrDataMissing, fmt.Sprintf("%s header", p.Name))
	}

	s := &Sheet{Charset: charset, Headerless: headerless}

	for _, rw := range rows[start:] {
		if blank(rw.cells) {
			continue
		}

		s.Records = append(s.Records, Record{Line: rw.line, cells: rw.cells, idx: idx})
	}

	return s, nil
}

type row struct {
	line  int
	cells []string
}

// locate returns the column indices of p and the index of the first data
// row. Rows before the header, like a title line, are skipped.
func locate(p *Profile, rows []row) (idx map[string]int, start int, headerless, ok bool) {
	for i, rw := range rows {
		if blank(rw.cells) {
			continue
		}

		if idx, ok := p.match(rw.cells); ok {
			return idx, i + 1, false, true
		}

		if _, err := strconv.ParseInt(strings.TrimSpace(rw.cells[0]), 10, 64); err == nil {
			return p.positional(), i, true, true
		}
	}

	return nil, 0, false, false
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
