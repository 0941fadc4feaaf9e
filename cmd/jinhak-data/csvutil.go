package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jinhak-io/jinhak/modules/catalog/ingest"
)

// Column contract for requirement files. program_part2 and note may be
// omitted entirely; the required columns must be present even when
// individual cells are empty.
var (
	requiredColumns = []string{"institution", "program_part1", "core_subjects", "recommended_subjects"}
	allowedColumns  = []string{
		"institution", "program_part1", "program_part2",
		"core_subjects", "recommended_subjects", "note",
	}
)

// catalogHeaderIndex validates a header row against the column contract and
// returns the column-to-position map. Shared by the CSV and XLSX readers.
func catalogHeaderIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if !utf8.ValidString(name) {
			return nil, fmt.Errorf("invalid header encoding (expected UTF-8)")
		}
		idx[name] = i
	}
	for _, req := range requiredColumns {
		if _, ok := idx[req]; !ok {
			return nil, fmt.Errorf("missing required header column: %s", req)
		}
	}
	allowed := make(map[string]struct{}, len(allowedColumns))
	for _, name := range allowedColumns {
		allowed[name] = struct{}{}
	}
	for name := range idx {
		if _, ok := allowed[name]; !ok {
			return nil, fmt.Errorf("unexpected header column: %s", name)
		}
	}
	return idx, nil
}

// catalogCSV reads requirement rows from a CSV export. Korean spreadsheets
// saved by legacy tools often arrive as CP949; rows that do not decode as
// UTF-8 are rejected with their line number instead of being ingested as
// mojibake.
type catalogCSV struct {
	r       *csv.Reader
	closeFn func() error
	idx     map[string]int
	line    int
}

func openCatalogCSV(path string) (*catalogCSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	// Excel prepends a UTF-8 BOM on CSV exports
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		_ = f.Close()
		if err == io.EOF {
			return nil, fmt.Errorf("missing header")
		}
		return nil, err
	}
	idx, err := catalogHeaderIndex(header)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &catalogCSV{r: r, closeFn: f.Close, idx: idx, line: 1}, nil
}

// Next returns the next requirement row. ok is false at end of input.
func (c *catalogCSV) Next() (row ingest.RawRow, ok bool, err error) {
	c.line++
	rec, err := c.r.Read()
	if err != nil {
		if err == io.EOF {
			return ingest.RawRow{}, false, nil
		}
		return ingest.RawRow{}, false, fmt.Errorf("line %d: %w", c.line, err)
	}
	for _, field := range rec {
		if !utf8.ValidString(field) {
			return ingest.RawRow{}, false, fmt.Errorf("line %d: invalid encoding (expected UTF-8, got CP949?)", c.line)
		}
	}
	return rowFromRecord(c.line, rec, c.idx), true, nil
}

func (c *catalogCSV) Close() error {
	return c.closeFn()
}
