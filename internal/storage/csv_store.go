package storage

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vitebski/customer-data-cleaner/internal/table"
)

// byteOrderMark is stripped from the front of UTF-8 CSV files
var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// CSVStore loads and saves tables as CSV files
type CSVStore struct {
	Logger *logrus.Logger
}

// NewCSVStore creates a new CSV store
func NewCSVStore(logger *logrus.Logger) *CSVStore {
	return &CSVStore{Logger: logger}
}

// Load reads the whole file into a table. Empty cells become nulls; each
// column is parsed into the narrowest kind that fits every non-null value,
// otherwise it stays textual.
func (s *CSVStore) Load(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, byteOrderMark)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s has no header row", path)
	}
	if len(records) == 1 {
		return nil, fmt.Errorf("%s contains no data rows", path)
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.TrimSpace(col)
	}

	rows := make([][]string, len(records)-1)
	for i, record := range records[1:] {
		rows[i] = padRow(record, len(header))
	}

	t := table.New(header...)
	kinds := make([]table.Kind, len(header))
	for i := range header {
		kinds[i] = profileColumn(rows, i)
	}
	for _, record := range rows {
		row := make(table.Row, len(header))
		for i, col := range header {
			row[col] = coerceCell(kinds[i], record[i])
		}
		t.AppendRow(row)
	}

	s.Logger.Infof("Loaded %d rows x %d columns from %s", t.NumRows(), t.NumCols(), path)
	return t, nil
}

// Save writes the table as CSV, creating parent directories as needed.
// Null cells render as empty fields.
func (s *CSVStore) Save(path string, t *table.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	buffered := bufio.NewWriter(f)
	writer := csv.NewWriter(buffered)

	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header to %s: %w", path, err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = table.Render(row[col])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing row to %s: %w", path, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}

	s.Logger.Infof("Saved %d rows x %d columns to %s", t.NumRows(), t.NumCols(), path)
	return nil
}

// padRow grows or trims a record to the expected width
func padRow(record []string, width int) []string {
	if len(record) == width {
		return record
	}
	padded := make([]string, width)
	copy(padded, record)
	return padded
}

// profileColumn picks the narrowest kind that parses every non-empty value
// in the column
func profileColumn(rows [][]string, idx int) table.Kind {
	seen := false
	isBool, isInt, isFloat, isDate := true, true, true, true

	for _, record := range rows {
		v := record[idx]
		if v == "" {
			continue
		}
		seen = true
		if isBool && v != "true" && v != "false" {
			isBool = false
		}
		if isInt && !looksLikeInt(v) {
			isInt = false
		}
		if isFloat && !looksLikeFloat(v) {
			isFloat = false
		}
		if isDate {
			if _, err := time.Parse(table.DateLayout, v); err != nil {
				isDate = false
			}
		}
		if !isBool && !isInt && !isFloat && !isDate {
			return table.KindString
		}
	}

	switch {
	case !seen:
		return table.KindString
	case isBool:
		return table.KindBool
	case isInt:
		return table.KindInt
	case isFloat:
		return table.KindFloat
	case isDate:
		return table.KindDate
	}
	return table.KindString
}

// looksLikeInt accepts base-10 integers. Values with leading zeros or an
// explicit plus sign are identifiers, not numbers, and stay textual.
func looksLikeInt(v string) bool {
	if strings.HasPrefix(v, "+") || hasLeadingZero(v) {
		return false
	}
	_, err := strconv.ParseInt(v, 10, 64)
	return err == nil
}

// looksLikeFloat accepts decimal numbers under the same leading-zero rule
func looksLikeFloat(v string) bool {
	if strings.HasPrefix(v, "+") || hasLeadingZero(v) {
		return false
	}
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

// hasLeadingZero reports whether v is a digit run padded with zeros, like
// 007 or -007, which must survive as text
func hasLeadingZero(v string) bool {
	s := strings.TrimPrefix(v, "-")
	return len(s) > 1 && s[0] == '0' && s[1] != '.'
}

// coerceCell converts a raw field into the column's kind. Profiling already
// proved every non-empty value parses.
func coerceCell(kind table.Kind, raw string) interface{} {
	if raw == "" {
		return nil
	}
	switch kind {
	case table.KindBool:
		return raw == "true"
	case table.KindInt:
		n, _ := strconv.ParseInt(raw, 10, 64)
		return n
	case table.KindFloat:
		f, _ := strconv.ParseFloat(raw, 64)
		return f
	case table.KindDate:
		d, _ := time.Parse(table.DateLayout, raw)
		return d
	default:
		return raw
	}
}
