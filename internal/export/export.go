// Package export writes list rows to an .xlsx workbook.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single sheet written.
const SheetName = "Sheet1"

// ErrNoRows is returned when there is nothing to export.
var ErrNoRows = errors.New("no rows to export")

// Column selects one JSON key and the header it is written under.
type Column struct {
	Key   string
	Label string
}

// Write encodes rows as a workbook to w. rows is any value that marshals to a
// JSON array of objects. With no columns every key becomes a header in the
// order first seen; with columns only the listed keys are written.
func Write(w io.Writer, rows any, columns []Column) error {
	f, err := build(rows, columns)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.Write: %w", err)
	}
	return nil
}

// WriteFile writes the workbook to path, appending .xlsx when the name has no
// extension. It returns the path written.
func WriteFile(path string, rows any, columns []Column) (string, error) {
	if filepath.Ext(path) == "" {
		path += ".xlsx"
	}
	f, err := build(rows, columns)
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("export.WriteFile: %w", err)
	}
	return path, nil
}

func build(rows any, columns []Column) (*excelize.File, error) {
	records, err := flatten(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRows
	}

	if len(columns) == 0 {
		columns = discoverColumns(records)
	}

	f := excelize.NewFile()
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c.Label
	}
	if err := setRow(f, 1, header); err != nil {
		f.Close() //nolint:errcheck
		return nil, err
	}

	for i, rec := range records {
		values := make([]any, len(columns))
		for j, c := range columns {
			values[j] = rec.values[c.Key]
		}
		if err := setRow(f, i+2, values); err != nil {
			f.Close() //nolint:errcheck
			return nil, err
		}
	}
	return f, nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("export: row %d: %w", row, err)
	}
	return nil
}

// record is one flattened row with its keys in document order.
type record struct {
	keys   []string
	values map[string]any
}

func discoverColumns(records []record) []Column {
	seen := make(map[string]bool)
	var cols []Column
	for _, rec := range records {
		for _, k := range rec.keys {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, Column{Key: k, Label: k})
			}
		}
	}
	return cols
}

func flatten(rows any) ([]record, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("export: encode rows: %w", err)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("export: rows must be a list: %w", err)
	}

	out := make([]record, 0, len(items))
	for i, item := range items {
		rec, err := decodeRecord(item)
		if err != nil {
			return nil, fmt.Errorf("export: row %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// decodeRecord walks one object with the token API so key order survives.
func decodeRecord(raw json.RawMessage) (record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return record{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return record{}, fmt.Errorf("expected object, got %v", tok)
	}

	rec := record{values: make(map[string]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return record{}, err
		}
		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return record{}, err
		}
		if _, dup := rec.values[key]; !dup {
			rec.keys = append(rec.keys, key)
		}
		rec.values[key] = cellValue(value)
	}
	return rec, nil
}

// cellValue turns a JSON value into something excelize writes natively.
// Nested objects and arrays are written as compact JSON text.
func cellValue(raw json.RawMessage) any {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return trimmed
	}

	switch x := v.(type) {
	case string:
		return x
	case bool:
		return x
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return trimmed
		}
		return buf.String()
	}
}
