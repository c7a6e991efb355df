// Package ingest turns CSV and XLSX files on disk into parsed-file
// values the engine can consume. CSVs are read through duckdb's read_csv
// with all columns as varchar so the engine's own coercion pass governs
// typing; XLSX sheets come in through excelize.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/xuri/excelize/v2"

	"mergekit/internal/table"
)

// ReadFile dispatches on the file extension.
func ReadFile(ctx context.Context, path string) (*table.ParsedFile, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(ctx, path)
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, "")
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
}

// ReadCSV loads a CSV through duckdb and coerces every cell.
func ReadCSV(ctx context.Context, path string) (*table.ParsedFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	query := fmt.Sprintf("SELECT * FROM read_csv(\"%s\", all_varchar = true, null_padding = true, nullstr = ['null', \"''\"])", abs)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	headers = uniqueHeaders(headers)

	var data [][]table.Cell
	for rows.Next() {
		vals := make([]sql.NullString, len(headers))
		ptrs := make([]any, len(headers))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		cells := make([]table.Cell, len(headers))
		for i, v := range vals {
			if v.Valid {
				cells[i] = table.Coerce(v.String)
			}
		}
		data = append(data, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return newParsedFile(path, headers, data), nil
}

// ReadXLSX loads one sheet of a workbook, the first by default, with the
// first row as headers.
func ReadXLSX(path, sheet string) (*table.ParsedFile, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s has no sheets", path)
		}
		sheet = sheets[0]
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s of %s: %w", sheet, path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("sheet %s of %s is empty", sheet, path)
	}

	headers := uniqueHeaders(raw[0])
	var data [][]table.Cell
	for _, rawRow := range raw[1:] {
		cells := make([]table.Cell, len(headers))
		for i := range headers {
			if i < len(rawRow) {
				cells[i] = table.Coerce(rawRow[i])
			}
		}
		data = append(data, cells)
	}

	return newParsedFile(path, headers, data), nil
}

func newParsedFile(path string, headers []string, rows [][]table.Cell) *table.ParsedFile {
	pf := &table.ParsedFile{
		ID:          uuid.NewString(),
		Name:        filepath.Base(path),
		Headers:     headers,
		Rows:        rows,
		Descriptors: table.DescribeColumns(headers, rows),
	}
	slog.Debug("parsed file", "name", pf.Name, "columns", len(headers), "rows", len(rows))
	return pf
}

// uniqueHeaders disambiguates duplicate header names by suffixing later
// occurrences with their ordinal.
func uniqueHeaders(headers []string) []string {
	seen := make(map[string]int, len(headers))
	out := make([]string, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		seen[h]++
		if n := seen[h]; n > 1 {
			h = fmt.Sprintf("%s_%d", h, n)
		}
		out[i] = h
	}
	return out
}
