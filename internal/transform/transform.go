// Package transform applies per-column value transformations to a
// file's rows according to its column mapping.
package transform

import (
	"math"
	"strconv"
	"strings"

	"mergekit/internal/mapping"
	"mergekit/internal/table"
)

const (
	// DefaultDatePattern is the dayjs-style output pattern for date_format.
	DefaultDatePattern = "YYYY-MM-DD"

	// DefaultDecimals is the rounding precision for number_format.
	DefaultDecimals = 2
)

// Apply projects the input rows onto the mapping's target columns and
// runs each entry's transform. Inputs are never mutated; absent source
// columns yield null cells. Duplicate target columns are emitted as-is;
// guarding against them is the validator's job, not the transformer's.
func Apply(headers []string, rows [][]table.Cell, entries []mapping.Entry) ([]string, [][]table.Cell) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, ok := index[h]; !ok {
			index[h] = i
		}
	}

	outHeaders := make([]string, len(entries))
	for i, e := range entries {
		outHeaders[i] = e.TargetColumn
	}

	outRows := make([][]table.Cell, len(rows))
	for r, row := range rows {
		out := make([]table.Cell, len(entries))
		for i, e := range entries {
			cell := table.Null()
			if idx, ok := index[e.SourceColumn]; ok && idx < len(row) {
				cell = row[idx]
			}
			if !cell.IsNull() {
				cell = applyTransform(cell, e)
			}
			out[i] = cell
		}
		outRows[r] = out
	}
	return outHeaders, outRows
}

func applyTransform(cell table.Cell, e mapping.Entry) table.Cell {
	switch e.Transform {
	case mapping.TransformUppercase:
		return table.String(strings.ToUpper(cell.String()))
	case mapping.TransformLowercase:
		return table.String(strings.ToLower(cell.String()))
	case mapping.TransformDateFormat:
		return formatDate(cell, e.Params)
	case mapping.TransformNumberFormat:
		return formatNumber(cell, e.Params)
	default:
		return cell
	}
}

func formatDate(cell table.Cell, params map[string]string) table.Cell {
	pattern := params["format"]
	if pattern == "" {
		pattern = DefaultDatePattern
	}
	layout := toGoLayout(pattern)

	switch cell.Kind {
	case table.KindDate:
		return table.String(cell.Time.Format(layout))
	case table.KindString:
		if t, ok := table.ParseDate(cell.Str); ok {
			return table.String(t.Format(layout))
		}
	}
	return cell
}

// layoutTokens maps the pattern tokens the UI understands onto Go
// reference-time fragments. Longer tokens first so MM wins over M.
var layoutTokens = []struct{ token, layout string }{
	{"YYYY", "2006"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
}

func toGoLayout(pattern string) string {
	for _, t := range layoutTokens {
		pattern = strings.ReplaceAll(pattern, t.token, t.layout)
	}
	return pattern
}

func formatNumber(cell table.Cell, params map[string]string) table.Cell {
	decimals := DefaultDecimals
	if d, err := strconv.Atoi(params["decimals"]); err == nil && d >= 0 {
		decimals = d
	}

	switch cell.Kind {
	case table.KindNumber:
		return table.Number(round(cell.Num, decimals))
	case table.KindString:
		if f, err := strconv.ParseFloat(strings.TrimSpace(cell.Str), 64); err == nil {
			return table.Number(round(f, decimals))
		}
	}
	return cell
}

func round(f float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(f*pow) / pow
}
