// Package merge aligns transformed datasets to a unified schema,
// executes the configured join or concatenation, deduplicates and
// reports statistics. The entry point never panics or returns an error
// value: every failure is captured in the result's Errors sequence.
package merge

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"mergekit/internal/mapping"
	"mergekit/internal/table"
	"mergekit/internal/transform"
)

// JoinType selects how rows of consecutive files are combined.
type JoinType string

const (
	JoinInner JoinType = "inner"
	JoinLeft  JoinType = "left"
	JoinRight JoinType = "right"
	JoinFull  JoinType = "full"
)

// DuplicateStrategy selects what happens to structurally identical rows.
type DuplicateStrategy string

const (
	KeepFirst DuplicateStrategy = "keep_first"
	KeepLast  DuplicateStrategy = "keep_last"
	// MergeValues currently behaves like KeepLast; a field-by-field merge
	// has no defined semantics yet.
	MergeValues DuplicateStrategy = "merge_values"
)

// Options configures a single merge invocation.
type Options struct {
	JoinType         JoinType          `json:"joinType"`
	JoinKey          string            `json:"joinKey,omitempty"`
	HandleDuplicates DuplicateStrategy `json:"handleDuplicates"`
	ValidateTypes    bool              `json:"validateTypes"`
	MaxRows          int               `json:"maxRows,omitempty"`
}

// Statistics are derived counts recomputed on every merge.
type Statistics struct {
	TotalInputRows    int `json:"totalInputRows"`
	MergedRowCount    int `json:"mergedRowCount"`
	DroppedRowCount   int `json:"droppedRowCount"`
	DuplicateRowCount int `json:"duplicateRowCount"`
	NullValueCount    int `json:"nullValueCount"`
}

// MergedDataset is the immutable output of one merge invocation.
type MergedDataset struct {
	ID            string                   `json:"id"`
	Name          string                   `json:"name"`
	SourceFileIDs []string                 `json:"sourceFileIds"`
	Headers       []string                 `json:"headers"`
	Rows          []map[string]table.Cell  `json:"rows"`
	Descriptors   []table.ColumnDescriptor `json:"columnDescriptors"`
	CreatedAt     time.Time                `json:"createdAt"`
	RowCount      int                      `json:"rowCount"`
}

// Result carries the dataset plus statistics and accumulated
// warnings/errors. Callers must check Errors before trusting the
// dataset; Warnings describe degradations that did not abort the merge.
type Result struct {
	Dataset  *MergedDataset `json:"dataset"`
	Stats    Statistics     `json:"stats"`
	Warnings []string       `json:"warnings,omitempty"`
	Errors   []string       `json:"errors,omitempty"`
}

// aligned is one file's rows projected onto the unified schema.
type aligned struct {
	fileID  string
	headers map[string]bool
	rows    [][]table.Cell
}

// Merge transforms each file through its mapping, unifies the schemas
// and combines the rows per the options. It always returns a well-formed
// result.
func Merge(files []*table.ParsedFile, mappings []*mapping.ColumnMapping, opts Options) (result *Result) {
	result = &Result{Dataset: emptyDataset()}
	defer func() {
		if r := recover(); r != nil {
			result = &Result{
				Dataset: emptyDataset(),
				Errors:  []string{fmt.Sprintf("merge failed: %v", r)},
			}
		}
	}()

	if len(files) == 0 {
		result.Errors = append(result.Errors, "no files to merge")
		return result
	}
	if len(mappings) == 0 {
		result.Errors = append(result.Errors, "no column mappings provided")
		return result
	}

	fileByID := make(map[string]*table.ParsedFile, len(files))
	for _, f := range files {
		if f != nil {
			fileByID[f.ID] = f
		}
	}

	// Transform every mapped file; a missing or unparsed file degrades to
	// a warning, not a failure.
	type transformed struct {
		fileID  string
		headers []string
		rows    [][]table.Cell
	}
	var inputs []transformed
	var sourceIDs []string
	for _, m := range mappings {
		f, ok := fileByID[m.SourceFileID]
		if !ok || !f.Parsed() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("mapping %s references missing or unparsed file %s; skipped", m.ID, m.SourceFileID))
			continue
		}
		if opts.ValidateTypes {
			result.Warnings = append(result.Warnings, mapping.Validate(m, f, nil)...)
		}
		headers, rows := transform.Apply(f.Headers, f.Rows, m.Entries)
		inputs = append(inputs, transformed{fileID: f.ID, headers: headers, rows: rows})
		sourceIDs = append(sourceIDs, f.ID)
		result.Stats.TotalInputRows += len(rows)
	}
	if len(inputs) == 0 {
		result.Errors = append(result.Errors, "no usable files after applying mappings")
		return result
	}

	headerSets := make([][]string, len(inputs))
	for i, in := range inputs {
		headerSets[i] = in.headers
	}
	unified := unifySchema(headerSets)

	datasets := make([]aligned, len(inputs))
	for i, in := range inputs {
		datasets[i] = alignToSchema(in.fileID, in.headers, in.rows, unified)
	}

	rows, dropped := combine(datasets, unified, opts, &result.Warnings)
	result.Stats.DroppedRowCount += dropped

	if opts.HandleDuplicates != KeepFirst && opts.HandleDuplicates != "" {
		rows, result.Stats.DuplicateRowCount = dedupe(rows)
	}

	for _, row := range rows {
		for _, c := range row {
			if c.IsNull() {
				result.Stats.NullValueCount++
			}
		}
	}

	if opts.MaxRows > 0 && len(rows) > opts.MaxRows {
		result.Stats.DroppedRowCount += len(rows) - opts.MaxRows
		rows = rows[:opts.MaxRows]
	}
	result.Stats.MergedRowCount = len(rows)

	result.Dataset = buildDataset(sourceIDs, unified, rows)
	return result
}

// unifySchema orders the union of all target headers by how many files
// carry them, most shared first, ties alphabetical.
func unifySchema(headerSets [][]string) []string {
	freq := make(map[string]int)
	for _, headers := range headerSets {
		seen := make(map[string]bool, len(headers))
		for _, h := range headers {
			if !seen[h] {
				freq[h]++
				seen[h] = true
			}
		}
	}
	unified := make([]string, 0, len(freq))
	for h := range freq {
		unified = append(unified, h)
	}
	sort.Slice(unified, func(i, j int) bool {
		if freq[unified[i]] != freq[unified[j]] {
			return freq[unified[i]] > freq[unified[j]]
		}
		return unified[i] < unified[j]
	})
	return unified
}

// alignToSchema pads a file's rows out to the unified schema, nulling
// columns the file does not carry.
func alignToSchema(fileID string, headers []string, rows [][]table.Cell, unified []string) aligned {
	index := make(map[string]int, len(headers))
	has := make(map[string]bool, len(headers))
	for i, h := range headers {
		if !has[h] {
			index[h] = i
			has[h] = true
		}
	}

	out := make([][]table.Cell, len(rows))
	for r, row := range rows {
		padded := make([]table.Cell, len(unified))
		for i, h := range unified {
			if idx, ok := index[h]; ok && idx < len(row) {
				padded[i] = row[idx]
			}
		}
		out[r] = padded
	}
	return aligned{fileID: fileID, headers: has, rows: out}
}

// combine folds the aligned datasets together according to the join
// type. Right and full joins concatenate everything; inner and left
// joins fold pairwise, using the key join when a join key is configured.
func combine(datasets []aligned, unified []string, opts Options, warnings *[]string) ([][]table.Cell, int) {
	switch opts.JoinType {
	case JoinRight, JoinFull:
		var rows [][]table.Cell
		for _, ds := range datasets {
			rows = append(rows, ds.rows...)
		}
		return rows, 0
	}

	keyIdx := -1
	if opts.JoinKey != "" {
		for i, h := range unified {
			if h == opts.JoinKey {
				keyIdx = i
				break
			}
		}
		if keyIdx < 0 {
			*warnings = append(*warnings,
				fmt.Sprintf("join key %q not present in the unified schema; falling back to concatenation", opts.JoinKey))
		}
	}

	accHasKey := keyIdx >= 0 && datasets[0].headers[opts.JoinKey]
	if keyIdx >= 0 && !accHasKey {
		*warnings = append(*warnings,
			fmt.Sprintf("join key %q missing from file %s; falling back to concatenation", opts.JoinKey, datasets[0].fileID))
	}

	acc := datasets[0].rows
	dropped := 0
	for _, ds := range datasets[1:] {
		if keyIdx < 0 || !accHasKey {
			acc = append(acc, ds.rows...)
			continue
		}
		if !ds.headers[opts.JoinKey] {
			*warnings = append(*warnings,
				fmt.Sprintf("join key %q missing from file %s; falling back to concatenation", opts.JoinKey, ds.fileID))
			acc = append(acc, ds.rows...)
			continue
		}
		joined, d := performKeyBasedJoin(acc, ds.rows, keyIdx, opts.JoinType)
		acc = joined
		dropped += d
	}
	return acc, dropped
}

// performKeyBasedJoin merges two aligned row sets on the stringified
// value of the key column. Missing key values join under the empty
// string. Left values win positional conflicts.
func performKeyBasedJoin(left, right [][]table.Cell, keyIdx int, jt JoinType) ([][]table.Cell, int) {
	leftByKey := keyLookup(left, keyIdx)
	rightByKey := keyLookup(right, keyIdx)

	var out [][]table.Cell
	dropped := 0

	switch jt {
	case JoinInner:
		for _, l := range left {
			if r, ok := rightByKey[rowKeyValue(l, keyIdx)]; ok {
				out = append(out, overlay(l, r))
			} else {
				dropped++
			}
		}
		for _, r := range right {
			if _, ok := leftByKey[rowKeyValue(r, keyIdx)]; !ok {
				dropped++
			}
		}
	case JoinLeft:
		for _, l := range left {
			out = append(out, overlay(l, rightByKey[rowKeyValue(l, keyIdx)]))
		}
	case JoinRight:
		for _, r := range right {
			out = append(out, overlay(leftByKey[rowKeyValue(r, keyIdx)], r))
		}
	case JoinFull:
		for _, l := range left {
			out = append(out, overlay(l, rightByKey[rowKeyValue(l, keyIdx)]))
		}
		for _, r := range right {
			if _, ok := leftByKey[rowKeyValue(r, keyIdx)]; !ok {
				out = append(out, overlay(nil, r))
			}
		}
	default:
		out = append(out, left...)
		out = append(out, right...)
	}
	return out, dropped
}

func keyLookup(rows [][]table.Cell, keyIdx int) map[string][]table.Cell {
	lookup := make(map[string][]table.Cell, len(rows))
	for _, row := range rows {
		lookup[rowKeyValue(row, keyIdx)] = row
	}
	return lookup
}

func rowKeyValue(row []table.Cell, keyIdx int) string {
	if keyIdx >= len(row) {
		return ""
	}
	return row[keyIdx].String()
}

// overlay starts from an all-null row, lays down the left row, then
// fills still-null positions from the right row.
func overlay(left, right []table.Cell) []table.Cell {
	size := len(left)
	if len(right) > size {
		size = len(right)
	}
	out := make([]table.Cell, size)
	for i := range left {
		out[i] = left[i]
	}
	for i := range right {
		if out[i].IsNull() {
			out[i] = right[i]
		}
	}
	return out
}

// dedupe removes later structural duplicates by replacing the earlier
// occurrence in place, so the last-seen row wins its position.
func dedupe(rows [][]table.Cell) ([][]table.Cell, int) {
	seen := make(map[string]int, len(rows))
	var out [][]table.Cell
	duplicates := 0
	for _, row := range rows {
		key := table.RowKey(row)
		if pos, ok := seen[key]; ok {
			out[pos] = row
			duplicates++
			continue
		}
		seen[key] = len(out)
		out = append(out, row)
	}
	return out, duplicates
}

func buildDataset(sourceIDs, headers []string, rows [][]table.Cell) *MergedDataset {
	records := make([]map[string]table.Cell, len(rows))
	for i, row := range rows {
		record := make(map[string]table.Cell, len(headers))
		for j, h := range headers {
			if j < len(row) {
				record[h] = row[j]
			} else {
				record[h] = table.Null()
			}
		}
		records[i] = record
	}
	return &MergedDataset{
		ID:            uuid.NewString(),
		Name:          "Merged Dataset",
		SourceFileIDs: sourceIDs,
		Headers:       headers,
		Rows:          records,
		Descriptors:   table.DescribeColumns(headers, rows),
		CreatedAt:     time.Now().UTC(),
		RowCount:      len(rows),
	}
}

func emptyDataset() *MergedDataset {
	return &MergedDataset{
		ID:        uuid.NewString(),
		Name:      "Merged Dataset",
		Headers:   []string{},
		Rows:      []map[string]table.Cell{},
		CreatedAt: time.Now().UTC(),
	}
}
