// Package mapping models per-file column mappings and generates them
// automatically from column-name suggestions and type compatibility.
package mapping

import (
	"fmt"

	"github.com/google/uuid"

	"mergekit/internal/match"
	"mergekit/internal/table"
)

// AutoAcceptConfidence is the default similarity a suggestion must reach
// before the generator accepts it into a mapping.
const AutoAcceptConfidence = 0.7

// Transform names a per-column value transformation.
type Transform string

const (
	TransformNone         Transform = "none"
	TransformUppercase    Transform = "uppercase"
	TransformLowercase    Transform = "lowercase"
	TransformDateFormat   Transform = "date_format"
	TransformNumberFormat Transform = "number_format"
)

// Entry maps one source column onto a target column with an optional
// transformation.
type Entry struct {
	SourceColumn string            `json:"sourceColumn"`
	TargetColumn string            `json:"targetColumn"`
	Transform    Transform         `json:"transform"`
	Params       map[string]string `json:"transformParams,omitempty"`
}

// ColumnMapping binds the entries for one source file, plus the join
// configuration a merge may use.
type ColumnMapping struct {
	ID           string  `json:"id"`
	SourceFileID string  `json:"sourceFileId"`
	TargetFileID string  `json:"targetFileId,omitempty"`
	Entries      []Entry `json:"entries"`
	JoinType     string  `json:"joinType,omitempty"`
	JoinKey      string  `json:"joinKey,omitempty"`
}

// recommendTransform picks the transform the generator attaches to an
// accepted entry based on the two column types.
func recommendTransform(source, target table.TypeTag) Transform {
	switch {
	case source == target:
		return TransformNone
	case source == table.TypeDate && target == table.TypeString:
		return TransformDateFormat
	case source == table.TypeNumber && target == table.TypeString:
		return TransformNumberFormat
	default:
		return TransformNone
	}
}

// GenerateAutoMapping proposes a mapping from every source column to its
// best target candidate, keeping only suggestions at or above threshold
// whose column types are compatible. Columns without an acceptable match
// are omitted, not errors; the caller maps those by hand.
func GenerateAutoMapping(source, target *table.ParsedFile, threshold float64) (*ColumnMapping, error) {
	if !source.Parsed() {
		return nil, fmt.Errorf("source file has no parsed data")
	}
	if !target.Parsed() {
		return nil, fmt.Errorf("target file has no parsed data")
	}
	if threshold <= 0 {
		threshold = AutoAcceptConfidence
	}

	matcher := match.NewColumnMatcher(target.Headers)
	m := &ColumnMapping{
		ID:           uuid.NewString(),
		SourceFileID: source.ID,
		TargetFileID: target.ID,
	}

	for i, header := range source.Headers {
		suggestions := matcher.FindMatches(header, 1)
		if len(suggestions) == 0 {
			continue
		}
		best := suggestions[0]
		if best.Similarity < threshold {
			continue
		}

		sourceType := table.TypeUnknown
		if i < len(source.Descriptors) {
			sourceType = source.Descriptors[i].InferredType
		}
		targetType := table.TypeUnknown
		if desc, ok := target.Descriptor(best.TargetColumn); ok {
			targetType = desc.InferredType
		}
		if !match.AreCompatible(sourceType, targetType) {
			continue
		}

		m.Entries = append(m.Entries, Entry{
			SourceColumn: header,
			TargetColumn: best.TargetColumn,
			Transform:    recommendTransform(sourceType, targetType),
		})
	}
	return m, nil
}

// Validate checks a mapping against its source file and, when given,
// its target file. Violations come back as messages; an empty slice
// means the mapping is structurally sound. Validation never fails hard.
func Validate(m *ColumnMapping, source, target *table.ParsedFile) []string {
	var problems []string
	if m == nil {
		return []string{"mapping is empty"}
	}

	sourceCols := make(map[string]bool, len(source.Headers))
	for _, h := range source.Headers {
		sourceCols[h] = true
	}
	var targetCols map[string]bool
	if target != nil {
		targetCols = make(map[string]bool, len(target.Headers))
		for _, h := range target.Headers {
			targetCols[h] = true
		}
	}

	seenTargets := make(map[string]int)
	for _, e := range m.Entries {
		if !sourceCols[e.SourceColumn] {
			problems = append(problems, fmt.Sprintf("source column %q not found in file %s", e.SourceColumn, m.SourceFileID))
		}
		if targetCols != nil && !targetCols[e.TargetColumn] {
			problems = append(problems, fmt.Sprintf("target column %q not found in file %s", e.TargetColumn, m.TargetFileID))
		}
		seenTargets[e.TargetColumn]++
	}
	for _, e := range m.Entries {
		if seenTargets[e.TargetColumn] > 1 {
			problems = append(problems, fmt.Sprintf("target column %q is mapped multiple times", e.TargetColumn))
			seenTargets[e.TargetColumn] = 0 // report once
		}
	}
	return problems
}

// Identity returns a mapping that passes every column of the file
// through unchanged, used when merging files without a target schema.
func Identity(f *table.ParsedFile) *ColumnMapping {
	m := &ColumnMapping{
		ID:           uuid.NewString(),
		SourceFileID: f.ID,
	}
	for _, h := range f.Headers {
		m.Entries = append(m.Entries, Entry{
			SourceColumn: h,
			TargetColumn: h,
			Transform:    TransformNone,
		})
	}
	return m
}
