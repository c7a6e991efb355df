package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mergekit/internal/table"
)

func fileOf(id string, headers []string, raw [][]string) *table.ParsedFile {
	rows := make([][]table.Cell, len(raw))
	for i, r := range raw {
		rows[i] = table.CoerceRow(r)
	}
	return &table.ParsedFile{
		ID:          id,
		Name:        id,
		Headers:     headers,
		Rows:        rows,
		Descriptors: table.DescribeColumns(headers, rows),
	}
}

func TestGenerateAutoMapping(t *testing.T) {
	source := fileOf("src", []string{"cust_id", "amount", "notes"}, [][]string{
		{"1", "10.5", "first"},
		{"2", "20.0", "second"},
	})
	target := fileOf("tgt", []string{"customer_id", "total_amount"}, [][]string{
		{"9", "99.9"},
	})

	m, err := GenerateAutoMapping(source, target, 0.7)
	require.NoError(t, err)
	assert.Equal(t, "src", m.SourceFileID)
	assert.Equal(t, "tgt", m.TargetFileID)
	require.Len(t, m.Entries, 2)

	bydest := map[string]Entry{}
	for _, e := range m.Entries {
		bydest[e.TargetColumn] = e
	}
	assert.Equal(t, "cust_id", bydest["customer_id"].SourceColumn)
	assert.Equal(t, "amount", bydest["total_amount"].SourceColumn)
	// Matching number columns need no transform.
	assert.Equal(t, TransformNone, bydest["customer_id"].Transform)
}

func TestGenerateAutoMappingRecommendsTransforms(t *testing.T) {
	source := fileOf("src", []string{"order_date", "price"}, [][]string{
		{"2024-01-02", "10.5"},
		{"2024-01-03", "20"},
	})
	// Target columns hold text, so dates and numbers get formatting
	// transforms on the way over.
	target := fileOf("tgt", []string{"order_date", "price"}, [][]string{
		{"jan 2", "ten"},
	})

	m, err := GenerateAutoMapping(source, target, 0.7)
	require.NoError(t, err)
	require.Len(t, m.Entries, 2)

	bySource := map[string]Entry{}
	for _, e := range m.Entries {
		bySource[e.SourceColumn] = e
	}
	assert.Equal(t, TransformDateFormat, bySource["order_date"].Transform)
	assert.Equal(t, TransformNumberFormat, bySource["price"].Transform)
}

func TestGenerateAutoMappingRejectsIncompatibleTypes(t *testing.T) {
	// Same column name, but the source holds text and the target numbers:
	// string is never an implicit source for number.
	source := fileOf("src", []string{"customer_id"}, [][]string{{"abc"}, {"def"}})
	target := fileOf("tgt", []string{"customer_id"}, [][]string{{"1"}, {"2"}})

	m, err := GenerateAutoMapping(source, target, 0.7)
	require.NoError(t, err)
	assert.Empty(t, m.Entries)
}

func TestGenerateAutoMappingThreshold(t *testing.T) {
	source := fileOf("src", []string{"zebra"}, [][]string{{"a"}})
	target := fileOf("tgt", []string{"quasar"}, [][]string{{"b"}})

	m, err := GenerateAutoMapping(source, target, 0.7)
	require.NoError(t, err)
	assert.Empty(t, m.Entries)
}

func TestGenerateAutoMappingUnparsedInput(t *testing.T) {
	ok := fileOf("ok", []string{"a"}, [][]string{{"1"}})

	_, err := GenerateAutoMapping(&table.ParsedFile{ID: "empty"}, ok, 0.7)
	assert.Error(t, err)
	_, err = GenerateAutoMapping(ok, nil, 0.7)
	assert.Error(t, err)
}

func TestValidateDuplicateTargets(t *testing.T) {
	source := fileOf("src", []string{"a", "b"}, [][]string{{"1", "2"}})
	m := &ColumnMapping{
		ID:           "m1",
		SourceFileID: "src",
		Entries: []Entry{
			{SourceColumn: "a", TargetColumn: "id"},
			{SourceColumn: "b", TargetColumn: "id"},
		},
	}

	problems := Validate(m, source, nil)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], `"id"`)
	assert.Contains(t, problems[0], "multiple times")
}

func TestValidateMissingColumns(t *testing.T) {
	source := fileOf("src", []string{"a"}, [][]string{{"1"}})
	target := fileOf("tgt", []string{"x"}, [][]string{{"1"}})
	m := &ColumnMapping{
		ID:           "m1",
		SourceFileID: "src",
		TargetFileID: "tgt",
		Entries: []Entry{
			{SourceColumn: "ghost", TargetColumn: "x"},
			{SourceColumn: "a", TargetColumn: "phantom"},
		},
	}

	problems := Validate(m, source, target)
	require.Len(t, problems, 2)
	assert.Contains(t, problems[0], `"ghost"`)
	assert.Contains(t, problems[1], `"phantom"`)
}

func TestValidateCleanMapping(t *testing.T) {
	source := fileOf("src", []string{"a", "b"}, [][]string{{"1", "2"}})
	m := &ColumnMapping{
		ID:           "m1",
		SourceFileID: "src",
		Entries: []Entry{
			{SourceColumn: "a", TargetColumn: "x"},
			{SourceColumn: "b", TargetColumn: "y"},
		},
	}
	assert.Empty(t, Validate(m, source, nil))
}

func TestIdentity(t *testing.T) {
	f := fileOf("f", []string{"a", "b"}, [][]string{{"1", "2"}})
	m := Identity(f)
	require.Len(t, m.Entries, 2)
	assert.Equal(t, "a", m.Entries[0].SourceColumn)
	assert.Equal(t, "a", m.Entries[0].TargetColumn)
	assert.Equal(t, TransformNone, m.Entries[0].Transform)
	assert.Empty(t, Validate(m, f, nil))
}
