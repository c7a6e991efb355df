package table

// ParsedFile is the read-only representation of one ingested tabular file:
// an ordered header row, coerced cell rows of matching width, and a column
// descriptor per header. Ownership stays with the ingesting side; the
// matching and merge engines only read it.
type ParsedFile struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Headers     []string           `json:"headers"`
	Rows        [][]Cell           `json:"rows"`
	Descriptors []ColumnDescriptor `json:"columnDescriptors"`
}

// Parsed reports whether the file carries usable data.
func (f *ParsedFile) Parsed() bool {
	return f != nil && len(f.Headers) > 0
}

// Column returns the values of the named column in row order, and whether
// the column exists.
func (f *ParsedFile) Column(name string) ([]Cell, bool) {
	idx := -1
	for i, h := range f.Headers {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	col := make([]Cell, len(f.Rows))
	for i, row := range f.Rows {
		if idx < len(row) {
			col[i] = row[idx]
		}
	}
	return col, true
}

// Descriptor returns the descriptor of the named column, if present.
func (f *ParsedFile) Descriptor(name string) (ColumnDescriptor, bool) {
	for _, d := range f.Descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return ColumnDescriptor{}, false
}

// DescribeColumns computes a descriptor for every header over the given
// rows. Rows shorter than the header span contribute nulls for the
// missing positions.
func DescribeColumns(headers []string, rows [][]Cell) []ColumnDescriptor {
	descs := make([]ColumnDescriptor, len(headers))
	for i, h := range headers {
		col := make([]Cell, len(rows))
		for j, row := range rows {
			if i < len(row) {
				col[j] = row[i]
			}
		}
		descs[i] = DescribeColumn(h, col)
	}
	return descs
}
