package table

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind is the runtime kind of a single cell value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindDate
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindBool:
		return "boolean"
	default:
		return "null"
	}
}

// Cell is a tagged union over the value kinds a column can hold.
// The zero value is the null cell.
type Cell struct {
	Kind Kind
	Str  string
	Num  float64
	Time time.Time
	Bool bool
}

func Null() Cell            { return Cell{} }
func String(s string) Cell  { return Cell{Kind: KindString, Str: s} }
func Number(f float64) Cell { return Cell{Kind: KindNumber, Num: f} }
func Date(t time.Time) Cell { return Cell{Kind: KindDate, Time: t} }
func Bool(b bool) Cell      { return Cell{Kind: KindBool, Bool: b} }

func (c Cell) IsNull() bool { return c.Kind == KindNull }

// String renders the cell for display, join keys and case transforms.
func (c Cell) String() string {
	switch c.Kind {
	case KindString:
		return c.Str
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindDate:
		return c.Time.Format(time.RFC3339)
	case KindBool:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}

// Equal reports value equality. Dates compare by instant.
func (c Cell) Equal(other Cell) bool {
	if c.Kind != other.Kind {
		return false
	}
	switch c.Kind {
	case KindString:
		return c.Str == other.Str
	case KindNumber:
		return c.Num == other.Num
	case KindDate:
		return c.Time.Equal(other.Time)
	case KindBool:
		return c.Bool == other.Bool
	default:
		return true
	}
}

// key is a canonical representation used for uniqueness counting and
// structural row comparison.
func (c Cell) key() string {
	switch c.Kind {
	case KindDate:
		return "d:" + strconv.FormatInt(c.Time.UnixNano(), 10)
	case KindNumber:
		return "n:" + strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindBool:
		return "b:" + strconv.FormatBool(c.Bool)
	case KindString:
		return "s:" + c.Str
	default:
		return ""
	}
}

func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindString:
		return []byte(strconv.Quote(c.Str)), nil
	case KindNumber:
		return []byte(strconv.FormatFloat(c.Num, 'f', -1, 64)), nil
	case KindDate:
		return []byte(strconv.Quote(c.Time.Format(time.RFC3339))), nil
	case KindBool:
		return []byte(strconv.FormatBool(c.Bool)), nil
	default:
		return []byte("null"), nil
	}
}

var nullLike = map[string]bool{
	"":     true,
	"null": true,
	"nil":  true,
	"na":   true,
	"n/a":  true,
}

var (
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	slashDatePattern = regexp.MustCompile(`^\d{1,4}/\d{1,2}/\d{1,4}$`)
)

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var slashLayouts = []string{
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"01/02/2006",
}

// ParseDate attempts to interpret s as a date. Only ISO-like and
// slash-delimited shapes are considered; anything else stays a string.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	switch {
	case isoDatePattern.MatchString(s):
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	case slashDatePattern.MatchString(s):
		for _, layout := range slashLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Coerce applies the uniform string-to-cell coercion pass: null-like
// strings become null, then numeric parse, then date parse, otherwise
// the trimmed string itself.
func Coerce(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if nullLike[strings.ToLower(trimmed)] {
		return Null()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Number(f)
	}
	if t, ok := ParseDate(trimmed); ok {
		return Date(t)
	}
	return String(trimmed)
}

// CoerceRow coerces every raw value of a row.
func CoerceRow(raw []string) []Cell {
	cells := make([]Cell, len(raw))
	for i, v := range raw {
		cells[i] = Coerce(v)
	}
	return cells
}

// RowKey builds a structural identity key over the full positional
// content of a row.
func RowKey(row []Cell) string {
	var b strings.Builder
	for i, c := range row {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(c.key())
	}
	return b.String()
}
