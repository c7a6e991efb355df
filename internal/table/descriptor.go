package table

// TypeTag is the inferred semantic type of a column.
type TypeTag string

const (
	TypeString  TypeTag = "string"
	TypeNumber  TypeTag = "number"
	TypeDate    TypeTag = "date"
	TypeBoolean TypeTag = "boolean"
	TypeMixed   TypeTag = "mixed"
	TypeUnknown TypeTag = "unknown"
)

const (
	// DominantTypeConfidence is the fraction of non-null values that must
	// share the dominant kind before a column keeps that type.
	DominantTypeConfidence = 0.8

	// MixedConfidence is the confidence assigned to columns demoted to mixed.
	MixedConfidence = 0.5

	// MaxSamples caps the number of sample values retained per column.
	MaxSamples = 10

	// mixedMinNonNull is the sample count above which a low-confidence
	// column is demoted to mixed rather than kept at its dominant type.
	mixedMinNonNull = 5
)

// ColumnDescriptor summarizes a column's inferred type and value statistics.
type ColumnDescriptor struct {
	Name         string  `json:"name"`
	InferredType TypeTag `json:"inferredType"`
	Confidence   float64 `json:"confidence"`
	NullCount    int     `json:"nullCount"`
	UniqueCount  int     `json:"uniqueCount"`
	Samples      []Cell  `json:"samples"`
}

// kindPriority fixes which kind wins a dominance tie.
var kindPriority = []Kind{KindString, KindNumber, KindDate, KindBool}

func tagForKind(k Kind) TypeTag {
	switch k {
	case KindString:
		return TypeString
	case KindNumber:
		return TypeNumber
	case KindDate:
		return TypeDate
	case KindBool:
		return TypeBoolean
	default:
		return TypeUnknown
	}
}

// DescribeColumn infers a column descriptor from its cell values. The
// column name is carried through but not yet used for detection.
func DescribeColumn(name string, values []Cell) ColumnDescriptor {
	desc := ColumnDescriptor{Name: name}

	counts := make(map[Kind]int)
	unique := make(map[string]struct{})
	nonNull := 0
	for _, v := range values {
		unique[v.key()] = struct{}{}
		if v.IsNull() {
			desc.NullCount++
			continue
		}
		nonNull++
		counts[v.Kind]++
		if len(desc.Samples) < MaxSamples {
			desc.Samples = append(desc.Samples, v)
		}
	}
	desc.UniqueCount = len(unique)

	if nonNull == 0 {
		desc.InferredType = TypeUnknown
		return desc
	}

	dominant := KindString
	best := -1
	for _, k := range kindPriority {
		if counts[k] > best {
			dominant = k
			best = counts[k]
		}
	}

	desc.InferredType = tagForKind(dominant)
	desc.Confidence = float64(best) / float64(nonNull)
	if desc.Confidence < DominantTypeConfidence && nonNull > mixedMinNonNull {
		desc.InferredType = TypeMixed
		desc.Confidence = MixedConfidence
	}
	return desc
}
