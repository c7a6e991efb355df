package match

import (
	"fmt"

	"mergekit/internal/table"
)

type typePair struct {
	source, target table.TypeTag
}

// compatiblePairs lists the allowed non-identity conversions. The table
// is asymmetric on purpose: string is never an implicit source for
// number or date, so no parse-back is ever assumed during mapping.
var compatiblePairs = map[typePair]bool{
	{table.TypeNumber, table.TypeString}:  true,
	{table.TypeDate, table.TypeString}:    true,
	{table.TypeBoolean, table.TypeString}: true,
	{table.TypeBoolean, table.TypeNumber}: true,
}

// AreCompatible reports whether a source column type can be mapped onto
// a target column type. Mixed and unknown are permissive in both
// directions.
func AreCompatible(source, target table.TypeTag) bool {
	if source == target {
		return true
	}
	if source == table.TypeMixed || source == table.TypeUnknown {
		return true
	}
	if target == table.TypeMixed || target == table.TypeUnknown {
		return true
	}
	return compatiblePairs[typePair{source, target}]
}

// conversionConfidences scores the non-identity conversions.
var conversionConfidences = map[typePair]float64{
	{table.TypeNumber, table.TypeString}:  0.95,
	{table.TypeDate, table.TypeString}:    0.90,
	{table.TypeBoolean, table.TypeString}: 0.95,
	{table.TypeBoolean, table.TypeNumber}: 0.80,
	{table.TypeMixed, table.TypeString}:   0.70,
	{table.TypeUnknown, table.TypeString}: 0.50,
}

const defaultConversionConfidence = 0.3

// ConversionConfidence scores how safely source values convert to the
// target type: 1.0 for identity, a fixed pair score otherwise.
func ConversionConfidence(source, target table.TypeTag) float64 {
	if source == target {
		return 1.0
	}
	if conf, ok := conversionConfidences[typePair{source, target}]; ok {
		return conf
	}
	return defaultConversionConfidence
}

// transformationHints phrases the usual conversions for display.
var transformationHints = map[typePair]string{
	{table.TypeNumber, table.TypeString}:  "format numbers as text",
	{table.TypeDate, table.TypeString}:    "format dates as text",
	{table.TypeBoolean, table.TypeString}: "convert booleans to true/false text",
	{table.TypeBoolean, table.TypeNumber}: "convert booleans to 1/0",
	{table.TypeMixed, table.TypeString}:   "convert all values to text",
}

// SuggestTransformation describes the conversion a mapping between the
// two types implies; empty for identity.
func SuggestTransformation(source, target table.TypeTag) string {
	if source == target {
		return ""
	}
	if hint, ok := transformationHints[typePair{source, target}]; ok {
		return hint
	}
	return fmt.Sprintf("convert %s values to %s", source, target)
}
