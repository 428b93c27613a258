package core

// units.go normalizes submitted weights into canonical per-unit grams.

import "strings"

// Gram-conversion factors for accepted units. Lookup is case-insensitive.
var unitFactors = map[string]float64{
	"grams":  1,
	"g":      1,
	"ounces": 28.35,
	"oz":     28.35,
	"pounds": 453.59,
	"lbs":    453.59,
}

// QuantityBasisCase marks a weight that covers a whole case of units.
const QuantityBasisCase = "case"

// NormalizedWeight is the result of unit normalization.
type NormalizedWeight struct {
	Grams float64

	// UnitWarning is non-empty when the submitted unit was not recognized
	// and the value was treated as already-grams.
	UnitWarning string
}

// NormalizeWeight converts a raw weight/unit/quantity-basis triple into
// canonical per-unit grams.
//
// Unknown units degrade leniently: the value is taken as grams and a
// warning is reported instead of rejecting the row. When the quantity
// basis is "case" and caseSize is positive, the converted grams are
// divided by caseSize to yield per-unit weight; otherwise the division is
// skipped. Non-positive weights pass through unchanged — weight validity
// is the validator's responsibility.
func NormalizeWeight(value float64, unit, quantityBasis string, caseSize int) NormalizedWeight {
	result := NormalizedWeight{}

	factor, ok := unitFactors[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		factor = 1
		result.UnitWarning = unit
	}

	result.Grams = value * factor

	if strings.EqualFold(strings.TrimSpace(quantityBasis), QuantityBasisCase) && caseSize > 0 {
		result.Grams /= float64(caseSize)
	}

	return result
}
