package core

// fees.go computes the EPR fee for a normalized weight under the
// eco-modulation formula. This is the single source of truth for the fee
// calculation; no other formula variant exists in the system.

import "math"

// FeeResult is the outcome of a fee calculation.
type FeeResult struct {
	FeeCents            float64
	FeeRateCentsPerGram float64
	EcoDiscount         float64
}

// ComputeFee calculates the fee owed for normalizedGrams of a material.
//
//	fee_cents = grams × fee_cents_per_gram × (1 − eco_discount)
//
// The eco-modulation discount is a decimal fraction (0.15 = 15%), never a
// percentage, and defaults to 0 when the fee schedule leaves it blank.
// A nil entry (no fee scheduled for the material) yields all zeros.
// Any NaN or infinite intermediate collapses to 0 so malformed reference
// data can never propagate into totals.
func ComputeFee(normalizedGrams float64, entry *FeeEntry) FeeResult {
	if entry == nil {
		return FeeResult{}
	}

	discount := 0.0
	if entry.EcoModulationDiscount != nil {
		discount = *entry.EcoModulationDiscount
	}

	result := FeeResult{
		FeeCents:            normalizedGrams * entry.FeeCentsPerGram * (1 - discount),
		FeeRateCentsPerGram: entry.FeeCentsPerGram,
		EcoDiscount:         discount,
	}

	result.FeeCents = sanitizeFee(result.FeeCents)
	result.FeeRateCentsPerGram = sanitizeFee(result.FeeRateCentsPerGram)
	result.EcoDiscount = sanitizeFee(result.EcoDiscount)

	return result
}

// sanitizeFee clamps NaN, infinite, and negative values to 0.
func sanitizeFee(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
