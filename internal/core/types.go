// Package core implements the EPR fee compliance pipeline: validation of
// vendor-submitted packaging rows against reference tables, unit
// normalization, fee calculation, and aggregation.
// This package has no UI or transport dependencies and can be used by any
// frontend.
package core

// Severity classifies a validation issue. Errors block a row from producing
// a ProcessedRecord in the hard-reject cases; warnings never do.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ResolutionMode controls how the validator treats a material name that
// cannot be resolved against the registry.
//
// The bulk pre-submission review rejects such rows outright; live
// single-row processing retains them with a zero fee so admins can see and
// correct them. Both behaviors are intentional and caller-selectable.
type ResolutionMode int

const (
	// ResolutionLenient retains rows with unresolvable materials,
	// producing a ProcessedRecord with zero fee.
	ResolutionLenient ResolutionMode = iota

	// ResolutionStrict rejects rows with unresolvable materials.
	ResolutionStrict
)

// Material is one entry in the authoritative material allow-list.
// MaterialName is matched case-insensitively during validation.
type Material struct {
	MaterialName  string `json:"material_name"`
	CategoryGroup string `json:"category_group"`
}

// FeeEntry is the fee schedule row for a single material. The join from
// Material to FeeEntry is by exact material name after the canonical
// material has been resolved.
type FeeEntry struct {
	MaterialName    string  `json:"material_name"`
	FeeCentsPerGram float64 `json:"fee_cents_per_gram"`

	// EcoModulationDiscount is a decimal fraction in [0,1] (0.15 = 15%).
	// nil means the schedule row left it blank, which is treated as 0 at
	// calculation time but kept distinct here.
	EcoModulationDiscount *float64 `json:"eco_modulation_discount,omitempty"`
}

// Vendor identifies a supplier. Exempt vendors bear EPR fee responsibility
// themselves; for non-exempt vendors the retailer is liable. Exemption is
// responsibility attribution only and never changes the fee amount.
type Vendor struct {
	VendorID   string `json:"vendor_id"`
	VendorName string `json:"vendor_name"`
	Exempt     bool   `json:"exempt"`
}

// Product maps a SKU to its owning vendor and category.
type Product struct {
	SKUID    string `json:"sku_id"`
	SKUName  string `json:"sku_name"`
	VendorID string `json:"vendor_id"`
	Category string `json:"category"`
}

// RawRow is a submission row exactly as delivered by file parsing: every
// field is an uninterpreted string that may be empty or malformed.
type RawRow struct {
	VendorID         string `json:"vendor_id"`
	SKUID            string `json:"sku_id"`
	Component        string `json:"component"`
	MaterialName     string `json:"material_name"`
	MaterialCategory string `json:"material_category"`
	WeightValue      string `json:"weight_value"`
	WeightUnit       string `json:"weight_unit"`
	QuantityBasis    string `json:"quantity_basis"`
	CaseSize         string `json:"case_size"`
	Notes            string `json:"notes"`
}

// SubmissionRow is a RawRow after defensive coercion. Weight carries both
// the parsed value and whether parsing succeeded so the validator can
// distinguish "missing" from "zero".
type SubmissionRow struct {
	VendorID         string
	SKUID            string
	Component        string
	MaterialName     string
	MaterialCategory string
	Weight           float64
	WeightOK         bool
	WeightUnit       string
	QuantityBasis    string
	CaseSize         int
	HasCaseSize      bool
	Notes            string
}

// ProcessedRecord is a fully validated, normalized, fee-computed submission
// row. Records are immutable once produced; replacement happens wholesale
// through the processor's update operation.
type ProcessedRecord struct {
	RawRow

	NormalizedWeightGrams float64 `json:"normalized_weight_grams"`
	FeeCents              float64 `json:"fee_cents"`
	FeeRateCentsPerGram   float64 `json:"fee_rate_cents_per_gram"`
	EcoModulationDiscount float64 `json:"eco_modulation_discount"`
	IsExempt              bool    `json:"is_exempt"`

	// HasError records whether validation of this row produced at least
	// one error-severity issue (soft-degraded rows are retained but
	// flagged).
	HasError bool `json:"has_error"`
}

// ValidationIssue is a single diagnostic produced while validating a row.
// Row numbers are 1-based and refer to the submitted data, not file lines.
type ValidationIssue struct {
	Row          int      `json:"row"`
	Field        string   `json:"field"`
	Code         string   `json:"code"`
	Message      string   `json:"message"`
	Severity     Severity `json:"severity"`
	SuggestedFix string   `json:"suggested_fix,omitempty"`
}

// OverviewStats summarizes the current processed-record collection.
type OverviewStats struct {
	VendorCount   int     `json:"vendor_count"`
	SKUCount      int     `json:"sku_count"`
	TotalFeeCents float64 `json:"total_fee_cents"`
	ErrorRows     int     `json:"error_rows"`
	RecordCount   int     `json:"record_count"`
}

// FeeSummary is one SKU's rollup in the top-N-by-fee view.
type FeeSummary struct {
	SKUID           string  `json:"sku_id"`
	SKUName         string  `json:"sku_name"`
	VendorName      string  `json:"vendor_name"`
	TotalGrams      float64 `json:"total_grams"`
	TotalFeeCents   float64 `json:"total_fee_cents"`
	FeePerGramCents float64 `json:"fee_per_gram_cents"`
}

// VendorTotal is one vendor's rollup across all its records.
type VendorTotal struct {
	VendorID      string  `json:"vendor_id"`
	VendorName    string  `json:"vendor_name"`
	TotalFeeCents float64 `json:"total_fee_cents"`
	TotalGrams    float64 `json:"total_grams"`
	SKUCount      int     `json:"sku_count"`
}
