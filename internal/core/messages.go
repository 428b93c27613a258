// Package core implements the EPR fee compliance pipeline.
//
// # Issue Codes Reference
//
// Validation issues carry a stable code so support staff and export
// consumers can classify them without parsing message text.
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid weight: weight_value is missing, non-numeric, or not positive
//	         Action: Enter the packaging weight as a positive number
//
//	VAL002 - Missing field: a required field is empty
//	         Action: Fill in the named field
//
//	VAL003 - Unknown material: material_name is not on the material list
//	         Action: Use a material from the authoritative list
//
//	VAL004 - Invalid case size: quantity_basis is "case" but case_size is
//	         missing or not a positive whole number
//	         Action: Provide the number of units per case
//
// # Data-Quality Warnings (WRN001-WRN099)
//
//	WRN001 - Unknown unit: weight_unit not recognized; value treated as grams
//	         Action: Use grams, ounces, or pounds
//
//	WRN002 - Outlier weight: normalized weight above the plausibility limit,
//	         suggesting product weight was entered instead of packaging weight
//	         Action: Confirm the weight covers packaging only
//
//	WRN003 - Category mismatch: submitted material_category differs from the
//	         material's category group
//	         Action: Use the suggested category
package core

import "fmt"

// Issue codes for error-severity diagnostics.
const (
	CodeInvalidWeight   = "VAL001"
	CodeMissingField    = "VAL002"
	CodeUnknownMaterial = "VAL003"
	CodeInvalidCaseSize = "VAL004"
)

// Issue codes for warning-severity diagnostics.
const (
	CodeUnknownUnit      = "WRN001"
	CodeOutlierWeight    = "WRN002"
	CodeCategoryMismatch = "WRN003"
)

// OutlierGramsLimit is the normalized weight above which a record is
// flagged as implausibly heavy for packaging. Vendors commonly submit the
// product's weight in the packaging column; 300 g catches most of those.
const OutlierGramsLimit = 300.0

func issueInvalidWeight(row int) ValidationIssue {
	return ValidationIssue{
		Row:          row,
		Field:        "weight_value",
		Code:         CodeInvalidWeight,
		Message:      "weight_value must be a positive number",
		Severity:     SeverityError,
		SuggestedFix: "enter the packaging weight as a positive number",
	}
}

func issueMissingField(row int, field string) ValidationIssue {
	return ValidationIssue{
		Row:      row,
		Field:    field,
		Code:     CodeMissingField,
		Message:  fmt.Sprintf("required field %s is empty", field),
		Severity: SeverityError,
	}
}

func issueUnknownMaterial(row int, name, suggestion string) ValidationIssue {
	issue := ValidationIssue{
		Row:      row,
		Field:    "material_name",
		Code:     CodeUnknownMaterial,
		Message:  fmt.Sprintf("material %q is not on the material list", name),
		Severity: SeverityError,
	}
	if suggestion != "" {
		issue.SuggestedFix = fmt.Sprintf("did you mean %q?", suggestion)
	}
	return issue
}

func issueInvalidCaseSize(row int) ValidationIssue {
	return ValidationIssue{
		Row:          row,
		Field:        "case_size",
		Code:         CodeInvalidCaseSize,
		Message:      fmt.Sprintf("case_size must be a positive whole number when quantity_basis is %q", QuantityBasisCase),
		Severity:     SeverityError,
		SuggestedFix: "provide the number of units per case",
	}
}

func issueUnknownUnit(row int, unit string) ValidationIssue {
	return ValidationIssue{
		Row:          row,
		Field:        "weight_unit",
		Code:         CodeUnknownUnit,
		Message:      fmt.Sprintf("unit %q not recognized; value treated as grams", unit),
		Severity:     SeverityWarning,
		SuggestedFix: "use grams, ounces, or pounds",
	}
}

func issueOutlierWeight(row int, grams float64) ValidationIssue {
	return ValidationIssue{
		Row:          row,
		Field:        "weight_value",
		Code:         CodeOutlierWeight,
		Message:      fmt.Sprintf("normalized weight %.1fg exceeds %.0fg; packaging weights this high usually mean the product weight was submitted", grams, OutlierGramsLimit),
		Severity:     SeverityWarning,
		SuggestedFix: "confirm the weight covers packaging only",
	}
}

func issueCategoryMismatch(row int, submitted, expected string) ValidationIssue {
	return ValidationIssue{
		Row:          row,
		Field:        "material_category",
		Code:         CodeCategoryMismatch,
		Message:      fmt.Sprintf("category %q does not match the material's category group %q", submitted, expected),
		Severity:     SeverityWarning,
		SuggestedFix: expected,
	}
}
