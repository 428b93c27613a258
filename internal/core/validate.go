package core

// validate.go checks a coerced submission row against the reference
// registry, producing ordered issues and a rejection decision.
//
// Failures fall into two deliberate categories:
//   - hard reject: structural problems (bad weight, missing required
//     fields) stop the row from producing a record at all;
//   - soft degrade: an unresolvable material keeps the row (zero fee, in
//     lenient mode) so admins reviewing the batch can see and fix it.

// RowResult is the outcome of validating one submission row.
type RowResult struct {
	Issues []ValidationIssue

	// Material is the resolved canonical material, nil if unresolved.
	Material *Material

	// Grams is the normalized per-unit weight. Meaningless when Rejected.
	Grams float64

	// Rejected reports that the row must not produce a ProcessedRecord.
	Rejected bool
}

// ValidateRow runs the ordered validation checks for one row.
//
// Check order: weight presence/positivity, required fields, unit validity,
// case-size application, material resolution, outlier weight, category
// consistency. The first two short-circuit on failure; everything after
// accumulates issues without discarding the row, except that strict mode
// also rejects on unresolvable material and invalid case size.
func ValidateRow(row SubmissionRow, rowNum int, reg *Registry, mode ResolutionMode) RowResult {
	result := RowResult{}

	// 1. Weight must be present, numeric, and positive.
	if !row.WeightOK || row.Weight <= 0 {
		result.Issues = append(result.Issues, issueInvalidWeight(rowNum))
		result.Rejected = true
		return result
	}

	// 2. Required fields.
	if row.MaterialName == "" {
		result.Issues = append(result.Issues, issueMissingField(rowNum, "material_name"))
	}
	if row.WeightUnit == "" {
		result.Issues = append(result.Issues, issueMissingField(rowNum, "weight_unit"))
	}
	if len(result.Issues) > 0 {
		result.Rejected = true
		return result
	}

	// 3-4. Unit conversion and case-size division.
	normalized := NormalizeWeight(row.Weight, row.WeightUnit, row.QuantityBasis, row.CaseSize)
	if normalized.UnitWarning != "" {
		result.Issues = append(result.Issues, issueUnknownUnit(rowNum, normalized.UnitWarning))
	}
	result.Grams = normalized.Grams

	// The bulk-file path reports case-size problems; the live single-row
	// path stays silent and simply skips the division.
	if mode == ResolutionStrict && row.QuantityBasis == QuantityBasisCase && !row.HasCaseSize {
		result.Issues = append(result.Issues, issueInvalidCaseSize(rowNum))
		result.Rejected = true
		return result
	}

	// 5. Material resolution, case-insensitive.
	if material, ok := reg.Material(row.MaterialName); ok {
		result.Material = &material
	} else {
		suggestion := ""
		if s, ok := reg.SuggestMaterial(row.MaterialName); ok {
			suggestion = s.MaterialName
		}
		result.Issues = append(result.Issues, issueUnknownMaterial(rowNum, row.MaterialName, suggestion))
		if mode == ResolutionStrict {
			result.Rejected = true
			return result
		}
	}

	// 6. Outlier weight.
	if result.Grams > OutlierGramsLimit {
		result.Issues = append(result.Issues, issueOutlierWeight(rowNum, result.Grams))
	}

	// 7. Category consistency.
	if result.Material != nil && row.MaterialCategory != "" &&
		row.MaterialCategory != result.Material.CategoryGroup {
		result.Issues = append(result.Issues,
			issueCategoryMismatch(rowNum, row.MaterialCategory, result.Material.CategoryGroup))
	}

	return result
}
