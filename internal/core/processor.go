package core

// processor.go orchestrates the per-row pipeline (parse, validate,
// normalize, compute fee) and owns the batch state: the processed-record
// collection and the accumulated issue list.

import "strings"

// Processor runs submission rows through the pipeline and accumulates the
// results. It is the single owner of the mutable batch state; callers in
// concurrent contexts must serialize access themselves.
//
// The issue list is append-only across calls and never deduplicated:
// reprocessing the same data without ClearAll first produces duplicate
// diagnostics by design.
type Processor struct {
	registry *Registry
	mode     ResolutionMode

	records []ProcessedRecord
	issues  []ValidationIssue
}

// NewProcessor creates a processor bound to a loaded registry.
// The resolution mode decides whether unresolvable materials reject rows
// (strict, bulk review) or retain them with zero fee (lenient, live entry).
func NewProcessor(reg *Registry, mode ResolutionMode) *Processor {
	return &Processor{registry: reg, mode: mode}
}

// ProcessRow runs one raw row through the pipeline. The returned record is
// nil for hard-rejected rows. All issues produced by validation are
// appended to the shared issue collection regardless of outcome.
func (p *Processor) ProcessRow(raw RawRow, rowNum int) *ProcessedRecord {
	record, _ := p.buildRecord(raw, rowNum)
	if record == nil {
		return nil
	}
	p.records = append(p.records, *record)
	return record
}

// ProcessBatch replaces the accumulated state with the result of
// processing rows. Row numbers are 1-based positions within the batch.
func (p *Processor) ProcessBatch(rows []RawRow) {
	p.ClearAll()
	for i, raw := range rows {
		p.ProcessRow(raw, i+1)
	}
}

// AddRecord appends a single row, numbering it after the current records.
func (p *Processor) AddRecord(raw RawRow) *ProcessedRecord {
	return p.ProcessRow(raw, len(p.records)+1)
}

// UpdateRecord merges non-empty fields of patch into the record at index
// and reprocesses it wholesale. Out-of-range indexes are a no-op, as is a
// patch whose merged row no longer passes hard validation — in both cases
// the existing record is kept (issues from the failed attempt are still
// appended for visibility).
func (p *Processor) UpdateRecord(index int, patch RawRow) bool {
	if index < 0 || index >= len(p.records) {
		return false
	}

	merged := mergeRaw(p.records[index].RawRow, patch)
	record, _ := p.buildRecord(merged, index+1)
	if record == nil {
		return false
	}

	p.records[index] = *record
	return true
}

// FindRecord locates a record by its (sku_id, material_name) composite
// identity, matching the material case-insensitively. Returns the index of
// the first match.
func (p *Processor) FindRecord(skuID, materialName string) (int, bool) {
	for i, rec := range p.records {
		if rec.SKUID == skuID && strings.EqualFold(rec.MaterialName, materialName) {
			return i, true
		}
	}
	return 0, false
}

// ClearAll empties both the record and issue collections.
func (p *Processor) ClearAll() {
	p.records = nil
	p.issues = nil
}

// Records returns a copy of the processed-record collection.
func (p *Processor) Records() []ProcessedRecord {
	out := make([]ProcessedRecord, len(p.records))
	copy(out, p.records)
	return out
}

// Issues returns a copy of the accumulated issue collection.
func (p *Processor) Issues() []ValidationIssue {
	out := make([]ValidationIssue, len(p.issues))
	copy(out, p.issues)
	return out
}

// buildRecord runs the pipeline for one row and appends its issues.
// Returns (nil, true) when the row was rejected.
func (p *Processor) buildRecord(raw RawRow, rowNum int) (*ProcessedRecord, bool) {
	row := ParseRow(raw)
	result := ValidateRow(row, rowNum, p.registry, p.mode)
	p.issues = append(p.issues, result.Issues...)

	if result.Rejected {
		return nil, true
	}

	var entry *FeeEntry
	if result.Material != nil {
		if fee, ok := p.registry.Fee(result.Material.MaterialName); ok {
			entry = &fee
		}
	}
	fee := ComputeFee(result.Grams, entry)

	isExempt := false
	if vendor, ok := p.registry.Vendor(row.VendorID); ok {
		isExempt = vendor.Exempt
	}

	hasError := false
	for _, issue := range result.Issues {
		if issue.Severity == SeverityError {
			hasError = true
			break
		}
	}

	return &ProcessedRecord{
		RawRow:                raw,
		NormalizedWeightGrams: result.Grams,
		FeeCents:              fee.FeeCents,
		FeeRateCentsPerGram:   fee.FeeRateCentsPerGram,
		EcoModulationDiscount: fee.EcoDiscount,
		IsExempt:              isExempt,
		HasError:              hasError,
	}, false
}

// mergeRaw overlays non-empty patch fields onto base.
func mergeRaw(base, patch RawRow) RawRow {
	if patch.VendorID != "" {
		base.VendorID = patch.VendorID
	}
	if patch.SKUID != "" {
		base.SKUID = patch.SKUID
	}
	if patch.Component != "" {
		base.Component = patch.Component
	}
	if patch.MaterialName != "" {
		base.MaterialName = patch.MaterialName
	}
	if patch.MaterialCategory != "" {
		base.MaterialCategory = patch.MaterialCategory
	}
	if patch.WeightValue != "" {
		base.WeightValue = patch.WeightValue
	}
	if patch.WeightUnit != "" {
		base.WeightUnit = patch.WeightUnit
	}
	if patch.QuantityBasis != "" {
		base.QuantityBasis = patch.QuantityBasis
	}
	if patch.CaseSize != "" {
		base.CaseSize = patch.CaseSize
	}
	if patch.Notes != "" {
		base.Notes = patch.Notes
	}
	return base
}
