package core

import "testing"

func TestProcessor_ProcessRow_CleanRow(t *testing.T) {
	p := NewProcessor(testRegistry(), ResolutionLenient)

	rec := p.ProcessRow(validRaw(), 1)

	if rec == nil {
		t.Fatal("ProcessRow returned nil for a clean row")
	}
	if rec.NormalizedWeightGrams != 15 {
		t.Errorf("NormalizedWeightGrams = %v, want 15", rec.NormalizedWeightGrams)
	}
	// 15 x 2.5 x (1 - 0.2) = 30
	if rec.FeeCents != 30 {
		t.Errorf("FeeCents = %v, want 30", rec.FeeCents)
	}
	if rec.FeeRateCentsPerGram != 2.5 {
		t.Errorf("FeeRateCentsPerGram = %v, want 2.5", rec.FeeRateCentsPerGram)
	}
	if rec.EcoModulationDiscount != 0.2 {
		t.Errorf("EcoModulationDiscount = %v, want 0.2", rec.EcoModulationDiscount)
	}
	if !rec.IsExempt {
		t.Error("IsExempt = false, want true for vendor V-100")
	}
	if rec.HasError {
		t.Error("HasError = true for a clean row")
	}
	if len(p.Issues()) != 0 {
		t.Errorf("issues = %+v, want none", p.Issues())
	}
}

func TestProcessor_ProcessRow_HardRejectProducesNoRecord(t *testing.T) {
	p := NewProcessor(testRegistry(), ResolutionLenient)

	raw := validRaw()
	raw.WeightValue = "-5"

	if rec := p.ProcessRow(raw, 1); rec != nil {
		t.Fatalf("ProcessRow = %+v, want nil for rejected row", rec)
	}
	if len(p.Records()) != 0 {
		t.Errorf("records = %d, want 0", len(p.Records()))
	}
	if len(p.Issues()) != 1 {
		t.Errorf("issues = %d, want 1", len(p.Issues()))
	}
}

func TestProcessor_ProcessRow_UnknownMaterialDegradesToZeroFee(t *testing.T) {
	p := NewProcessor(testRegistry(), ResolutionLenient)

	raw := validRaw()
	raw.MaterialName = "vibranium"

	rec := p.ProcessRow(raw, 1)

	if rec == nil {
		t.Fatal("lenient processing dropped the row, want retained with zero fee")
	}
	if rec.FeeCents != 0 || rec.FeeRateCentsPerGram != 0 {
		t.Errorf("fee = %v (rate %v), want zeros", rec.FeeCents, rec.FeeRateCentsPerGram)
	}
	if !rec.HasError {
		t.Error("HasError = false, want true for unresolved material")
	}
	if rec.NormalizedWeightGrams != 15 {
		t.Errorf("NormalizedWeightGrams = %v, want 15", rec.NormalizedWeightGrams)
	}
}

func TestProcessor_ProcessBatch_ReplacesState(t *testing.T) {
	p := NewProcessor(testRegistry(), ResolutionLenient)

	bad := validRaw()
	bad.WeightValue = ""
	p.ProcessBatch([]RawRow{validRaw(), bad})

	if len(p.Records()) != 1 {
		t.Fatalf("records = %d, want 1", len(p.Records()))
	}
	if len(p.Issues()) != 1 {
		t.Fatalf("issues = %d, want 1", len(p.Issues()))
	}
	if p.Issues()[0].Row != 2 {
		t.Errorf("issue row = %d, want 2", p.Issues()[0].Row)
	}

	// A second batch replaces, not appends.
	p.ProcessBatch([]RawRow{validRaw()})
	if len(p.Records()) != 1 || len(p.Issues()) != 0 {
		t.Errorf("after second batch: records = %d, issues = %d, want 1, 0",
			len(p.Records()), len(p.Issues()))
	}
}

func TestProcessor_IssuesAppendOnlyAcrossCalls(t *testing.T) {
	p := NewProcessor(testRegistry(), ResolutionLenient)

	bad := validRaw()
	bad.WeightValue = "-1"

	p.ProcessRow(bad, 1)
	p.ProcessRow(bad, 1)

	// Same row processed twice without clearing: duplicate diagnostics
	// are kept by design.
	if len(p.Issues()) != 2 {
		t.Errorf("issues = %d, want 2 (no dedupe)", len(p.Issues()))
	}
}

func TestProcessor_AddRecord_NumbersAfterExisting(t *testing.T) {
	p := NewProcessor(testRegistry(), ResolutionLenient)
	p.ProcessBatch([]RawRow{validRaw(), validRaw()})

	bad := validRaw()
	bad.WeightValue = "0"
	p.AddRecord(bad)

	issues := p.Issues()
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}
	if issues[0].Row != 3 {
		t.Errorf("issue row = %d, want 3 (after 2 existing records)", issues[0].Row)
	}
}

func TestProcessor_UpdateRecord(t *testing.T) {
	p := NewProcessor(testRegistry(), ResolutionLenient)
	p.ProcessBatch([]RawRow{validRaw()})

	ok := p.UpdateRecord(0, RawRow{WeightValue: "30"})

	if !ok {
		t.Fatal("UpdateRecord returned false for a valid patch")
	}
	rec := p.Records()[0]
	if rec.NormalizedWeightGrams != 30 {
		t.Errorf("NormalizedWeightGrams = %v, want 30", rec.NormalizedWeightGrams)
	}
	// 30 x 2.5 x 0.8 = 60
	if rec.FeeCents != 60 {
		t.Errorf("FeeCents = %v, want 60 (recomputed)", rec.FeeCents)
	}
	// Untouched fields survive the merge.
	if rec.MaterialName != "Aluminum" {
		t.Errorf("MaterialName = %q, want Aluminum", rec.MaterialName)
	}
}

func TestProcessor_UpdateRecord_OutOfRangeIsNoOp(t *testing.T) {
	p := NewProcessor(testRegistry(), ResolutionLenient)
	p.ProcessBatch([]RawRow{validRaw()})

	if p.UpdateRecord(-1, RawRow{WeightValue: "30"}) {
		t.Error("UpdateRecord(-1) = true, want no-op")
	}
	if p.UpdateRecord(1, RawRow{WeightValue: "30"}) {
		t.Error("UpdateRecord(1) = true, want no-op")
	}
	if p.Records()[0].NormalizedWeightGrams != 15 {
		t.Error("record mutated by out-of-range update")
	}
}

func TestProcessor_UpdateRecord_RejectingPatchKeepsRecord(t *testing.T) {
	p := NewProcessor(testRegistry(), ResolutionLenient)
	p.ProcessBatch([]RawRow{validRaw()})

	if p.UpdateRecord(0, RawRow{WeightValue: "-1"}) {
		t.Error("UpdateRecord = true for a patch that fails validation")
	}
	if p.Records()[0].NormalizedWeightGrams != 15 {
		t.Error("record replaced despite failed validation")
	}
	if len(p.Issues()) != 1 {
		t.Errorf("issues = %d, want 1 from the failed attempt", len(p.Issues()))
	}
}

func TestProcessor_FindRecord(t *testing.T) {
	p := NewProcessor(testRegistry(), ResolutionLenient)

	second := validRaw()
	second.SKUID = "SKU-2"
	second.MaterialName = "Cardboard"
	second.MaterialCategory = "Paper"
	p.ProcessBatch([]RawRow{validRaw(), second})

	idx, ok := p.FindRecord("SKU-2", "cardboard")
	if !ok || idx != 1 {
		t.Errorf("FindRecord(SKU-2, cardboard) = %d, %v, want 1, true", idx, ok)
	}

	if _, ok := p.FindRecord("SKU-9", "Aluminum"); ok {
		t.Error("FindRecord(SKU-9) hit, want miss")
	}
}

func TestProcessor_ClearAll(t *testing.T) {
	p := NewProcessor(testRegistry(), ResolutionLenient)

	bad := validRaw()
	bad.WeightValue = ""
	p.ProcessBatch([]RawRow{validRaw(), bad})
	p.ClearAll()

	if len(p.Records()) != 0 || len(p.Issues()) != 0 {
		t.Errorf("records = %d, issues = %d after ClearAll, want 0, 0",
			len(p.Records()), len(p.Issues()))
	}
}

func TestProcessor_NonExemptVendor(t *testing.T) {
	p := NewProcessor(testRegistry(), ResolutionLenient)

	raw := validRaw()
	raw.VendorID = "V-200"

	rec := p.ProcessRow(raw, 1)
	if rec == nil {
		t.Fatal("ProcessRow returned nil")
	}
	if rec.IsExempt {
		t.Error("IsExempt = true for non-exempt vendor V-200")
	}
	// Exemption never changes the fee amount.
	if rec.FeeCents != 30 {
		t.Errorf("FeeCents = %v, want 30 regardless of exemption", rec.FeeCents)
	}
}
