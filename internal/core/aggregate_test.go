package core

import (
	"reflect"
	"testing"
)

// testRecords builds a small processed-record collection by running real
// rows through the pipeline.
func testRecords(t *testing.T) []ProcessedRecord {
	t.Helper()

	p := NewProcessor(testRegistry(), ResolutionLenient)

	rows := []RawRow{
		validRaw(), // SKU-1, V-100, 15g aluminum, fee 30
		func() RawRow {
			r := validRaw() // same SKU, second component
			r.Component = "lid"
			r.WeightValue = "5"
			return r
		}(),
		{
			VendorID:         "V-200",
			SKUID:            "SKU-2",
			Component:        "pouch",
			MaterialName:     "PET Plastic",
			MaterialCategory: "Plastic",
			WeightValue:      "40",
			WeightUnit:       "g",
			QuantityBasis:    "unit",
		},
		{
			VendorID:      "V-200",
			SKUID:         "SKU-3",
			MaterialName:  "vibranium", // degrades: zero fee, error flagged
			WeightValue:   "10",
			WeightUnit:    "grams",
			QuantityBasis: "unit",
		},
	}
	p.ProcessBatch(rows)

	records := p.Records()
	if len(records) != 4 {
		t.Fatalf("fixture records = %d, want 4", len(records))
	}
	return records
}

func TestOverview(t *testing.T) {
	stats := Overview(testRecords(t))

	if stats.RecordCount != 4 {
		t.Errorf("RecordCount = %d, want 4", stats.RecordCount)
	}
	if stats.VendorCount != 2 {
		t.Errorf("VendorCount = %d, want 2", stats.VendorCount)
	}
	if stats.SKUCount != 3 {
		t.Errorf("SKUCount = %d, want 3", stats.SKUCount)
	}
	// SKU-1: 15x2.5x0.8 + 5x2.5x0.8 = 40; SKU-2: 40x1 = 40; SKU-3: 0
	if stats.TotalFeeCents != 80 {
		t.Errorf("TotalFeeCents = %v, want 80", stats.TotalFeeCents)
	}
	if stats.ErrorRows != 1 {
		t.Errorf("ErrorRows = %d, want 1", stats.ErrorRows)
	}
}

func TestOverview_Empty(t *testing.T) {
	stats := Overview(nil)

	if stats != (OverviewStats{}) {
		t.Errorf("Overview(nil) = %+v, want zero value", stats)
	}
}

func TestTopSKUsByFee(t *testing.T) {
	records := testRecords(t)
	reg := testRegistry()

	top := TopSKUsByFee(records, reg, 0)

	if len(top) != 3 {
		t.Fatalf("len = %d, want 3", len(top))
	}

	// SKU-1 and SKU-2 tie at 40 cents; the tie breaks on SKU ID.
	if top[0].SKUID != "SKU-1" || top[1].SKUID != "SKU-2" || top[2].SKUID != "SKU-3" {
		t.Errorf("order = %s, %s, %s, want SKU-1, SKU-2, SKU-3",
			top[0].SKUID, top[1].SKUID, top[2].SKUID)
	}

	first := top[0]
	if first.TotalGrams != 20 {
		t.Errorf("SKU-1 TotalGrams = %v, want 20", first.TotalGrams)
	}
	if first.TotalFeeCents != 40 {
		t.Errorf("SKU-1 TotalFeeCents = %v, want 40", first.TotalFeeCents)
	}
	if first.FeePerGramCents != 2 {
		t.Errorf("SKU-1 FeePerGramCents = %v, want 2", first.FeePerGramCents)
	}
	if first.SKUName != "Sparkling Water 12pk" || first.VendorName != "Acme Goods" {
		t.Errorf("names = %q / %q, want resolved via registry", first.SKUName, first.VendorName)
	}

	// SKU-3 is not in the product table.
	if top[2].SKUName != UnknownName || top[2].VendorName != UnknownName {
		t.Errorf("unresolved names = %q / %q, want %q sentinel",
			top[2].SKUName, top[2].VendorName, UnknownName)
	}
}

func TestTopSKUsByFee_LimitTruncates(t *testing.T) {
	top := TopSKUsByFee(testRecords(t), testRegistry(), 2)

	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].SKUID != "SKU-1" {
		t.Errorf("top[0] = %s, want SKU-1", top[0].SKUID)
	}
}

func TestTopSKUsByFee_Idempotent(t *testing.T) {
	records := testRecords(t)
	reg := testRegistry()

	first := TopSKUsByFee(records, reg, 10)
	second := TopSKUsByFee(records, reg, 10)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated aggregation differs:\n%+v\n%+v", first, second)
	}
}

func TestTopSKUsByFee_ZeroGramsGuard(t *testing.T) {
	// A group whose records carry zero normalized weight must not divide
	// by zero. Build the record directly; the pipeline never produces
	// zero-weight records itself.
	records := []ProcessedRecord{{
		RawRow:   RawRow{SKUID: "SKU-X", VendorID: "V-100"},
		FeeCents: 0,
	}}

	top := TopSKUsByFee(records, testRegistry(), 10)

	if len(top) != 1 {
		t.Fatalf("len = %d, want 1", len(top))
	}
	if top[0].FeePerGramCents != 0 {
		t.Errorf("FeePerGramCents = %v, want 0 for zero grams", top[0].FeePerGramCents)
	}
}

func TestVendorTotals(t *testing.T) {
	totals := VendorTotals(testRecords(t), testRegistry())

	if len(totals) != 2 {
		t.Fatalf("len = %d, want 2", len(totals))
	}

	// Both vendors total 40 cents; the tie breaks on vendor ID.
	if totals[0].VendorID != "V-100" || totals[1].VendorID != "V-200" {
		t.Errorf("order = %s, %s, want V-100, V-200", totals[0].VendorID, totals[1].VendorID)
	}

	acme := totals[0]
	if acme.VendorName != "Acme Goods" {
		t.Errorf("VendorName = %q, want Acme Goods", acme.VendorName)
	}
	if acme.TotalFeeCents != 40 {
		t.Errorf("TotalFeeCents = %v, want 40", acme.TotalFeeCents)
	}
	if acme.TotalGrams != 20 {
		t.Errorf("TotalGrams = %v, want 20", acme.TotalGrams)
	}
	// Two records share SKU-1.
	if acme.SKUCount != 1 {
		t.Errorf("SKUCount = %d, want 1 (distinct SKUs only)", acme.SKUCount)
	}

	bolt := totals[1]
	if bolt.SKUCount != 2 {
		t.Errorf("Bolt SKUCount = %d, want 2", bolt.SKUCount)
	}
}
