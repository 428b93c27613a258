package core

import "testing"

// testRegistry builds the reference fixture shared across the core tests.
func testRegistry() *Registry {
	materials := []Material{
		{MaterialName: "Aluminum", CategoryGroup: "Metal"},
		{MaterialName: "PET Plastic", CategoryGroup: "Plastic"},
		{MaterialName: "Cardboard", CategoryGroup: "Paper"},
	}
	fees := []FeeEntry{
		{MaterialName: "Aluminum", FeeCentsPerGram: 2.5, EcoModulationDiscount: floatPtr(0.2)},
		{MaterialName: "PET Plastic", FeeCentsPerGram: 1},
		{MaterialName: "Cardboard", FeeCentsPerGram: 0.5, EcoModulationDiscount: floatPtr(0.15)},
	}
	vendors := []Vendor{
		{VendorID: "V-100", VendorName: "Acme Goods", Exempt: true},
		{VendorID: "V-200", VendorName: "Bolt Supply", Exempt: false},
	}
	products := []Product{
		{SKUID: "SKU-1", SKUName: "Sparkling Water 12pk", VendorID: "V-100", Category: "Beverage"},
		{SKUID: "SKU-2", SKUName: "Trail Mix", VendorID: "V-200", Category: "Snacks"},
	}
	return NewRegistry(materials, fees, vendors, products)
}

func TestRegistry_MaterialLookupCaseInsensitive(t *testing.T) {
	reg := testRegistry()

	for _, name := range []string{"Aluminum", "aluminum", "ALUMINUM", " aluminum "} {
		m, ok := reg.Material(name)
		if !ok {
			t.Fatalf("Material(%q) not found", name)
		}
		if m.MaterialName != "Aluminum" {
			t.Errorf("Material(%q).MaterialName = %q, want Aluminum", name, m.MaterialName)
		}
		if m.CategoryGroup != "Metal" {
			t.Errorf("Material(%q).CategoryGroup = %q, want Metal", name, m.CategoryGroup)
		}
	}

	if _, ok := reg.Material("vibranium"); ok {
		t.Error("Material(vibranium) found, want miss")
	}
}

func TestRegistry_FeeLookupIsExact(t *testing.T) {
	reg := testRegistry()

	if _, ok := reg.Fee("Aluminum"); !ok {
		t.Error("Fee(Aluminum) not found")
	}
	// Fee lookup joins on the canonical name only; it is not
	// case-insensitive like material resolution.
	if _, ok := reg.Fee("aluminum"); ok {
		t.Error("Fee(aluminum) found, want miss for non-canonical name")
	}
}

func TestRegistry_VendorAndProductLookup(t *testing.T) {
	reg := testRegistry()

	v, ok := reg.Vendor("V-100")
	if !ok || v.VendorName != "Acme Goods" || !v.Exempt {
		t.Errorf("Vendor(V-100) = %+v, %v", v, ok)
	}

	p, ok := reg.Product("SKU-2")
	if !ok || p.VendorID != "V-200" {
		t.Errorf("Product(SKU-2) = %+v, %v", p, ok)
	}

	if _, ok := reg.Vendor("V-999"); ok {
		t.Error("Vendor(V-999) found, want miss")
	}
}

func TestRegistry_LaterDuplicateWins(t *testing.T) {
	reg := NewRegistry(
		[]Material{
			{MaterialName: "Aluminum", CategoryGroup: "Metal"},
			{MaterialName: "aluminum", CategoryGroup: "Metals"},
		},
		nil, nil, nil,
	)

	m, ok := reg.Material("Aluminum")
	if !ok {
		t.Fatal("Material(Aluminum) not found")
	}
	if m.CategoryGroup != "Metals" {
		t.Errorf("CategoryGroup = %q, want Metals (last row wins)", m.CategoryGroup)
	}
}

func TestRegistry_SuggestMaterial(t *testing.T) {
	reg := testRegistry()

	tests := []struct {
		name    string
		input   string
		want    string
		wantHit bool
	}{
		{"partial name", "PET", "PET Plastic", true},
		{"extra words", "aluminum can", "Aluminum", true},
		{"no match", "glass", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := reg.SuggestMaterial(tt.input)
			if ok != tt.wantHit {
				t.Fatalf("SuggestMaterial(%q) hit = %v, want %v", tt.input, ok, tt.wantHit)
			}
			if ok && got.MaterialName != tt.want {
				t.Errorf("SuggestMaterial(%q) = %q, want %q", tt.input, got.MaterialName, tt.want)
			}
		})
	}
}

func TestRegistry_Counts(t *testing.T) {
	reg := testRegistry()

	materials, fees, vendors, products := reg.Counts()
	if materials != 3 || fees != 3 || vendors != 2 || products != 2 {
		t.Errorf("Counts() = %d, %d, %d, %d, want 3, 3, 2, 2", materials, fees, vendors, products)
	}
}
