package core

// registry.go holds the reference tables every validation and fee lookup
// runs against. A Registry is built once per session from loaded reference
// data and is read-only afterwards, so lookups need no locking.

import "strings"

// Registry indexes the four reference tables for fast lookup.
//
// Materials are keyed by lowercased name (validation matching is
// case-insensitive); fee entries are keyed by exact material name and are
// joined only after the canonical material has been resolved.
type Registry struct {
	materials map[string]Material
	fees      map[string]FeeEntry
	vendors   map[string]Vendor
	products  map[string]Product
}

// NewRegistry builds an indexed registry from loaded reference rows.
// Later duplicates win, matching last-row-wins semantics of the source
// spreadsheets.
func NewRegistry(materials []Material, fees []FeeEntry, vendors []Vendor, products []Product) *Registry {
	r := &Registry{
		materials: make(map[string]Material, len(materials)),
		fees:      make(map[string]FeeEntry, len(fees)),
		vendors:   make(map[string]Vendor, len(vendors)),
		products:  make(map[string]Product, len(products)),
	}

	for _, m := range materials {
		r.materials[strings.ToLower(m.MaterialName)] = m
	}
	for _, f := range fees {
		r.fees[f.MaterialName] = f
	}
	for _, v := range vendors {
		r.vendors[v.VendorID] = v
	}
	for _, p := range products {
		r.products[p.SKUID] = p
	}

	return r
}

// Material resolves a material by name, case-insensitively.
func (r *Registry) Material(name string) (Material, bool) {
	m, ok := r.materials[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// Fee returns the fee entry for an exact material name. Callers should
// resolve the canonical material first and pass its MaterialName.
func (r *Registry) Fee(materialName string) (FeeEntry, bool) {
	f, ok := r.fees[materialName]
	return f, ok
}

// Vendor resolves a vendor by ID.
func (r *Registry) Vendor(id string) (Vendor, bool) {
	v, ok := r.vendors[id]
	return v, ok
}

// Product resolves a product by SKU ID.
func (r *Registry) Product(skuID string) (Product, bool) {
	p, ok := r.products[skuID]
	return p, ok
}

// SuggestMaterial returns a best-effort fix for an unresolvable material
// name: the first known material whose name contains the input (or vice
// versa), compared case-insensitively. Returns false when nothing is
// close enough to suggest.
func (r *Registry) SuggestMaterial(name string) (Material, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Material{}, false
	}

	var (
		best      Material
		bestKey   string
		haveMatch bool
	)
	for key, m := range r.materials {
		if strings.Contains(key, needle) || strings.Contains(needle, key) {
			// Deterministic pick: smallest key wins so repeated calls
			// suggest the same material.
			if !haveMatch || key < bestKey {
				best, bestKey, haveMatch = m, key, true
			}
		}
	}
	return best, haveMatch
}

// Counts reports the size of each reference table, for startup logging.
func (r *Registry) Counts() (materials, fees, vendors, products int) {
	return len(r.materials), len(r.fees), len(r.vendors), len(r.products)
}
