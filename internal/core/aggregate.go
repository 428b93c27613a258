package core

// aggregate.go derives summary views from a processed-record collection.
// All derivations are pure: they never mutate their inputs, so calling
// them repeatedly on unchanged records yields identical output.

import "sort"

// DefaultTopSKULimit is the number of SKUs returned by TopSKUsByFee when
// the caller does not request a specific limit.
const DefaultTopSKULimit = 10

// UnknownName is the sentinel used when a SKU or vendor cannot be resolved
// against the reference registry.
const UnknownName = "Unknown"

// Overview summarizes the record collection: distinct vendors and SKUs,
// total fee, rows whose validation carried at least one error, and the
// record count.
func Overview(records []ProcessedRecord) OverviewStats {
	vendors := make(map[string]struct{})
	skus := make(map[string]struct{})
	stats := OverviewStats{RecordCount: len(records)}

	for _, rec := range records {
		vendors[rec.VendorID] = struct{}{}
		skus[rec.SKUID] = struct{}{}
		stats.TotalFeeCents += rec.FeeCents
		if rec.HasError {
			stats.ErrorRows++
		}
	}

	stats.VendorCount = len(vendors)
	stats.SKUCount = len(skus)
	return stats
}

// TopSKUsByFee groups records by SKU, sums weight and fee, and returns the
// top limit SKUs by total fee, descending. A limit of 0 or less uses
// DefaultTopSKULimit. The effective fee rate is recomputed from the group
// totals, guarding the zero-grams case. Names unresolvable against the
// registry fall back to the Unknown sentinel.
func TopSKUsByFee(records []ProcessedRecord, reg *Registry, limit int) []FeeSummary {
	if limit <= 0 {
		limit = DefaultTopSKULimit
	}

	groups := make(map[string]*FeeSummary)
	for _, rec := range records {
		g, ok := groups[rec.SKUID]
		if !ok {
			g = &FeeSummary{SKUID: rec.SKUID}
			groups[rec.SKUID] = g
		}
		g.TotalGrams += rec.NormalizedWeightGrams
		g.TotalFeeCents += rec.FeeCents
	}

	summaries := make([]FeeSummary, 0, len(groups))
	for _, g := range groups {
		g.SKUName = UnknownName
		g.VendorName = UnknownName
		if product, ok := reg.Product(g.SKUID); ok {
			g.SKUName = product.SKUName
			if vendor, ok := reg.Vendor(product.VendorID); ok {
				g.VendorName = vendor.VendorName
			}
		}
		if g.TotalGrams > 0 {
			g.FeePerGramCents = g.TotalFeeCents / g.TotalGrams
		}
		summaries = append(summaries, *g)
	}

	// Tie-break on SKU ID so repeated calls over the same records produce
	// identical ordering.
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalFeeCents != summaries[j].TotalFeeCents {
			return summaries[i].TotalFeeCents > summaries[j].TotalFeeCents
		}
		return summaries[i].SKUID < summaries[j].SKUID
	})

	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries
}

// VendorTotals groups records by vendor, summing fee and weight and
// counting distinct SKUs, sorted descending by total fee.
func VendorTotals(records []ProcessedRecord, reg *Registry) []VendorTotal {
	type group struct {
		total VendorTotal
		skus  map[string]struct{}
	}

	groups := make(map[string]*group)
	for _, rec := range records {
		g, ok := groups[rec.VendorID]
		if !ok {
			g = &group{
				total: VendorTotal{VendorID: rec.VendorID, VendorName: UnknownName},
				skus:  make(map[string]struct{}),
			}
			if vendor, found := reg.Vendor(rec.VendorID); found {
				g.total.VendorName = vendor.VendorName
			}
			groups[rec.VendorID] = g
		}
		g.total.TotalFeeCents += rec.FeeCents
		g.total.TotalGrams += rec.NormalizedWeightGrams
		g.skus[rec.SKUID] = struct{}{}
	}

	totals := make([]VendorTotal, 0, len(groups))
	for _, g := range groups {
		g.total.SKUCount = len(g.skus)
		totals = append(totals, g.total)
	}

	sort.Slice(totals, func(i, j int) bool {
		if totals[i].TotalFeeCents != totals[j].TotalFeeCents {
			return totals[i].TotalFeeCents > totals[j].TotalFeeCents
		}
		return totals[i].VendorID < totals[j].VendorID
	})

	return totals
}
