// Package refdata loads the four authoritative reference tables
// (materials, fees, vendors, products) into an indexed core.Registry.
//
// Two loaders exist: CSV files for self-contained deployments and a
// PostgreSQL loader for sites that master reference data in a warehouse.
// Either way the registry is an immutable in-memory snapshot; submissions
// themselves are never persisted.
package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"eprfee/internal/core"
)

// Default file names looked up by LoadDir.
const (
	MaterialsFile = "materials.csv"
	FeesFile      = "fees.csv"
	VendorsFile   = "vendors.csv"
	ProductsFile  = "products.csv"
)

// LoadDir reads the four reference CSVs from dir and builds a registry.
func LoadDir(dir string) (*core.Registry, error) {
	materials, err := loadFile(dir, MaterialsFile, ReadMaterials)
	if err != nil {
		return nil, err
	}
	fees, err := loadFile(dir, FeesFile, ReadFees)
	if err != nil {
		return nil, err
	}
	vendors, err := loadFile(dir, VendorsFile, ReadVendors)
	if err != nil {
		return nil, err
	}
	products, err := loadFile(dir, ProductsFile, ReadProducts)
	if err != nil {
		return nil, err
	}

	return core.NewRegistry(materials, fees, vendors, products), nil
}

func loadFile[T any](dir, name string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return rows, nil
}

// ReadMaterials parses the materials table. Missing cells coerce to the
// empty string.
func ReadMaterials(r io.Reader) ([]core.Material, error) {
	var materials []core.Material
	err := forEachRow(r, func(row []string, idx core.HeaderIndex) {
		m := core.Material{
			MaterialName:  getCell(row, idx, "material_name"),
			CategoryGroup: getCell(row, idx, "category_group"),
		}
		if m.MaterialName != "" {
			materials = append(materials, m)
		}
	})
	return materials, err
}

// ReadFees parses the fee schedule. An unparseable fee rate falls back to
// 0; a blank eco_modulation_discount stays nil, which is distinct from an
// explicit 0.
func ReadFees(r io.Reader) ([]core.FeeEntry, error) {
	var fees []core.FeeEntry
	err := forEachRow(r, func(row []string, idx core.HeaderIndex) {
		entry := core.FeeEntry{MaterialName: getCell(row, idx, "material_name")}
		if entry.MaterialName == "" {
			return
		}

		if rate, ok := core.ParseNumber(getCell(row, idx, "fee_cents_per_gram")); ok {
			entry.FeeCentsPerGram = rate
		}
		if discount, ok := core.ParseNumber(getCell(row, idx, "eco_modulation_discount")); ok {
			entry.EcoModulationDiscount = &discount
		}

		fees = append(fees, entry)
	})
	return fees, err
}

// ReadVendors parses the vendor table. The exempt flag accepts the usual
// boolean spellings in any case and defaults to false.
func ReadVendors(r io.Reader) ([]core.Vendor, error) {
	var vendors []core.Vendor
	err := forEachRow(r, func(row []string, idx core.HeaderIndex) {
		v := core.Vendor{
			VendorID:   getCell(row, idx, "vendor_id"),
			VendorName: getCell(row, idx, "vendor_name"),
		}
		if v.VendorID == "" {
			return
		}
		if exempt, ok := core.ParseBool(getCell(row, idx, "exempt")); ok {
			v.Exempt = exempt
		}
		vendors = append(vendors, v)
	})
	return vendors, err
}

// ReadProducts parses the product table.
func ReadProducts(r io.Reader) ([]core.Product, error) {
	var products []core.Product
	err := forEachRow(r, func(row []string, idx core.HeaderIndex) {
		p := core.Product{
			SKUID:    getCell(row, idx, "sku_id"),
			SKUName:  getCell(row, idx, "sku_name"),
			VendorID: getCell(row, idx, "vendor_id"),
			Category: getCell(row, idx, "category"),
		}
		if p.SKUID != "" {
			products = append(products, p)
		}
	})
	return products, err
}

// forEachRow reads a headered CSV and invokes fn per data row.
func forEachRow(r io.Reader, fn func(row []string, idx core.HeaderIndex)) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are handled by getCell

	header, err := reader.Read()
	if err == io.EOF {
		return fmt.Errorf("empty file")
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	idx := core.MakeHeaderIndex(header)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		fn(row, idx)
	}
}

// getCell safely retrieves a cell value from a row by header name.
func getCell(row []string, idx core.HeaderIndex, name string) string {
	pos, ok := idx[name]
	if !ok || pos >= len(row) {
		return ""
	}
	return core.CleanCell(row[pos])
}
