package refdata

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"eprfee/internal/core"
)

// DB is the query interface required by the Postgres loader.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PGLoader reads the four reference tables from PostgreSQL.
type PGLoader struct {
	db DB
}

// NewPGLoader creates a loader over an open connection pool.
func NewPGLoader(db DB) *PGLoader {
	return &PGLoader{db: db}
}

// Load queries all four tables and builds an indexed registry snapshot.
func (l *PGLoader) Load(ctx context.Context) (*core.Registry, error) {
	materials, err := l.loadMaterials(ctx)
	if err != nil {
		return nil, fmt.Errorf("load materials: %w", err)
	}
	fees, err := l.loadFees(ctx)
	if err != nil {
		return nil, fmt.Errorf("load fees: %w", err)
	}
	vendors, err := l.loadVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vendors: %w", err)
	}
	products, err := l.loadProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	return core.NewRegistry(materials, fees, vendors, products), nil
}

func (l *PGLoader) loadMaterials(ctx context.Context) ([]core.Material, error) {
	rows, err := l.db.Query(ctx,
		`SELECT material_name, COALESCE(category_group, '') FROM materials`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []core.Material
	for rows.Next() {
		var m core.Material
		if err := rows.Scan(&m.MaterialName, &m.CategoryGroup); err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

func (l *PGLoader) loadFees(ctx context.Context) ([]core.FeeEntry, error) {
	rows, err := l.db.Query(ctx,
		`SELECT material_name, COALESCE(fee_cents_per_gram, 0), eco_modulation_discount
		 FROM material_fees`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fees []core.FeeEntry
	for rows.Next() {
		var entry core.FeeEntry
		// A NULL discount scans to nil, staying distinct from 0.
		if err := rows.Scan(&entry.MaterialName, &entry.FeeCentsPerGram, &entry.EcoModulationDiscount); err != nil {
			return nil, err
		}
		fees = append(fees, entry)
	}
	return fees, rows.Err()
}

func (l *PGLoader) loadVendors(ctx context.Context) ([]core.Vendor, error) {
	rows, err := l.db.Query(ctx,
		`SELECT vendor_id, COALESCE(vendor_name, ''), COALESCE(exempt, false) FROM vendors`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []core.Vendor
	for rows.Next() {
		var v core.Vendor
		if err := rows.Scan(&v.VendorID, &v.VendorName, &v.Exempt); err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (l *PGLoader) loadProducts(ctx context.Context) ([]core.Product, error) {
	rows, err := l.db.Query(ctx,
		`SELECT sku_id, COALESCE(sku_name, ''), COALESCE(vendor_id, ''), COALESCE(category, '')
		 FROM products`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []core.Product
	for rows.Next() {
		var p core.Product
		if err := rows.Scan(&p.SKUID, &p.SKUName, &p.VendorID, &p.Category); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
