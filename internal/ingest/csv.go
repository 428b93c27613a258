// Package ingest parses vendor submission files into raw rows for the
// core pipeline. It owns only the file-to-row mechanics; all business
// validation happens downstream in core.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"eprfee/internal/core"
)

// Columns the submission file must declare in its header. Individual cells
// may still be blank; per-row problems are the validator's to report.
var requiredColumns = []string{
	"vendor_id", "sku_id", "material_name", "weight_value", "weight_unit",
}

// ReadSubmissionRows parses a submission CSV into raw rows.
//
// The header is matched case-insensitively; missing optional columns and
// short rows coerce to empty cells. A header missing any required column
// is the one structural failure this layer reports itself, since no row
// of such a file could ever validate.
func ReadSubmissionRows(r io.Reader) ([]core.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := core.MakeHeaderIndex(header)
	if missing := missingColumns(idx); len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var rows []core.RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}

		rows = append(rows, core.RawRow{
			VendorID:         getCell(record, idx, "vendor_id"),
			SKUID:            getCell(record, idx, "sku_id"),
			Component:        getCell(record, idx, "component"),
			MaterialName:     getCell(record, idx, "material_name"),
			MaterialCategory: getCell(record, idx, "material_category"),
			WeightValue:      getCell(record, idx, "weight_value"),
			WeightUnit:       getCell(record, idx, "weight_unit"),
			QuantityBasis:    getCell(record, idx, "quantity_basis"),
			CaseSize:         getCell(record, idx, "case_size"),
			Notes:            getCell(record, idx, "notes"),
		})
	}
}

func missingColumns(idx core.HeaderIndex) []string {
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// getCell safely retrieves a cell value from a row by header name.
func getCell(row []string, idx core.HeaderIndex, name string) string {
	pos, ok := idx[name]
	if !ok || pos >= len(row) {
		return ""
	}
	return core.CleanCell(row[pos])
}
