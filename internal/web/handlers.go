package web

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"eprfee/internal/core"
	"eprfee/internal/ingest"
	"eprfee/internal/logging"
)

// uploadResponse summarizes a processed submission batch.
type uploadResponse struct {
	BatchID  string `json:"batch_id"`
	Rows     int    `json:"rows"`
	Records  int    `json:"records"`
	Issues   int    `json:"issues"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUploadSubmissions accepts a multipart CSV upload, runs the batch
// through the pipeline, and reports counts. Processing a new batch
// replaces all prior records and issues.
func (s *Server) handleUploadSubmissions(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "no file provided", err)
		return
	}
	defer file.Close()

	rows, err := ingest.ReadSubmissionRows(file)
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, fmt.Sprintf("invalid submission file: %v", err), err)
		return
	}
	if len(rows) > s.cfg.Upload.MaxRows {
		respondError(w, r, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file has %d rows, limit is %d", len(rows), s.cfg.Upload.MaxRows), nil)
		return
	}

	batchID := uuid.NewString()
	logger := logging.WithFields(r.Context(), "batch_id", batchID, "file", header.Filename)

	s.mu.Lock()
	s.processor.ProcessBatch(rows)
	records := s.processor.Records()
	issues := s.processor.Issues()
	s.mu.Unlock()

	resp := uploadResponse{
		BatchID: batchID,
		Rows:    len(rows),
		Records: len(records),
		Issues:  len(issues),
	}
	for _, issue := range issues {
		switch issue.Severity {
		case core.SeverityError:
			resp.Errors++
		case core.SeverityWarning:
			resp.Warnings++
		}
	}

	logger.Info("batch processed",
		"rows", resp.Rows,
		"records", resp.Records,
		"errors", resp.Errors,
		"warnings", resp.Warnings,
	)

	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	records := s.processor.Records()
	s.mu.Unlock()

	respondJSON(w, r, http.StatusOK, records)
}

// handleAddRecord appends a single row submitted as JSON. Hard-rejected
// rows yield 422 along with the issues raised by the attempt.
func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	var raw core.RawRow
	if err := decodeJSON(r, &raw); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	s.mu.Lock()
	before := len(s.processor.Issues())
	record := s.processor.AddRecord(raw)
	issues := s.processor.Issues()[before:]
	s.mu.Unlock()

	if record == nil {
		respondJSON(w, r, http.StatusUnprocessableEntity, map[string]any{
			"record": nil,
			"issues": issues,
		})
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]any{
		"record": record,
		"issues": issues,
	})
}

// handleUpdateRecord merges a JSON patch into the record at the indexed
// position and reprocesses it.
func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "record index must be an integer", err)
		return
	}

	var patch core.RawRow
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	s.mu.Lock()
	updated := s.processor.UpdateRecord(index, patch)
	var record core.ProcessedRecord
	if updated {
		record = s.processor.Records()[index]
	}
	s.mu.Unlock()

	if !updated {
		respondError(w, r, http.StatusNotFound, "no updatable record at that index", nil)
		return
	}

	respondJSON(w, r, http.StatusOK, record)
}

func (s *Server) handleClearRecords(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.processor.ClearAll()
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListIssues(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	issues := s.processor.Issues()
	s.mu.Unlock()

	respondJSON(w, r, http.StatusOK, issues)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := core.Overview(s.processor.Records())
	s.mu.Unlock()

	respondJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleTopSKUs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, r, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = parsed
	}

	s.mu.Lock()
	top := core.TopSKUsByFee(s.processor.Records(), s.registry, limit)
	s.mu.Unlock()

	respondJSON(w, r, http.StatusOK, top)
}

func (s *Server) handleVendorTotals(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	totals := core.VendorTotals(s.processor.Records(), s.registry)
	s.mu.Unlock()

	respondJSON(w, r, http.StatusOK, totals)
}

// handleReloadReference re-reads the reference tables into a fresh
// snapshot. The processor is rebuilt against the new registry, which
// clears accumulated state; callers reprocess their batch afterwards.
func (s *Server) handleReloadReference(w http.ResponseWriter, r *http.Request) {
	if s.reload == nil {
		respondError(w, r, http.StatusNotImplemented, "reference reload not configured", nil)
		return
	}

	registry, err := s.reload(r.Context())
	if err != nil {
		respondError(w, r, http.StatusBadGateway, "reference reload failed", err)
		return
	}

	s.mu.Lock()
	s.registry = registry
	s.processor = core.NewProcessor(registry, resolutionMode(s.cfg))
	s.mu.Unlock()

	materials, fees, vendors, products := registry.Counts()
	logging.FromContext(r.Context()).Info("reference tables reloaded",
		"materials", materials,
		"fees", fees,
		"vendors", vendors,
		"products", products,
	)

	respondJSON(w, r, http.StatusOK, map[string]int{
		"materials": materials,
		"fees":      fees,
		"vendors":   vendors,
		"products":  products,
	})
}

// exportHeader lists the CSV columns in export order.
var exportHeader = []string{
	"vendor_id", "sku_id", "component", "material_name", "material_category",
	"weight_value", "weight_unit", "quantity_basis", "case_size", "notes",
	"normalized_weight_grams", "fee_cents", "fee_rate_cents_per_gram",
	"eco_modulation_discount", "is_exempt",
}

// handleExportRecords streams the processed records as CSV.
func (s *Server) handleExportRecords(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	records := s.processor.Records()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="processed_records.csv"`)

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		logging.FromContext(r.Context()).Error("csv export failed", "error", err)
		return
	}

	for _, rec := range records {
		row := []string{
			rec.VendorID, rec.SKUID, rec.Component, rec.MaterialName, rec.MaterialCategory,
			rec.WeightValue, rec.WeightUnit, rec.QuantityBasis, rec.CaseSize, rec.Notes,
			formatFloat(rec.NormalizedWeightGrams),
			formatFloat(rec.FeeCents),
			formatFloat(rec.FeeRateCentsPerGram),
			formatFloat(rec.EcoModulationDiscount),
			strconv.FormatBool(rec.IsExempt),
		}
		if err := writer.Write(row); err != nil {
			logging.FromContext(r.Context()).Error("csv export failed", "error", err)
			return
		}
	}
	writer.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// decodeJSON decodes a JSON request body, rejecting unknown fields so
// typos in field names surface instead of silently dropping data.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
