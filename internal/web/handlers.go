package web

// handlers.go implements the JSON API around the conversion pipeline.
// Handlers are thin: decode, call into core/excel, encode. All request
// bodies are JSON except workbook parsing, which takes a multipart
// upload.

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sheetflow/sheetflow/internal/core"
	"github.com/sheetflow/sheetflow/internal/excel"
)

// handleParseWorkbook accepts a multipart workbook upload under the
// "file" field and returns headers, rows and sheet names.
func (s *Server) handleParseWorkbook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("missing file upload: %v", err))
		return
	}
	defer file.Close()

	var parsed *excel.Parsed
	if excel.IsCSV(header.Filename) {
		parsed, err = excel.ParseCSV(file)
	} else {
		parsed, err = excel.ParseReader(file)
	}
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity,
			fmt.Sprintf("parse %s: %v", header.Filename, err))
		return
	}

	writeJSON(w, map[string]any{
		"headers":     parsed.Headers,
		"rows":        parsed.Rows,
		"sheet_names": parsed.SheetNames,
	})
}

// handleDefaultMappings infers one identity mapping per header, using
// sample rows for date-column detection when provided.
func (s *Server) handleDefaultMappings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Headers []string   `json:"headers"`
		Rows    []core.Row `json:"rows"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	writeJSON(w, map[string]any{
		"mappings": core.DefaultMappings(req.Headers, req.Rows),
	})
}

// handleUniqueValues scans one column's distinct values for the
// dictionary-mapping editor.
func (s *Server) handleUniqueValues(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Header string     `json:"header"`
		Rows   []core.Row `json:"rows"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Header == "" {
		writeError(w, r, http.StatusBadRequest, "header is required")
		return
	}

	writeJSON(w, map[string]any{
		"values": core.ScanUniqueValues(req.Header, req.Rows),
	})
}

// handleConvert applies mappings to rows and returns the converted
// records.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rows     []core.Row     `json:"rows"`
		Mappings []core.Mapping `json:"mappings"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	writeJSON(w, map[string]any{
		"records": core.ConvertRows(req.Rows, req.Mappings),
	})
}

// handleApplyTemplate overlays a mapping template onto the current
// mapping list.
func (s *Server) handleApplyTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mappings []core.Mapping       `json:"mappings"`
		Template []core.TemplateEntry `json:"template"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Template == nil {
		writeError(w, r, http.StatusBadRequest, "template is required")
		return
	}

	writeJSON(w, map[string]any{
		"mappings": core.ApplyTemplate(req.Mappings, req.Template),
	})
}

// handleExportTemplate projects the current mappings to the reusable
// template shape.
func (s *Server) handleExportTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mappings []core.Mapping `json:"mappings"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	writeJSON(w, map[string]any{
		"template": core.ExportTemplate(req.Mappings),
	})
}

// handleBuildBundle converts rows and packages them with enrichment and
// submission config into a downloadable job bundle.
func (s *Server) handleBuildBundle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rows            []core.Row            `json:"rows"`
		Mappings        []core.Mapping        `json:"mappings"`
		EnrichmentRules []core.EnrichmentRule `json:"enrichment_rules"`
		Submission      core.SubmissionConfig `json:"submission"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	writeJSON(w, core.BuildBundle(req.Rows, req.Mappings, req.EnrichmentRules, req.Submission))
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}
