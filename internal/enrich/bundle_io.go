package enrich

// bundle_io.go handles the file handoff around the enrichment stage:
// reading a job bundle produced by the conversion UI and writing the
// enriched payload the submitter consumes.

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sheetflow/sheetflow/internal/core"
)

// LoadBundle reads a job bundle from disk.
func LoadBundle(path string) (core.JobBundle, error) {
	var bundle core.JobBundle

	raw, err := os.ReadFile(path)
	if err != nil {
		return bundle, fmt.Errorf("read bundle: %w", err)
	}
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return bundle, fmt.Errorf("parse bundle: %w", err)
	}
	return bundle, nil
}

// WriteEnriched writes the enriched payload as indented UTF-8 JSON.
func WriteEnriched(path string, payload core.EnrichedBundle) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode enriched payload: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write enriched payload: %w", err)
	}
	return nil
}

// DefaultOutputPath derives the enriched output name from the bundle
// path: job_bundle.json becomes job_bundle_enriched.json.
func DefaultOutputPath(bundlePath string) string {
	stem := strings.TrimSuffix(bundlePath, ".json")
	return stem + "_enriched.json"
}
