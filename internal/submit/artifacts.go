package submit

// artifacts.go materializes the submission-stage output files: a success
// log, a failure report, and a retry bundle a user can feed straight
// back into the submitter without re-deriving the original dataset.
// File names derive from the input path stem plus a submission
// timestamp.

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sheetflow/sheetflow/internal/core"
)

// FailureSummary heads the failure report.
type FailureSummary struct {
	TotalFailed   int    `json:"total_failed"`
	FailedBatches int    `json:"failed_batches"`
	TargetURL     string `json:"target_url"`
	Timestamp     string `json:"timestamp"`
}

// FailureReport is the failure artifact: per-batch errors plus the full
// failed row set.
type FailureReport struct {
	Summary       FailureSummary `json:"summary"`
	BatchErrors   []BatchError   `json:"batch_errors"`
	FailedRecords []core.Record  `json:"failed_records"`
}

// RetryBundle is a job-bundle-shaped document holding only previously
// failed rows plus the original submission config, resubmittable as-is.
type RetryBundle struct {
	Submission core.SubmissionConfig `json:"submission"`
	Data       []core.Record         `json:"data"`
}

// Artifacts lists the files written for one submission run. Paths are
// empty for artifacts that were not applicable.
type Artifacts struct {
	SuccessPath string
	FailurePath string
	RetryPath   string
}

// WriteArtifacts writes the success log (when any batch succeeded) and,
// when any batch failed, the failure report and retry bundle.
func WriteArtifacts(inputPath string, result *Result, submission core.SubmissionConfig, now time.Time) (Artifacts, error) {
	var artifacts Artifacts
	if result.DryRun {
		return artifacts, nil
	}

	stem := strings.TrimSuffix(inputPath, ".json")
	stamp := now.Format("20060102150405")

	if len(result.Success) > 0 {
		artifacts.SuccessPath = fmt.Sprintf("%s_success_%s.json", stem, stamp)
		if err := writeJSONFile(artifacts.SuccessPath, result.Success); err != nil {
			return artifacts, fmt.Errorf("write success log: %w", err)
		}
	}

	if len(result.Failed) > 0 {
		report := FailureReport{
			Summary: FailureSummary{
				TotalFailed:   len(result.Failed),
				FailedBatches: len(result.BatchErrors),
				TargetURL:     result.TargetURL,
				Timestamp:     stamp,
			},
			BatchErrors:   result.BatchErrors,
			FailedRecords: result.Failed,
		}
		artifacts.FailurePath = fmt.Sprintf("%s_failed_%s.json", stem, stamp)
		if err := writeJSONFile(artifacts.FailurePath, report); err != nil {
			return artifacts, fmt.Errorf("write failure report: %w", err)
		}

		retry := RetryBundle{Submission: submission, Data: result.Failed}
		artifacts.RetryPath = fmt.Sprintf("%s_retry_%s.json", stem, stamp)
		if err := writeJSONFile(artifacts.RetryPath, retry); err != nil {
			return artifacts, fmt.Errorf("write retry bundle: %w", err)
		}
	}

	return artifacts, nil
}

// LoadPayload reads an enriched bundle (or retry bundle) from disk.
func LoadPayload(path string) (core.EnrichedBundle, error) {
	var payload core.EnrichedBundle

	raw, err := os.ReadFile(path)
	if err != nil {
		return payload, fmt.Errorf("read input: %w", err)
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("parse input: %w", err)
	}
	return payload, nil
}

// writeJSONFile writes v as indented UTF-8 JSON.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
