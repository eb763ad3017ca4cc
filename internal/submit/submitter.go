// Package submit implements the batch-submission stage: it slices the
// enriched row set into fixed-size batches, submits them sequentially to
// the destination endpoint, and partitions rows into success and failure
// sets with a machine-retryable failure artifact.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sheetflow/sheetflow/internal/core"
)

// DefaultBatchSize applies when neither the caller nor the bundle
// configures one.
const DefaultBatchSize = 50

// maxResponseDetail caps the response body captured per failed batch.
const maxResponseDetail = 500

// maxResponseBytes caps how much of a submission response is read.
const maxResponseBytes = 1 << 20

// Options override the bundle-embedded submission config.
// Precedence: explicit option > bundle config > built-in default.
type Options struct {
	TargetURL string
	Method    string
	BatchSize int
	// DryRun reports the batch plan without any network calls.
	DryRun bool
}

// BatchError captures one failed batch for the failure report.
type BatchError struct {
	BatchIndex  int    `json:"batch_index"`
	Status      int    `json:"status"`
	Response    string `json:"response"`
	RecordCount int    `json:"record_count"`
}

// Result aggregates a submission run: all rows from successful batches,
// all rows from failed batches, and one error entry per failed batch.
type Result struct {
	TargetURL  string
	Method     string
	BatchSize  int
	BatchSizes []int
	DryRun     bool

	Success     []core.Record
	Failed      []core.Record
	BatchErrors []BatchError
}

// Submitter pushes enriched records to the destination endpoint.
type Submitter struct {
	client *http.Client
	logger *slog.Logger
}

// NewSubmitter creates a submitter. A nil client falls back to
// http.DefaultClient.
func NewSubmitter(client *http.Client, logger *slog.Logger) *Submitter {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{client: client, logger: logger}
}

// Submit sends payload.Data in consecutive batches. Batches go out
// strictly one at a time, in index order: sequential submission bounds
// load on the destination and keeps batch numbering deterministic in
// logs. A batch failure (non-2xx/3xx status or network error) is
// recorded and does not halt subsequent batches.
//
// Submit returns an error only for configuration problems, before any
// data is touched.
func (s *Submitter) Submit(ctx context.Context, payload core.EnrichedBundle, opts Options) (*Result, error) {
	targetURL := opts.TargetURL
	if targetURL == "" {
		targetURL = payload.Submission.TargetURL
	}
	if targetURL == "" {
		return nil, fmt.Errorf("no target URL configured: pass one explicitly or set it in the bundle")
	}

	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = strings.ToUpper(payload.Submission.Method)
	}
	if method == "" {
		method = http.MethodPost
	}
	if method != http.MethodPost && method != http.MethodPut {
		return nil, fmt.Errorf("unsupported submission method %q (want POST or PUT)", method)
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = payload.Submission.BatchSize
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	batches := sliceBatches(payload.Data, batchSize)

	result := &Result{
		TargetURL:  targetURL,
		Method:     method,
		BatchSize:  batchSize,
		BatchSizes: make([]int, 0, len(batches)),
		DryRun:     opts.DryRun,
	}
	for _, b := range batches {
		result.BatchSizes = append(result.BatchSizes, len(b))
	}

	if opts.DryRun {
		return result, nil
	}

	for i, batch := range batches {
		ok, status, body := s.submitBatch(ctx, targetURL, method, batch, i+1, len(batches))
		if ok {
			result.Success = append(result.Success, batch...)
			continue
		}
		result.Failed = append(result.Failed, batch...)
		result.BatchErrors = append(result.BatchErrors, BatchError{
			BatchIndex:  i + 1,
			Status:      status,
			Response:    truncate(body, maxResponseDetail),
			RecordCount: len(batch),
		})
	}

	return result, nil
}

// submitBatch posts one batch as a JSON array and classifies the
// outcome. HTTP status < 400 counts as success; a network-level error is
// a failure carrying the error message as the body.
func (s *Submitter) submitBatch(ctx context.Context, url, method string, batch []core.Record, index, total int) (ok bool, status int, body string) {
	encoded, err := json.Marshal(batch)
	if err != nil {
		s.logger.Error("batch encode failed", "batch", index, "error", err)
		return false, 0, err.Error()
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(encoded))
	if err != nil {
		s.logger.Error("batch request build failed", "batch", index, "error", err)
		return false, 0, err.Error()
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("batch submission failed",
			"batch", index, "total", total, "records", len(batch), "error", err)
		return false, 0, err.Error()
	}
	defer resp.Body.Close()

	text, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	ok = resp.StatusCode < 400

	if ok {
		s.logger.Info("batch submitted",
			"batch", index, "total", total, "status", resp.StatusCode, "records", len(batch))
	} else {
		s.logger.Warn("batch rejected",
			"batch", index, "total", total, "status", resp.StatusCode, "records", len(batch))
	}

	return ok, resp.StatusCode, string(text)
}

// sliceBatches splits records into consecutive batches of size. The last
// batch may be smaller.
func sliceBatches(records []core.Record, size int) [][]core.Record {
	var batches [][]core.Record
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
