// Package enrich executes the API-enrichment stage of a job bundle:
// one templated HTTP fetch per (row, rule) pair, bounded by a counting
// semaphore, with per-task failures isolated to the rule's fallback
// value. The executor returns only once every scheduled task has
// resolved, so a row is never left partially enriched.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/sheetflow/sheetflow/internal/core"
)

// maxResponseBytes caps how much of an enrichment response is read.
const maxResponseBytes = 10 << 20

// Executor runs the enrichment rules of a job bundle.
type Executor struct {
	client      *http.Client
	logger      *slog.Logger
	concurrency int
}

// NewExecutor creates an executor with the given fetch concurrency.
// A nil client falls back to http.DefaultClient.
func NewExecutor(concurrency int, client *http.Client, logger *slog.Logger) *Executor {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{client: client, logger: logger, concurrency: concurrency}
}

// Stats summarizes one enrichment run.
type Stats struct {
	Rows       int
	Rules      int
	TotalCalls int
	Succeeded  int
	Failed     int
}

// fetchResult is the outcome of one (row, rule) task. Results are merged
// into the rows only after every task has resolved, so tasks never write
// to a row map another task may still be reading.
type fetchResult struct {
	rowIndex  int
	targetKey string
	value     any
	failed    bool
}

// Enrich executes every (row, rule) pair of the bundle and returns the
// enriched payload: original meta and submission config plus the row set
// with fetched values merged in. Individual fetch failures resolve to
// the rule's fallback value and never abort other tasks.
func (e *Executor) Enrich(ctx context.Context, bundle core.JobBundle) (core.EnrichedBundle, Stats) {
	rows := bundle.SourceData
	rules := bundle.Config.EnrichmentRules

	stats := Stats{
		Rows:       len(rows),
		Rules:      len(rules),
		TotalCalls: len(rows) * len(rules),
	}

	if stats.TotalCalls > 0 {
		limiter := NewLimiter(e.concurrency)
		results := make(chan fetchResult, stats.TotalCalls)

		var wg sync.WaitGroup
		for i := range rows {
			for _, rule := range rules {
				wg.Add(1)
				go func(rowIndex int, rule core.EnrichmentRule) {
					defer wg.Done()
					results <- e.fetchOne(ctx, rule, rows[rowIndex], rowIndex, limiter)
				}(i, rule)
			}
		}
		wg.Wait()
		close(results)

		for r := range results {
			rows[r.rowIndex][r.targetKey] = r.value
			if r.failed {
				stats.Failed++
			} else {
				stats.Succeeded++
			}
		}
	}

	return core.EnrichedBundle{
		Meta:       bundle.Meta,
		Submission: bundle.Config.Submission,
		Data:       rows,
	}, stats
}

// fetchOne performs a single enrichment fetch. Any failure (request
// build, network, non-success status, unparseable body) degrades to the
// rule's fallback value; a path miss on a successful response does too.
func (e *Executor) fetchOne(ctx context.Context, rule core.EnrichmentRule, row core.Row, rowIndex int, limiter *Limiter) fetchResult {
	fallback := fetchResult{
		rowIndex:  rowIndex,
		targetKey: rule.TargetKey,
		value:     rule.FallbackValue,
		failed:    true,
	}

	url := core.RenderTemplate(rule.URLTemplate, row)
	method := strings.ToUpper(rule.Method)
	if method == "" {
		method = http.MethodGet
	}

	headers := make(map[string]string, len(rule.Headers))
	for k, v := range rule.Headers {
		headers[k] = core.RenderTemplate(v, row)
	}

	var body io.Reader
	if method == http.MethodPost && rule.BodyTemplate != "" {
		rendered := core.RenderTemplate(rule.BodyTemplate, row)
		// The body is sent as rendered either way; well-formed JSON just
		// earns a content-type default.
		if json.Valid([]byte(rendered)) {
			if _, set := headers["Content-Type"]; !set {
				headers["Content-Type"] = "application/json"
			}
		}
		body = strings.NewReader(rendered)
	}

	if err := limiter.Acquire(ctx); err != nil {
		e.logger.Error("enrichment cancelled", "row", rowIndex, "target", rule.TargetKey, "error", err)
		return fallback
	}
	defer limiter.Release()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		e.logger.Error("enrichment request build failed", "row", rowIndex, "target", rule.TargetKey, "error", err)
		return fallback
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Error("enrichment fetch failed", "row", rowIndex, "target", rule.TargetKey, "error", err)
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		e.logger.Warn("enrichment fetch non-success",
			"row", rowIndex,
			"target", rule.TargetKey,
			"status", fmt.Sprintf("HTTP %d", resp.StatusCode),
			"url", url,
		)
		return fallback
	}

	var data any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&data); err != nil {
		e.logger.Warn("enrichment response not JSON", "row", rowIndex, "target", rule.TargetKey, "error", err)
		return fallback
	}

	value := core.GetPath(data, rule.ResponsePath)
	if value == nil {
		value = rule.FallbackValue
	}

	return fetchResult{rowIndex: rowIndex, targetKey: rule.TargetKey, value: value}
}
