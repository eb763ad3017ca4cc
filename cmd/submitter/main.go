// Command submitter pushes enriched records to the destination API in
// sequential batches and writes success/failure/retry artifacts.
//
// Usage:
//
//	submitter enriched_data.json
//	submitter enriched_data.json --batch-size 100
//	submitter enriched_data.json --url https://api.example.com/import
//	submitter enriched_data.json --dry-run
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheetflow/sheetflow/internal/logging"
	"github.com/sheetflow/sheetflow/internal/submit"
)

func main() {
	var (
		url       string
		method    string
		batchSize int
		dryRun    bool
		logLevel  string
	)
	flag.StringVar(&url, "url", "", "Target URL (overrides bundle config)")
	flag.StringVar(&method, "method", "", "HTTP method: POST or PUT (overrides bundle config)")
	flag.IntVar(&batchSize, "batch-size", 0, "Records per batch (overrides bundle config)")
	flag.BoolVar(&dryRun, "dry-run", false, "Report the batch plan without sending anything")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: please provide an enriched JSON file path.")
		usage()
		os.Exit(2)
	}
	inputPath := flag.Arg(0)

	logging.Setup(logLevel, "text")

	payload, err := submit.LoadPayload(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	submitter := submit.NewSubmitter(nil, nil)
	result, err := submitter.Submit(ctx, payload, submit.Options{
		TargetURL: url,
		Method:    method,
		BatchSize: batchSize,
		DryRun:    dryRun,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Submitter ===")
	fmt.Printf("Input: %s (%d records)\n", inputPath, len(payload.Data))
	fmt.Printf("Target: %s %s\n", result.Method, result.TargetURL)
	fmt.Printf("Batch size: %d\n\n", result.BatchSize)

	if dryRun {
		fmt.Printf("[DRY RUN] Would submit %d records in %d batch(es)\n", len(payload.Data), len(result.BatchSizes))
		for i, size := range result.BatchSizes {
			fmt.Printf("  Batch %d/%d: %d records\n", i+1, len(result.BatchSizes), size)
		}
		fmt.Println("\nDry run complete. No data was sent.")
		return
	}

	fmt.Println("=== Result ===")
	fmt.Printf("Success: %d records\n", len(result.Success))
	fmt.Printf("Failed:  %d records\n", len(result.Failed))

	artifacts, err := submit.WriteArtifacts(inputPath, result, payload.Submission, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if artifacts.SuccessPath != "" {
		fmt.Printf("\nSuccess log: %s\n", artifacts.SuccessPath)
	}
	if artifacts.FailurePath != "" {
		fmt.Printf("Failed log:  %s\n", artifacts.FailurePath)
	}
	if artifacts.RetryPath != "" {
		fmt.Println("\nTo retry failed records:")
		fmt.Printf("  submitter %s\n", artifacts.RetryPath)
	}
	if len(result.Success) == 0 && len(result.Failed) == 0 {
		fmt.Println("\nNo records to submit.")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: submitter <enriched.json> [--url URL] [--method POST|PUT] [--batch-size N] [--dry-run]")
}
