// Command enricher executes the enrichment rules of a job bundle and
// writes the enriched payload for the submitter.
//
// Usage:
//
//	enricher job_bundle.json
//	enricher job_bundle.json -o enriched_data.json
//	enricher job_bundle.json --concurrency 10
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sheetflow/sheetflow/internal/enrich"
	"github.com/sheetflow/sheetflow/internal/logging"
)

func main() {
	var (
		output      string
		concurrency int
		logLevel    string
	)
	flag.StringVar(&output, "output", "", "Output path (default: <bundle>_enriched.json)")
	flag.StringVar(&output, "o", "", "Output path (shorthand)")
	flag.IntVar(&concurrency, "concurrency", enrich.DefaultConcurrency, "Maximum in-flight API calls")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: please provide a job bundle path.")
		usage()
		os.Exit(2)
	}
	bundlePath := flag.Arg(0)

	logging.Setup(logLevel, "text")

	bundle, err := enrich.LoadBundle(bundlePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rules := bundle.Config.EnrichmentRules
	fmt.Printf("=== Job Bundle v%s ===\n", orUnknown(bundle.Meta.Version))
	fmt.Printf("Generated: %s\n", orUnknown(bundle.Meta.GeneratedAt))
	fmt.Printf("Rows: %d\n", len(bundle.SourceData))
	fmt.Printf("Static rules: %d\n", len(bundle.Config.StaticRules))
	fmt.Printf("Enrichment rules: %d\n\n", len(rules))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(rules) == 0 {
		fmt.Println("No enrichment rules configured. Outputting source data as-is.")
	} else {
		fmt.Printf("Enriching %d rows x %d rule(s) = %d API calls\n", len(bundle.SourceData), len(rules), len(bundle.SourceData)*len(rules))
		fmt.Printf("Concurrency: %d\n\n", concurrency)
	}

	executor := enrich.NewExecutor(concurrency, nil, nil)
	enriched, stats := executor.Enrich(ctx, bundle)

	if stats.TotalCalls > 0 {
		fmt.Printf("\nDone. %d/%d calls succeeded.\n", stats.Succeeded, stats.TotalCalls)
	}

	outPath := output
	if outPath == "" {
		outPath = enrich.DefaultOutputPath(bundlePath)
	}
	if err := enrich.WriteEnriched(outPath, enriched); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nEnriched data saved to: %s\n", outPath)
	fmt.Printf("Next step: submitter %s\n", outPath)
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: enricher <job_bundle.json> [-o output.json] [--concurrency N]")
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
