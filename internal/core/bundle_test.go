package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBuildBundle(t *testing.T) {
	rows := []Row{{"name": "Alice", "age": "30"}}
	mappings := []Mapping{
		{Source: "name", Target: "name", Type: TypeString, Enabled: true},
		{Source: "age", Target: "age", Type: TypeNumber, Enabled: true},
		{Source: "skip", Target: "skip", Type: TypeString, Enabled: false},
	}
	rules := []EnrichmentRule{
		{
			Type:         "api_fetch",
			TargetKey:    "info",
			URLTemplate:  "https://api.example.com/{{name}}",
			Method:       "GET",
			ResponsePath: "data",
		},
	}
	submission := SubmissionConfig{TargetURL: "https://api.example.com/import", Method: "POST", BatchSize: 50}

	bundle := BuildBundle(rows, mappings, rules, submission)

	if bundle.Meta.Version != BundleVersion {
		t.Errorf("version = %q; want %q", bundle.Meta.Version, BundleVersion)
	}
	if _, err := uuid.Parse(bundle.Meta.BundleID); err != nil {
		t.Errorf("bundle id %q is not a uuid: %v", bundle.Meta.BundleID, err)
	}
	if _, err := time.Parse(time.RFC3339, bundle.Meta.GeneratedAt); err != nil {
		t.Errorf("generated_at %q is not RFC3339: %v", bundle.Meta.GeneratedAt, err)
	}

	if len(bundle.Config.StaticRules) != 2 {
		t.Fatalf("static rules = %d; want 2 (disabled mappings excluded)", len(bundle.Config.StaticRules))
	}
	for _, rule := range bundle.Config.StaticRules {
		if rule.Type != "static" {
			t.Errorf("rule type = %q; want static", rule.Type)
		}
	}
	if len(bundle.Config.EnrichmentRules) != 1 {
		t.Errorf("enrichment rules = %d; want 1", len(bundle.Config.EnrichmentRules))
	}
	if bundle.Config.Submission.BatchSize != 50 {
		t.Errorf("batch size = %d; want 50", bundle.Config.Submission.BatchSize)
	}

	if len(bundle.SourceData) != 1 {
		t.Fatalf("source data = %d records; want 1", len(bundle.SourceData))
	}
	if bundle.SourceData[0]["age"] != float64(30) {
		t.Errorf("age = %v; want converted number", bundle.SourceData[0]["age"])
	}
}

func TestBuildBundleNilRules(t *testing.T) {
	bundle := BuildBundle(nil, nil, nil, SubmissionConfig{})

	// Nil rules serialize as [] rather than null.
	raw, err := json.Marshal(bundle)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	config := decoded["config"].(map[string]any)
	if _, ok := config["enrichment_rules"].([]any); !ok {
		t.Errorf("enrichment_rules = %v; want empty array", config["enrichment_rules"])
	}
}

func TestStaticRuleDateFormat(t *testing.T) {
	mappings := []Mapping{
		{Source: "d", Target: "d", Type: TypeDate, Format: "YYYY-MM-DD", Enabled: true},
		{Source: "s", Target: "s", Type: TypeString, Format: "YYYY-MM-DD", Enabled: true},
	}

	bundle := BuildBundle(nil, mappings, nil, SubmissionConfig{})
	rules := bundle.Config.StaticRules
	if rules[0].Format != "YYYY-MM-DD" {
		t.Errorf("date rule format = %q; want kept", rules[0].Format)
	}
	if rules[1].Format != "" {
		t.Errorf("string rule format = %q; want empty", rules[1].Format)
	}
}
