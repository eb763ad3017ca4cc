package core

// bundle.go assembles converted rows plus enrichment/submission
// configuration into the transportable job bundle document. Pure
// function, no I/O; serialization is left to the callers.

import (
	"time"

	"github.com/google/uuid"
)

// BuildBundle converts rows through the mapping engine and packages the
// result with the static rules derived from the enabled mappings, the
// enrichment rules and the submission config.
func BuildBundle(rows []Row, mappings []Mapping, rules []EnrichmentRule, submission SubmissionConfig) JobBundle {
	if rules == nil {
		rules = []EnrichmentRule{}
	}

	return JobBundle{
		Meta: BundleMeta{
			Version:     BundleVersion,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			BundleID:    uuid.NewString(),
		},
		Config: BundleConfig{
			StaticRules:     staticRules(mappings),
			EnrichmentRules: rules,
			Submission:      submission,
		},
		SourceData: ConvertRows(rows, mappings),
	}
}

// staticRules projects the enabled mappings to the bundle rule shape.
func staticRules(mappings []Mapping) []StaticRule {
	rules := make([]StaticRule, 0, len(mappings))
	for _, m := range mappings {
		if !m.Enabled {
			continue
		}

		rule := StaticRule{
			Type:     "static",
			Source:   m.Source,
			Target:   m.Target,
			DataType: m.Type,
		}
		if m.Type == TypeDate && m.Format != "" {
			rule.Format = m.Format
		}
		if m.UseDictionary && len(m.ValueMapping) > 0 {
			rule.UseDictionary = m.UseDictionary
			rule.ValueMapping = m.ValueMapping
			rule.MappingFallback = m.MappingFallback
			rule.MappingCustomValue = m.MappingCustomValue
		}
		rules = append(rules, rule)
	}
	return rules
}
