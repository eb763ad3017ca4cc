// Package core implements the spreadsheet-to-JSON conversion pipeline.
// It converts loosely-typed rows into typed, nested records via column
// mappings, and packages the result into job bundles for enrichment and
// batch submission. This package has no I/O dependencies and can be used
// by any frontend.
package core

// DataType is the declared semantic type of a mapped column.
type DataType string

const (
	TypeString  DataType = "string"
	TypeNumber  DataType = "number"
	TypeBoolean DataType = "boolean"
	TypeDate    DataType = "date"
)

// MappingFallback selects what happens when a value is not found in a
// mapping dictionary.
type MappingFallback string

const (
	// FallbackKeep leaves the original value unchanged.
	FallbackKeep MappingFallback = "keep"
	// FallbackNull replaces the value with an explicit null.
	FallbackNull MappingFallback = "null"
	// FallbackCustom substitutes a user-provided literal (see ParseTargetValue).
	FallbackCustom MappingFallback = "custom"
)

// ValueMapItem maps one dictionary source value to a replacement.
// Source is a string or number; Target may be any JSON value.
type ValueMapItem struct {
	Source any `json:"source"`
	Target any `json:"target"`
}

// Mapping is a declarative rule converting one source column into one
// (possibly nested) output field.
type Mapping struct {
	// Source is the original spreadsheet header name.
	Source string `json:"source"`
	// Target is the output key, dotted for nested assignment ("user.address.city").
	Target string `json:"target"`
	// Type selects the coercion applied to the raw cell value.
	Type DataType `json:"type"`
	// Format is the date pattern (only used when Type is "date").
	// "timestamp" yields Unix seconds instead of a formatted string.
	Format string `json:"format,omitempty"`
	// ExcludeIfEmpty drops the target key entirely when the cell is empty.
	ExcludeIfEmpty bool `json:"excludeIfEmpty"`
	// DefaultValue is converted and assigned when the cell is empty and
	// ExcludeIfEmpty is false.
	DefaultValue string `json:"defaultValue,omitempty"`
	// Enabled columns are included in output; disabled mappings are skipped.
	Enabled bool `json:"enabled"`
	// UseDictionary enables value remapping through ValueMapping.
	UseDictionary bool `json:"useDictionary,omitempty"`
	// ValueMapping is the ordered source->target lookup table.
	ValueMapping []ValueMapItem `json:"valueMapping,omitempty"`
	// MappingFallback applies when a value is absent from ValueMapping.
	MappingFallback MappingFallback `json:"mappingFallback,omitempty"`
	// MappingCustomValue is the literal used with FallbackCustom.
	MappingCustomValue string `json:"mappingCustomValue,omitempty"`
}

// TemplateEntry is the reduced mapping projection persisted in a mapping
// template file. Entries match live mappings by Source header name.
type TemplateEntry struct {
	Source             string          `json:"source"`
	Target             string          `json:"target"`
	Type               DataType        `json:"type"`
	Format             string          `json:"format,omitempty"`
	ExcludeIfEmpty     bool            `json:"excludeIfEmpty"`
	DefaultValue       string          `json:"defaultValue,omitempty"`
	UseDictionary      bool            `json:"useDictionary,omitempty"`
	ValueMapping       []ValueMapItem  `json:"valueMapping,omitempty"`
	MappingFallback    MappingFallback `json:"mappingFallback,omitempty"`
	MappingCustomValue string          `json:"mappingCustomValue,omitempty"`
}

// Row is one spreadsheet record as a flat header->value mapping.
// Cell values are strings, numbers (float64), booleans, time.Time, or nil.
type Row = map[string]any

// Record is one converted output object, possibly nested.
type Record = map[string]any

// StaticRule describes one enabled column mapping inside a job bundle.
type StaticRule struct {
	Type               string          `json:"type"` // always "static"
	Source             string          `json:"source"`
	Target             string          `json:"target"`
	DataType           DataType        `json:"dataType"`
	Format             string          `json:"format,omitempty"`
	UseDictionary      bool            `json:"useDictionary,omitempty"`
	ValueMapping       []ValueMapItem  `json:"valueMapping,omitempty"`
	MappingFallback    MappingFallback `json:"mappingFallback,omitempty"`
	MappingCustomValue string          `json:"mappingCustomValue,omitempty"`
}

// EnrichmentRule is a templated HTTP call that derives one additional
// field per row.
type EnrichmentRule struct {
	Type          string            `json:"type"` // always "api_fetch"
	TargetKey     string            `json:"target_key"`
	URLTemplate   string            `json:"url_template"`
	Method        string            `json:"method"` // GET or POST
	Headers       map[string]string `json:"headers,omitempty"`
	BodyTemplate  string            `json:"body_template,omitempty"`
	ResponsePath  string            `json:"response_path"`
	FallbackValue any               `json:"fallback_value,omitempty"`
}

// SubmissionConfig describes the destination for the final data push.
type SubmissionConfig struct {
	TargetURL string `json:"target_url"`
	Method    string `json:"method"` // POST or PUT
	BatchSize int    `json:"batch_size"`
}

// BundleVersion is the format version written into bundle metadata.
const BundleVersion = "1.0.0"

// BundleMeta carries provenance information for a job bundle.
type BundleMeta struct {
	Version     string `json:"version"`
	GeneratedAt string `json:"generated_at"`
	BundleID    string `json:"bundle_id,omitempty"`
}

// BundleConfig groups the conversion, enrichment and submission rules
// embedded in a job bundle.
type BundleConfig struct {
	StaticRules     []StaticRule     `json:"static_rules"`
	EnrichmentRules []EnrichmentRule `json:"enrichment_rules"`
	Submission      SubmissionConfig `json:"submission"`
}

// JobBundle is the handoff document from conversion to enrichment.
type JobBundle struct {
	Meta       BundleMeta   `json:"meta"`
	Config     BundleConfig `json:"config"`
	SourceData []Record     `json:"source_data"`
}

// EnrichedBundle is the handoff document from enrichment to submission.
// Data rows carry enrichment results merged in.
type EnrichedBundle struct {
	Meta       BundleMeta       `json:"meta"`
	Submission SubmissionConfig `json:"submission"`
	Data       []Record         `json:"data"`
}
