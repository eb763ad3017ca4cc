package core

// templates.go implements the mapping-template format: a reduced
// projection of the mapping list that can be exported once and re-applied
// to any dataset whose headers match. Templates never reorder, insert or
// delete mappings; they only overwrite the configurable fields of
// mappings whose Source header they know about.

// ApplyTemplate overlays template entries onto the current mappings,
// matching by exact Source header. Matched mappings take the template's
// target/type/format/excludeIfEmpty/defaultValue and dictionary fields;
// unmatched mappings pass through unchanged.
func ApplyTemplate(current []Mapping, template []TemplateEntry) []Mapping {
	bySource := make(map[string]TemplateEntry, len(template))
	for _, entry := range template {
		bySource[entry.Source] = entry
	}

	result := make([]Mapping, 0, len(current))
	for _, m := range current {
		if entry, ok := bySource[m.Source]; ok {
			m.Target = entry.Target
			m.Type = entry.Type
			m.Format = entry.Format
			m.ExcludeIfEmpty = entry.ExcludeIfEmpty
			m.DefaultValue = entry.DefaultValue
			m.UseDictionary = entry.UseDictionary
			m.ValueMapping = entry.ValueMapping
			m.MappingFallback = entry.MappingFallback
			m.MappingCustomValue = entry.MappingCustomValue
		}
		result = append(result, m)
	}
	return result
}

// ExportTemplate projects every mapping (enabled or not) to the template
// shape. Format is kept only for date mappings that set one; the default
// value only when non-empty; dictionary fields only when the dictionary
// is enabled and non-empty.
func ExportTemplate(mappings []Mapping) []TemplateEntry {
	template := make([]TemplateEntry, 0, len(mappings))
	for _, m := range mappings {
		entry := TemplateEntry{
			Source:         m.Source,
			Target:         m.Target,
			Type:           m.Type,
			ExcludeIfEmpty: m.ExcludeIfEmpty,
		}
		if m.Type == TypeDate && m.Format != "" {
			entry.Format = m.Format
		}
		if m.DefaultValue != "" {
			entry.DefaultValue = m.DefaultValue
		}
		if m.UseDictionary && len(m.ValueMapping) > 0 {
			entry.UseDictionary = m.UseDictionary
			entry.ValueMapping = m.ValueMapping
			entry.MappingFallback = m.MappingFallback
			entry.MappingCustomValue = m.MappingCustomValue
		}
		template = append(template, entry)
	}
	return template
}
