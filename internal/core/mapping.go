package core

// mapping.go applies ordered column mappings to raw rows and owns
// default-mapping inference. Mapping order is significant: when two
// enabled mappings share a nested path prefix, the later one wins for
// the exact leaf it writes.

import (
	"sort"
	"time"
)

// typeSampleRows is how many rows column type inference samples.
const typeSampleRows = 20

// uniqueScanRows caps how many rows ScanUniqueValues examines.
const uniqueScanRows = 1000

// ConvertRows applies the enabled mappings, in order, to every row and
// returns one record per row.
//
// For each enabled mapping: an empty cell with ExcludeIfEmpty skips the
// key entirely; an empty cell with a configured DefaultValue converts the
// default through the same pipeline; an empty cell otherwise assigns an
// explicit null; a non-empty cell is converted per the mapping.
func ConvertRows(rows []Row, mappings []Mapping) []Record {
	enabled := enabledMappings(mappings)

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := make(Record)
		for _, m := range enabled {
			raw := row[m.Source]
			empty := IsEmpty(raw)

			if empty && m.ExcludeIfEmpty {
				continue
			}

			var final any
			switch {
			case !empty:
				final, _ = ConvertValue(raw, m)
			case m.DefaultValue != "":
				final, _ = ConvertValue(m.DefaultValue, m)
			default:
				final = nil
			}

			SetPath(rec, m.Target, final)
		}
		records = append(records, rec)
	}
	return records
}

// enabledMappings filters to enabled mappings, preserving relative order.
func enabledMappings(mappings []Mapping) []Mapping {
	enabled := make([]Mapping, 0, len(mappings))
	for _, m := range mappings {
		if m.Enabled {
			enabled = append(enabled, m)
		}
	}
	return enabled
}

// DefaultMappings creates one identity mapping per header. When sample
// rows are provided, columns whose values are mostly native dates are
// inferred as date columns.
func DefaultMappings(headers []string, rows []Row) []Mapping {
	mappings := make([]Mapping, 0, len(headers))
	for _, header := range headers {
		detected := TypeString
		if rows != nil {
			detected = detectColumnType(header, rows)
		}

		m := Mapping{
			Source:  header,
			Target:  header,
			Type:    detected,
			Enabled: true,
		}
		if detected == TypeDate {
			m.Format = "YYYY-MM-DD"
		}
		mappings = append(mappings, m)
	}
	return mappings
}

// detectColumnType samples the first rows of a column. If at least half
// of the non-empty samples are native date values the column is inferred
// as a date. A heuristic, not a guarantee; it never errors on
// disagreement.
func detectColumnType(header string, rows []Row) DataType {
	sample := rows
	if len(sample) > typeSampleRows {
		sample = sample[:typeSampleRows]
	}

	var nonEmpty, dates int
	for _, row := range sample {
		val := row[header]
		if IsEmpty(val) {
			continue
		}
		nonEmpty++
		if _, ok := val.(time.Time); ok {
			dates++
		}
	}

	if nonEmpty > 0 && dates*2 >= nonEmpty {
		return TypeDate
	}
	return TypeString
}

// ScanUniqueValues collects the distinct non-empty values of one column
// from up to the first 1000 rows, sorted ascending by string form.
// Structured values are stringified; scalars are kept as-is. Used to
// pre-populate the dictionary-mapping editor.
func ScanUniqueValues(header string, rows []Row) []any {
	sample := rows
	if len(sample) > uniqueScanRows {
		sample = sample[:uniqueScanRows]
	}

	seen := make(map[string]any)
	for _, row := range sample {
		val := row[header]
		if IsEmpty(val) {
			continue
		}
		switch val.(type) {
		case map[string]any, []any:
			s := Stringify(val)
			seen[s] = s
		default:
			seen[Stringify(val)] = val
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]any, 0, len(keys))
	for _, k := range keys {
		values = append(values, seen[k])
	}
	return values
}
