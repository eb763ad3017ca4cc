package core

// convert.go coerces raw spreadsheet cell values to their declared
// semantic types, with an optional dictionary-remapping stage in front.
//
// These functions handle the messy reality of user-provided sheets:
//   - Excel serial date numbers and a spread of textual date formats
//   - Various boolean spellings (yes/no, 1/0, 是/否)
//   - Numbers that fail to parse
//
// The whole pipeline is deliberately non-throwing: a value that cannot be
// coerced passes through unchanged rather than aborting a bulk conversion
// over one bad cell.

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// excelEpoch is the zero day of spreadsheet serial dates. Serial N is N
// days after 1899-12-30, computed in UTC to avoid timezone drift.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts are tried in order when parsing textual date cells.
// Unambiguous ISO-style layouts come first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"2006.01.02",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"20060102",
}

// patternReplacer converts dayjs-style date patterns (the format the
// mapping UI stores) into Go reference layouts.
var patternReplacer = strings.NewReplacer(
	"YYYY", "2006",
	"MM", "01",
	"DD", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
)

// trueTokens and falseTokens are the accepted boolean spellings,
// matched after lower-casing and trimming.
var (
	trueTokens  = map[string]bool{"true": true, "1": true, "yes": true, "是": true}
	falseTokens = map[string]bool{"false": true, "0": true, "no": true, "否": true}
)

// IsEmpty reports whether a cell value counts as empty: nil or the
// empty string. Zero numbers and false are real values.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// ConvertValue runs the full conversion pipeline for one cell under one
// mapping: dictionary remapping first (when enabled), then type coercion.
// The second return is false when the input is empty, signalling "no
// value to assign" as distinct from a deliberate null.
func ConvertValue(value any, m Mapping) (any, bool) {
	if IsEmpty(value) {
		return nil, false
	}

	if m.UseDictionary && len(m.ValueMapping) > 0 {
		remapped, short := remapValue(value, m)
		if short {
			return nil, true
		}
		value = remapped
	}

	return coerceValue(value, m.Type, m.Format), true
}

// remapValue looks value up in the mapping dictionary by exact string
// equality. The second return is true when the null fallback applies and
// the whole conversion short-circuits to null.
func remapValue(value any, m Mapping) (any, bool) {
	key := Stringify(value)
	for _, item := range m.ValueMapping {
		if Stringify(item.Source) == key {
			return item.Target, false
		}
	}

	switch m.MappingFallback {
	case FallbackNull:
		return nil, true
	case FallbackCustom:
		return ParseTargetValue(m.MappingCustomValue), false
	default: // FallbackKeep
		return value, false
	}
}

// ParseTargetValue parses untyped dictionary-editor text into a typed
// value. Recognizes the literals null/true/false/undefined, numbers, and
// JSON objects/arrays; anything else stays a plain string.
func ParseTargetValue(s string) any {
	trimmed := strings.TrimSpace(s)
	switch trimmed {
	case "null", "undefined":
		return nil
	case "true":
		return true
	case "false":
		return false
	}

	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return n
	}

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var parsed any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return parsed
		}
	}

	return s
}

// coerceValue applies the declared type to a non-empty working value.
func coerceValue(value any, typ DataType, format string) any {
	switch typ {
	case TypeNumber:
		return coerceNumber(value)
	case TypeBoolean:
		return coerceBoolean(value)
	case TypeDate:
		return FormatDate(value, format)
	default: // TypeString
		if t, ok := value.(time.Time); ok {
			return t.Format("2006-01-02 15:04:05")
		}
		return Stringify(value)
	}
}

// coerceNumber parses value as a number, passing the original through
// unchanged when it does not parse.
func coerceNumber(value any) any {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case bool:
		if v {
			return float64(1)
		}
		return float64(0)
	case time.Time:
		return float64(v.UnixMilli())
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return n
		}
		return value
	default:
		return value
	}
}

// coerceBoolean matches the accepted true/false spellings, falling back
// to a truthiness coercion for anything else.
func coerceBoolean(value any) bool {
	if b, ok := value.(bool); ok {
		return b
	}
	s := strings.ToLower(strings.TrimSpace(Stringify(value)))
	if trueTokens[s] {
		return true
	}
	if falseTokens[s] {
		return false
	}
	return Truthy(value)
}

// FormatDate renders value as a date. Numbers are treated as spreadsheet
// serial dates, strings are parsed against dateLayouts. Unparseable
// input returns the original value stringified. Pattern "timestamp"
// yields Unix seconds as a number; an empty pattern defaults to
// "YYYY-MM-DD".
func FormatDate(value any, format string) any {
	t, ok := parseDate(value)
	if !ok {
		return Stringify(value)
	}

	if format == "timestamp" {
		return t.Unix()
	}
	if format == "" {
		format = "YYYY-MM-DD"
	}
	return t.Format(patternReplacer.Replace(format))
}

// parseDate resolves a cell value to a time.Time.
func parseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case float64:
		return serialToTime(v), true
	case float32:
		return serialToTime(float64(v)), true
	case int:
		return serialToTime(float64(v)), true
	case int64:
		return serialToTime(float64(v)), true
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// serialToTime converts a spreadsheet serial day count to UTC time.
// Fractional days carry the time of day.
func serialToTime(days float64) time.Time {
	ms := math.Round(days * 86400000)
	return excelEpoch.Add(time.Duration(ms) * time.Millisecond)
}

// Stringify renders any cell or JSON value the way the destination API
// expects to see it inside templates and dictionary keys. Floats drop
// their trailing zeros; structured values become compact JSON.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Truthy applies JavaScript-style truthiness: nil, false, zero and the
// empty string are false, everything else (including containers) is true.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0 && !math.IsNaN(val)
	case float32:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	default:
		return true
	}
}
