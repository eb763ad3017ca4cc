package core

// template.go implements {{key}} placeholder substitution for enrichment
// URL, header and body templates. Rendering is lossy by design: unknown
// or null variables become the empty string so a half-filled row can
// still produce a usable request.

import (
	"regexp"
	"strings"
)

// renderPattern matches {{ key }} with any non-brace characters inside,
// so headers like {{服务商}} work. Surrounding whitespace is trimmed.
var renderPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// identPattern is the stricter word-character pattern used for variable
// discovery in the UI helpers.
var identPattern = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// RenderTemplate substitutes every {{ key }} placeholder in template with
// the stringified context value. Absent or null keys render as "".
func RenderTemplate(template string, context map[string]any) string {
	return renderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := strings.TrimSpace(match[2 : len(match)-2])
		val, ok := context[key]
		if !ok || val == nil {
			return ""
		}
		return Stringify(val)
	})
}

// HasVariables reports whether s contains at least one well-formed
// {{identifier}} placeholder.
func HasVariables(s string) bool {
	return identPattern.MatchString(s)
}

// ExtractVariableNames returns the unique placeholder identifiers in
// template, in order of first appearance.
func ExtractVariableNames(template string) []string {
	matches := identPattern.FindAllStringSubmatch(template, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
