package core

import (
	"reflect"
	"testing"
)

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		context  map[string]any
		want     string
	}{
		{
			name:     "single variable",
			template: "https://api.com/users/{{id}}",
			context:  map[string]any{"id": float64(123)},
			want:     "https://api.com/users/123",
		},
		{
			name:     "whitespace around key",
			template: "{{ name }} and {{  name  }}",
			context:  map[string]any{"name": "Alice"},
			want:     "Alice and Alice",
		},
		{
			name:     "missing key renders empty",
			template: "x={{missing}}",
			context:  map[string]any{},
			want:     "x=",
		},
		{
			name:     "null value renders empty",
			template: "x={{val}}",
			context:  map[string]any{"val": nil},
			want:     "x=",
		},
		{
			name:     "non-word key",
			template: "?name={{服务商}}",
			context:  map[string]any{"服务商": "Baidu"},
			want:     "?name=Baidu",
		},
		{
			name:     "boolean value",
			template: "{{flag}}",
			context:  map[string]any{"flag": true},
			want:     "true",
		},
		{
			name:     "float drops trailing zeros",
			template: "{{n}}",
			context:  map[string]any{"n": float64(25)},
			want:     "25",
		},
		{
			name:     "no placeholders",
			template: "static text",
			context:  map[string]any{"a": "b"},
			want:     "static text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderTemplate(tt.template, tt.context)
			if got != tt.want {
				t.Errorf("RenderTemplate(%q) = %q; want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestHasVariables(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://api.com/{{id}}", true},
		{"{{ spaced }}", true},
		{"no variables here", false},
		{"{single}", false},
		{"{{}}", false},
	}

	for _, tt := range tests {
		if got := HasVariables(tt.input); got != tt.want {
			t.Errorf("HasVariables(%q) = %v; want %v", tt.input, got, tt.want)
		}
	}
}

func TestExtractVariableNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "unique names in order",
			input: "{{a}}/{{b}}/{{a}}",
			want:  []string{"a", "b"},
		},
		{
			name:  "no variables",
			input: "plain",
			want:  nil,
		},
		{
			name:  "spaced",
			input: "{{ user_id }}",
			want:  []string{"user_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVariableNames(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractVariableNames(%q) = %v; want %v", tt.input, got, tt.want)
			}
		})
	}
}
