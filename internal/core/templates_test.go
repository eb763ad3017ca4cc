package core

import (
	"reflect"
	"testing"
)

func TestApplyTemplate(t *testing.T) {
	current := []Mapping{
		{Source: "name", Target: "name", Type: TypeString, Enabled: true},
		{Source: "age", Target: "age", Type: TypeString, Enabled: false},
		{Source: "extra", Target: "extra", Type: TypeString, Enabled: true},
	}
	template := []TemplateEntry{
		{Source: "age", Target: "profile.age", Type: TypeNumber, DefaultValue: "0"},
		{Source: "ghost", Target: "ghost", Type: TypeString},
	}

	got := ApplyTemplate(current, template)

	if len(got) != 3 {
		t.Fatalf("len = %d; want 3 (templates never add or remove mappings)", len(got))
	}
	if got[1].Target != "profile.age" || got[1].Type != TypeNumber || got[1].DefaultValue != "0" {
		t.Errorf("age mapping = %+v; want template fields applied", got[1])
	}
	if got[1].Enabled {
		// Enabled is not part of the template shape.
		t.Error("ApplyTemplate changed Enabled")
	}
	if got[0].Target != "name" || got[2].Target != "extra" {
		t.Error("unmatched mappings were modified")
	}
	for _, m := range got {
		if m.Source == "ghost" {
			t.Error("template entry without a matching header was inserted")
		}
	}
}

func TestExportTemplate(t *testing.T) {
	mappings := []Mapping{
		{
			Source: "joined", Target: "joined", Type: TypeDate,
			Format: "YYYY-MM-DD", Enabled: true,
		},
		{
			Source: "name", Target: "name", Type: TypeString,
			Format: "YYYY-MM-DD", Enabled: false, DefaultValue: "anon",
		},
		{
			Source: "status", Target: "status", Type: TypeString, Enabled: true,
			UseDictionary: true,
			ValueMapping:  []ValueMapItem{{Source: "A", Target: "active"}},
		},
		{
			Source: "empty_dict", Target: "empty_dict", Type: TypeString, Enabled: true,
			UseDictionary: true,
		},
	}

	entries := ExportTemplate(mappings)

	if len(entries) != 4 {
		t.Fatalf("len = %d; want all mappings exported, disabled included", len(entries))
	}
	if entries[0].Format != "YYYY-MM-DD" {
		t.Errorf("date format = %q; want kept", entries[0].Format)
	}
	if entries[1].Format != "" {
		t.Errorf("non-date format = %q; want dropped", entries[1].Format)
	}
	if entries[1].DefaultValue != "anon" {
		t.Errorf("defaultValue = %q; want anon", entries[1].DefaultValue)
	}
	if !entries[2].UseDictionary || len(entries[2].ValueMapping) != 1 {
		t.Errorf("dictionary entry = %+v; want dictionary kept", entries[2])
	}
	if entries[3].UseDictionary || entries[3].ValueMapping != nil {
		t.Errorf("empty dictionary entry = %+v; want dictionary dropped", entries[3])
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	mappings := []Mapping{
		{
			Source: "date", Target: "event.date", Type: TypeDate,
			Format: "YYYY/MM/DD", Enabled: true, ExcludeIfEmpty: true,
		},
		{
			Source: "level", Target: "level", Type: TypeNumber, Enabled: true,
			DefaultValue: "1", UseDictionary: true,
			ValueMapping:    []ValueMapItem{{Source: "low", Target: "1"}},
			MappingFallback: FallbackKeep,
		},
	}

	applied := ApplyTemplate(mappings, ExportTemplate(mappings))
	if !reflect.DeepEqual(applied, mappings) {
		t.Errorf("round trip changed mappings:\ngot  %+v\nwant %+v", applied, mappings)
	}
}
