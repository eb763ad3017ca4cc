package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sheetflow/sheetflow/internal/core"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
}

func TestHandleConvert(t *testing.T) {
	srv := testServer(t)

	rec := postJSON(t, srv, "/api/convert", map[string]any{
		"rows": []core.Row{{"name": "Bob", "age": "25"}},
		"mappings": []core.Mapping{
			{Source: "age", Target: "person.age", Type: core.TypeNumber, Enabled: true},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Records []core.Record `json:"records"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Records) != 1 {
		t.Fatalf("records = %d; want 1", len(resp.Records))
	}
	person, ok := resp.Records[0]["person"].(map[string]any)
	if !ok || person["age"] != float64(25) {
		t.Errorf("record = %v; want nested converted age", resp.Records[0])
	}
}

func TestHandleDefaultMappings(t *testing.T) {
	srv := testServer(t)

	rec := postJSON(t, srv, "/api/mappings/default", map[string]any{
		"headers": []string{"name", "age"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Mappings []core.Mapping `json:"mappings"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Mappings) != 2 {
		t.Fatalf("mappings = %d; want 2", len(resp.Mappings))
	}
	if resp.Mappings[0].Source != "name" || !resp.Mappings[0].Enabled {
		t.Errorf("mapping[0] = %+v; want enabled identity mapping", resp.Mappings[0])
	}
}

func TestHandleUniqueValues(t *testing.T) {
	srv := testServer(t)

	t.Run("scans column", func(t *testing.T) {
		rec := postJSON(t, srv, "/api/mappings/unique-values", map[string]any{
			"header": "status",
			"rows":   []core.Row{{"status": "b"}, {"status": "a"}, {"status": "b"}},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}

		var resp struct {
			Values []any `json:"values"`
		}
		decodeBody(t, rec, &resp)
		if len(resp.Values) != 2 || resp.Values[0] != "a" {
			t.Errorf("values = %v; want sorted unique [a b]", resp.Values)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		rec := postJSON(t, srv, "/api/mappings/unique-values", map[string]any{
			"rows": []core.Row{{"status": "a"}},
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d; want 400", rec.Code)
		}
	})
}

func TestHandleTemplateRoundTrip(t *testing.T) {
	srv := testServer(t)

	mappings := []core.Mapping{
		{Source: "d", Target: "event.date", Type: core.TypeDate, Format: "YYYY-MM-DD", Enabled: true},
	}

	rec := postJSON(t, srv, "/api/template/export", map[string]any{"mappings": mappings})
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	var exported struct {
		Template []core.TemplateEntry `json:"template"`
	}
	decodeBody(t, rec, &exported)

	rec = postJSON(t, srv, "/api/template/apply", map[string]any{
		"mappings": mappings,
		"template": exported.Template,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("apply status = %d", rec.Code)
	}
	var applied struct {
		Mappings []core.Mapping `json:"mappings"`
	}
	decodeBody(t, rec, &applied)
	if applied.Mappings[0].Target != "event.date" || applied.Mappings[0].Format != "YYYY-MM-DD" {
		t.Errorf("applied = %+v; want exported fields preserved", applied.Mappings[0])
	}
}

func TestHandleApplyTemplateRequiresTemplate(t *testing.T) {
	srv := testServer(t)
	rec := postJSON(t, srv, "/api/template/apply", map[string]any{
		"mappings": []core.Mapping{},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
}

func TestHandleBuildBundle(t *testing.T) {
	srv := testServer(t)

	rec := postJSON(t, srv, "/api/bundle", map[string]any{
		"rows": []core.Row{{"name": "Alice"}},
		"mappings": []core.Mapping{
			{Source: "name", Target: "name", Type: core.TypeString, Enabled: true},
		},
		"submission": core.SubmissionConfig{TargetURL: "https://api.example.com", Method: "POST", BatchSize: 50},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}

	var bundle core.JobBundle
	decodeBody(t, rec, &bundle)
	if bundle.Meta.Version != core.BundleVersion {
		t.Errorf("version = %q; want %q", bundle.Meta.Version, core.BundleVersion)
	}
	if len(bundle.SourceData) != 1 || bundle.SourceData[0]["name"] != "Alice" {
		t.Errorf("source data = %v; want one converted record", bundle.SourceData)
	}
	if len(bundle.Config.StaticRules) != 1 {
		t.Errorf("static rules = %d; want 1", len(bundle.Config.StaticRules))
	}
}

func TestHandleBadJSON(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/convert", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Errorf("body = %s; want error envelope", rec.Body.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := testServer(t)

	rec := postJSON(t, srv, "/api/mappings/default", map[string]any{"headers": []string{}})
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q; want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q; want DENY", got)
	}
}
