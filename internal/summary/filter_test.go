package summary

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/postdash/internal/extract"
	"github.com/studiowebux/postdash/internal/selection"
	"github.com/studiowebux/postdash/internal/types"
)

func TestApplyFilter(t *testing.T) {
	body := `{"data":{"users":[{"name":"alice"},{"name":"bob"}]}}`

	result, err := ApplyFilter(body, "data.users[].name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result, "alice") || !strings.Contains(result, "bob") {
		t.Errorf("expected projected names, got %q", result)
	}
}

func TestApplyFilterNoMatch(t *testing.T) {
	result, err := ApplyFilter(`{"a":1}`, "missing.path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "null" {
		t.Errorf("expected null for no match, got %q", result)
	}
}

func TestApplyFilterInvalidJSON(t *testing.T) {
	if _, err := ApplyFilter("{a:", "a"); err == nil {
		t.Errorf("expected error for invalid JSON body")
	}
}

func TestApplyFilterInvalidExpression(t *testing.T) {
	if _, err := ApplyFilter(`{"a":1}`, "[invalid"); err == nil {
		t.Errorf("expected error for invalid expression")
	}
}

func TestIsValidFilter(t *testing.T) {
	if !IsValidFilter("data.users[].name") {
		t.Errorf("expected valid expression to pass")
	}
	if IsValidFilter("[invalid") {
		t.Errorf("expected invalid expression to fail")
	}
}

func TestFilterResponsesDegrades(t *testing.T) {
	entries := []selection.Entry{
		{
			Collection: "col",
			Endpoint: extract.Endpoint{
				Method: "GET",
				RawURL: "/users",
				Responses: []types.Response{
					{Name: "OK", Body: `{"data":{"id":42}}`},
					{Name: "Error", Body: "not json at all"},
				},
			},
		},
	}

	filtered := FilterResponses(entries, "data.id")
	if len(filtered) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(filtered))
	}

	responses := filtered[0].Endpoint.Responses
	if len(responses) != 2 {
		t.Fatalf("expected both responses kept, got %d", len(responses))
	}
	if responses[0].Body != "42" {
		t.Errorf("expected filtered body 42, got %q", responses[0].Body)
	}
	if responses[1].Body != "not json at all" {
		t.Errorf("expected non-JSON body untouched, got %q", responses[1].Body)
	}

	// The original entries are not mutated
	if entries[0].Endpoint.Responses[0].Body != `{"data":{"id":42}}` {
		t.Errorf("expected original responses untouched, got %q", entries[0].Endpoint.Responses[0].Body)
	}
}

func TestFilterResponsesEmptyExpression(t *testing.T) {
	entries := []selection.Entry{{Collection: "col"}}
	filtered := FilterResponses(entries, "")
	if len(filtered) != 1 {
		t.Errorf("expected entries returned unchanged for empty expression")
	}
}

func TestRenderStructured(t *testing.T) {
	entries := []selection.Entry{
		{
			Collection: "My API",
			Endpoint: extract.Endpoint{
				Name:           "List users",
				Method:         "GET",
				RawURL:         "https://api.example.com/v1/users",
				NormalizedPath: "/v1/users",
			},
		},
	}

	yamlOut, err := RenderStructured(entries, "yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(yamlOut, "collection: My API") || !strings.Contains(yamlOut, "path: /v1/users") {
		t.Errorf("unexpected YAML output:\n%s", yamlOut)
	}

	// The YAML export round-trips
	var decoded []ExportedEndpoint
	if err := yaml.Unmarshal([]byte(yamlOut), &decoded); err != nil {
		t.Fatalf("failed to unmarshal YAML export: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Method != "GET" || decoded[0].Path != "/v1/users" {
		t.Errorf("unexpected round-trip result: %+v", decoded)
	}

	jsonOut, err := RenderStructured(entries, "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(jsonOut, `"method": "GET"`) {
		t.Errorf("unexpected JSON output:\n%s", jsonOut)
	}

	if _, err := RenderStructured(entries, "xml"); err == nil {
		t.Errorf("expected error for unsupported format")
	}
}
