package extract

import (
	"testing"

	"github.com/studiowebux/postdash/internal/types"
)

func request(method, raw string) *types.Request {
	return &types.Request{
		Method: method,
		URL:    types.URL{Raw: raw},
	}
}

func sampleTree() []types.Item {
	return []types.Item{
		{
			Name:    "List users",
			Request: request("GET", "https://api.example.com/v1/users"),
		},
		{
			Name: "Users",
			Items: []types.Item{
				{
					Name:    "Create user",
					Request: request("POST", "https://api.example.com/v1/users"),
				},
				{
					Name: "Admin",
					Items: []types.Item{
						{
							Name:    "Delete user",
							Request: request("DELETE", "{{base_url}}/v1/users/1"),
						},
					},
				},
			},
		},
		{
			Name: "Empty folder",
		},
	}
}

func TestClassify(t *testing.T) {
	tree := sampleTree()

	if kind := Classify(tree[0]); kind != KindRequestLeaf {
		t.Errorf("expected request leaf, got %v", kind)
	}
	if kind := Classify(tree[1]); kind != KindFolder {
		t.Errorf("expected folder, got %v", kind)
	}
	if kind := Classify(tree[2]); kind != KindEmpty {
		t.Errorf("expected empty, got %v", kind)
	}

	// A node carrying both a request and children classifies as a leaf
	hybrid := types.Item{
		Name:    "Hybrid",
		Request: request("GET", "https://api.example.com/"),
		Items:   []types.Item{{Name: "child"}},
	}
	if kind := Classify(hybrid); kind != KindRequestLeaf {
		t.Errorf("expected request leaf for hybrid node, got %v", kind)
	}
}

func TestEndpointsOrder(t *testing.T) {
	endpoints := Endpoints(sampleTree())

	if len(endpoints) != 3 {
		t.Fatalf("expected 3 endpoints, got %d", len(endpoints))
	}

	names := []string{"List users", "Create user", "Delete user"}
	for i, want := range names {
		if endpoints[i].Name != want {
			t.Errorf("endpoint %d: expected %q, got %q", i, want, endpoints[i].Name)
		}
	}
}

func TestEndpointsHybridNode(t *testing.T) {
	// A request-bearing folder contributes its own endpoint and its children's
	tree := []types.Item{
		{
			Name:    "Parent",
			Request: request("GET", "https://api.example.com/parent"),
			Items: []types.Item{
				{
					Name:    "Child",
					Request: request("GET", "https://api.example.com/parent/child"),
				},
			},
		},
	}

	endpoints := Endpoints(tree)
	if len(endpoints) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(endpoints))
	}
	if endpoints[0].Name != "Parent" || endpoints[1].Name != "Child" {
		t.Errorf("unexpected order: %q then %q", endpoints[0].Name, endpoints[1].Name)
	}
}

func TestCountMatchesEndpoints(t *testing.T) {
	tree := sampleTree()

	if got, want := Count(tree), len(Endpoints(tree)); got != want {
		t.Errorf("count %d does not match extracted endpoints %d", got, want)
	}

	if Count(nil) != 0 {
		t.Errorf("expected 0 for empty tree")
	}
}

func TestDefaultMethod(t *testing.T) {
	tree := []types.Item{
		{
			Name:    "No method",
			Request: &types.Request{URL: types.URL{Raw: "https://api.example.com/x"}},
		},
	}

	endpoints := Endpoints(tree)
	if len(endpoints) != 1 {
		t.Fatalf("expected 1 endpoint, got %d", len(endpoints))
	}
	if endpoints[0].Method != "GET" {
		t.Errorf("expected GET default, got %q", endpoints[0].Method)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"absolute url with query", "https://api.example.com/v1/users?x=1", "/v1/users"},
		{"templated url kept verbatim", "{{base_url}}/v1/user/info", "{{base_url}}/v1/user/info"},
		{"no path", "https://api.example.com", "/"},
		{"relative path unchanged", "/v1/users", "/v1/users"},
		{"garbage unchanged", "://not a url", "://not a url"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.raw); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, expected %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizePathIdempotent(t *testing.T) {
	inputs := []string{
		"https://api.example.com/v1/users?x=1",
		"{{base_url}}/v1/user/info",
		"/v1/users",
		"",
	}

	for _, raw := range inputs {
		once := NormalizePath(raw)
		if twice := NormalizePath(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}
