package types

import (
	"encoding/json"
	"testing"
)

func TestURLUnmarshalStringForm(t *testing.T) {
	var req Request
	if err := json.Unmarshal([]byte(`{"method":"GET","url":"https://api.example.com/v1/users"}`), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if req.URL.Raw != "https://api.example.com/v1/users" {
		t.Errorf("unexpected raw URL: %q", req.URL.Raw)
	}
}

func TestURLUnmarshalObjectForm(t *testing.T) {
	payload := `{
		"method": "GET",
		"url": {
			"raw": "{{base_url}}/v1/users?page=1",
			"host": ["{{base_url}}"],
			"path": ["v1", "users"],
			"query": [{"key": "page", "value": "1"}]
		}
	}`

	var req Request
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if req.URL.Raw != "{{base_url}}/v1/users?page=1" {
		t.Errorf("unexpected raw URL: %q", req.URL.Raw)
	}
	if len(req.URL.Query) != 1 || req.URL.Query[0].Key != "page" {
		t.Errorf("unexpected query params: %+v", req.URL.Query)
	}
}

func TestFileSourceUnmarshal(t *testing.T) {
	var p FormParam
	if err := json.Unmarshal([]byte(`{"key":"f","src":"/tmp/a.png"}`), &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if p.Src != "/tmp/a.png" {
		t.Errorf("unexpected src: %q", p.Src)
	}

	// Array form keeps the first entry
	if err := json.Unmarshal([]byte(`{"key":"f","src":["/tmp/a.png","/tmp/b.png"]}`), &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if p.Src != "/tmp/a.png" {
		t.Errorf("unexpected src from array form: %q", p.Src)
	}
}
