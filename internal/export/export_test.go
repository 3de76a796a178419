package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSave(t *testing.T) {
	dir := t.TempDir()

	path, err := Save("report body", dir, "text")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	name := filepath.Base(path)
	if !strings.HasPrefix(name, "endpoints_") || !strings.HasSuffix(name, ".txt") {
		t.Errorf("unexpected filename: %q", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "report body" {
		t.Errorf("unexpected content: %q", string(data))
	}
}

func TestSaveFormatExtensions(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		format string
		ext    string
	}{
		{"yaml", ".yaml"},
		{"json", ".json"},
		{"unknown", ".txt"},
	}

	for _, tt := range tests {
		path, err := Save("x", dir, tt.format)
		if err != nil {
			t.Fatalf("save %s failed: %v", tt.format, err)
		}
		if !strings.HasSuffix(path, tt.ext) {
			t.Errorf("format %s: expected extension %s, got %q", tt.format, tt.ext, path)
		}
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")

	if _, err := Save("x", dir, "text"); err != nil {
		t.Fatalf("save into missing directory failed: %v", err)
	}
}
