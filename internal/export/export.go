// Package export moves a rendered summary out of the app: onto the system
// clipboard or into a timestamped file under the exports directory.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
)

// extensions by render format
var extensions = map[string]string{
	"text": "txt",
	"yaml": "yaml",
	"json": "json",
}

// Copy places the text on the system clipboard
func Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// Save writes the text to dir under a timestamped name and returns the
// full path, e.g. endpoints_20060102_150405.txt.
func Save(text string, dir string, format string) (string, error) {
	ext, ok := extensions[format]
	if !ok {
		ext = "txt"
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("endpoints_%s.%s", timestamp, ext)
	path := filepath.Join(dir, filename)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
