package summary

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/postdash/internal/selection"
)

// ExportedEndpoint is the machine-readable projection of one selected
// endpoint, for pipelines that re-import the export.
type ExportedEndpoint struct {
	Collection string `json:"collection" yaml:"collection"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	Method     string `json:"method" yaml:"method"`
	URL        string `json:"url" yaml:"url"`
	Path       string `json:"path" yaml:"path"`
}

// RenderStructured renders the entries as YAML or JSON instead of the text
// report. Supported formats: "yaml", "json".
func RenderStructured(entries []selection.Entry, format string) (string, error) {
	exported := make([]ExportedEndpoint, 0, len(entries))
	for _, entry := range entries {
		exported = append(exported, ExportedEndpoint{
			Collection: entry.Collection,
			Name:       entry.Endpoint.Name,
			Method:     entry.Endpoint.Method,
			URL:        entry.Endpoint.RawURL,
			Path:       entry.Endpoint.NormalizedPath,
		})
	}

	switch format {
	case "yaml":
		data, err := yaml.Marshal(exported)
		if err != nil {
			return "", fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return string(data), nil

	case "json":
		data, err := json.MarshalIndent(exported, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data), nil

	default:
		return "", fmt.Errorf("unsupported format: %s (expected yaml or json)", format)
	}
}
