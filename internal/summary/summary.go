// Package summary renders the selected endpoints into a formatted text
// report: method and URL header, query parameters, request body, and every
// saved example response. Rendering is a pure function of its input and
// never fails; malformed JSON degrades to raw-text passthrough.
package summary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/studiowebux/postdash/internal/selection"
	"github.com/studiowebux/postdash/internal/types"
)

// separatorWidth is the width of the line closing each entry
const separatorWidth = 80

// Render produces the report for the given entries, in order. Entry order
// is significant: it mirrors the selection set's insertion order.
func Render(entries []selection.Entry) string {
	var b strings.Builder

	for _, entry := range entries {
		renderEntry(&b, entry)
	}

	return b.String()
}

func renderEntry(b *strings.Builder, entry selection.Entry) {
	e := entry.Endpoint

	// Header shows the original (possibly templated) URL, not the
	// normalized path, so the report is directly re-usable.
	fmt.Fprintf(b, "### %s %s\n", strings.ToUpper(e.Method), e.RawURL)
	fmt.Fprintf(b, "Collection: %s\n", entry.Collection)
	if e.Name != "" {
		fmt.Fprintf(b, "Name: %s\n", e.Name)
	}

	if e.Request != nil {
		renderQueryParams(b, e.Request.URL.Query)
		renderBody(b, e.Request.Body)
	}

	renderResponses(b, e.Responses)

	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", separatorWidth))
	b.WriteString("\n\n")
}

func renderQueryParams(b *strings.Builder, params []types.QueryParam) {
	if len(params) == 0 {
		return
	}

	b.WriteString("\nQuery Parameters:\n")
	for _, p := range params {
		value := p.Value
		if value == "" {
			value = p.Description
		}
		if value == "" {
			value = "(optional)"
		}
		fmt.Fprintf(b, "  %s: %s\n", p.Key, value)
	}
}

func renderBody(b *strings.Builder, body *types.Body) {
	if body == nil || body.Mode == "" {
		return
	}

	switch body.Mode {
	case types.BodyModeRaw:
		fmt.Fprintf(b, "\nRequest Body (%s):\n", body.Mode)
		b.WriteString(PrettyJSON(body.Raw))
		b.WriteString("\n")

	case types.BodyModeFormData:
		fmt.Fprintf(b, "\nRequest Body (%s):\n", body.Mode)
		for _, f := range body.FormData {
			value := f.Value
			if value == "" {
				value = string(f.Src)
			}
			if value == "" {
				value = "(file)"
			}
			fmt.Fprintf(b, "  %s: %s\n", f.Key, value)
		}

	case types.BodyModeURLEncoded:
		fmt.Fprintf(b, "\nRequest Body (%s):\n", body.Mode)
		for _, f := range body.URLEncoded {
			fmt.Fprintf(b, "  %s: %s\n", f.Key, f.Value)
		}

	default:
		// Unknown modes (file, graphql, ...) are omitted entirely
	}
}

func renderResponses(b *strings.Builder, responses []types.Response) {
	// Every saved example with a body is rendered, not just the first
	numbered := 0
	for _, r := range responses {
		if r.Body == "" {
			continue
		}
		numbered++

		name := r.Name
		if name == "" {
			name = "Success"
		}

		fmt.Fprintf(b, "\nResponse %d: %s\n", numbered, name)
		b.WriteString(PrettyJSON(r.Body))
		b.WriteString("\n")
	}
}

// PrettyJSON re-indents a JSON payload with two spaces. The parse is
// lenient (comments and trailing commas are tolerated); anything that still
// fails to parse is returned unchanged.
func PrettyJSON(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}

	var data interface{}
	if err := json.Unmarshal(jsonc.ToJSON([]byte(trimmed)), &data); err != nil {
		return s
	}

	pretty, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return s
	}

	return string(pretty)
}
