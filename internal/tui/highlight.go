package tui

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// highlightSummary applies terminal syntax highlighting to the summary
// preview. Only the structured formats are highlighted; the text report
// mixes prose with JSON fragments and reads better unstyled. Highlighting
// is best-effort: any failure falls back to the plain text.
func (m *Model) highlightSummary(text string) string {
	lexer := ""
	switch m.summaryFormat {
	case "json":
		lexer = "json"
	case "yaml":
		lexer = "yaml"
	default:
		return text
	}

	var b strings.Builder
	if err := quick.Highlight(&b, text, lexer, "terminal256", "monokai"); err != nil {
		return text
	}
	return b.String()
}
