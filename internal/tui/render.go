package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/postdash/internal/extract"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// renderLogin renders the credential entry screen
func (m Model) renderLogin() string {
	title := styleTitle.Render("postdash " + m.version)

	masked := strings.Repeat("*", utf8.RuneCountInString(m.loginInput))
	field := masked + "_"

	var lines []string
	lines = append(lines, title, "")
	lines = append(lines, "Enter your Postman API key:")
	lines = append(lines, "")
	lines = append(lines, "  "+field)
	lines = append(lines, "")
	lines = append(lines, styleSubtle.Render("enter: log in  •  esc: quit"))

	if m.loading {
		lines = append(lines, "", styleWarning.Render("Validating key..."))
	}
	if m.errorMsg != "" {
		lines = append(lines, "", styleError.Render(m.errorMsg))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGray).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderCollections renders the collection list view
func (m Model) renderCollections() string {
	var b strings.Builder

	header := styleTitle.Render("Collections")
	if m.updateAvailable {
		header += "  " + styleWarning.Render(fmt.Sprintf("(update %s available)", m.latestVersion))
	}
	b.WriteString(header + "\n\n")

	visible := m.visibleCollections()
	maxRows := max(1, m.height-7)
	start := 0
	if m.collectionIndex >= maxRows {
		start = m.collectionIndex - maxRows + 1
	}

	if len(visible) == 0 {
		if m.loading {
			b.WriteString(styleSubtle.Render("Loading collections...") + "\n")
		} else {
			b.WriteString(styleSubtle.Render("No collections") + "\n")
		}
	}

	for i := start; i < len(visible) && i < start+maxRows; i++ {
		c := m.collections[visible[i]]

		count := ""
		if c.EndpointCount >= 0 {
			count = fmt.Sprintf(" (%d endpoints)", c.EndpointCount)
		}

		line := fmt.Sprintf("  %s%s", c.Name, count)
		if errText, failed := m.fetchErrs[c.ID]; failed {
			line += "  " + styleError.Render("[fetch failed: "+truncate(errText, 40)+" — r to retry]")
		}

		if i == m.collectionIndex {
			line = styleSelected.Render("▸" + line[1:])
		}
		b.WriteString(line + "\n")
	}

	if m.searching || m.searchQuery != "" {
		b.WriteString("\n/" + m.searchQuery)
		if m.searching {
			b.WriteString("_")
		}
		b.WriteString("\n")
	}

	footer := styleSubtle.Render("enter: open  •  space in tree: select  •  /: search  •  e: fetch counts  •  r: retry/refresh  •  L: logout  •  ?: help  •  q: quit")
	return m.frame(b.String(), footer)
}

// renderBrowse renders the checkbox tree for one collection
func (m Model) renderBrowse() string {
	var b strings.Builder

	sel := m.sessionMgr.Selection()
	b.WriteString(styleTitle.Render(m.browseName) + styleSubtle.Render(fmt.Sprintf("  %d selected", sel.Size())) + "\n\n")

	rows := m.browse.Rows()
	maxRows := max(1, m.height-7)
	cursor := m.browse.Cursor()
	start := 0
	if cursor >= maxRows {
		start = cursor - maxRows + 1
	}

	for i := start; i < len(rows) && i < start+maxRows; i++ {
		row := rows[i]
		line := m.renderRow(row)
		if i == cursor {
			line = styleSelected.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if len(rows) == 0 {
		b.WriteString(styleSubtle.Render("  (empty collection)") + "\n")
	}

	footer := styleSubtle.Render("space: toggle  •  a: all  •  c: clear  •  tab: fold  •  s: summary  •  esc: back  •  ?: help")
	return m.frame(b.String(), footer)
}

// renderRow formats a single tree row with its checkbox marker
func (m Model) renderRow(row Row) string {
	indent := strings.Repeat("  ", row.Depth)

	marker := "[ ]"
	switch m.browse.RowSelection(row, m.sessionMgr.Selection()) {
	case FolderAll:
		marker = "[x]"
	case FolderPartial:
		marker = "[~]"
	}

	switch row.Kind {
	case extract.KindRequestLeaf:
		method := row.Endpoint.Method
		label := fmt.Sprintf("%s%s %s %s", indent, marker, styleSuccess.Render(method), row.Name)
		if len(row.item.Items) > 0 {
			label += styleSubtle.Render(" ▾")
		}
		return "  " + label
	case extract.KindFolder:
		return fmt.Sprintf("  %s%s %s", indent, marker, styleTitle.Render(row.Name+"/"))
	default:
		return fmt.Sprintf("  %s    %s", indent, styleSubtle.Render(row.Name))
	}
}

// renderSummary renders the summary preview pane
func (m Model) renderSummary() string {
	title := styleTitle.Render("Summary") +
		styleSubtle.Render(fmt.Sprintf("  %d endpoints  •  format: %s", m.sessionMgr.Selection().Size(), m.displayFormat()))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGreen).
		Width(max(20, m.width-2)).
		Render(m.summaryView.View())

	footer := styleSubtle.Render("y: copy  •  s: save  •  f: format  •  j/k: scroll  •  esc: back")
	return title + "\n" + box + "\n" + m.renderStatusBar(footer)
}

// renderHelp renders the scrollable help view
func (m Model) renderHelp() string {
	title := styleTitle.Render("Help")
	return title + "\n\n" + m.helpView.View() + "\n" + styleSubtle.Render("any key: close")
}

// frame composes a view body with the shared status bar
func (m Model) frame(body, footer string) string {
	content := lipgloss.NewStyle().
		Width(max(20, m.width-2)).
		Height(max(5, m.height-3)).
		Render(body)
	return content + "\n" + m.renderStatusBar(footer)
}

// renderStatusBar renders the footer: status or error, then key hints
func (m Model) renderStatusBar(hints string) string {
	var parts []string

	if m.loading {
		parts = append(parts, styleWarning.Render("Loading..."))
	}
	if m.errorMsg != "" {
		parts = append(parts, styleError.Render(truncate(m.errorMsg, 100)))
	} else if m.statusMsg != "" {
		parts = append(parts, styleSuccess.Render(truncate(m.statusMsg, 100)))
	}
	parts = append(parts, hints)

	return strings.Join(parts, "  ")
}

func (m Model) displayFormat() string {
	if m.summaryFormat == "" {
		return "text"
	}
	return m.summaryFormat
}

// helpContent builds the help text shown by '?'
func (m Model) helpContent() string {
	var b strings.Builder

	section := func(title string, lines ...string) {
		b.WriteString(styleTitle.Render(title) + "\n")
		for _, line := range lines {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
	}

	section("Collections",
		"j/k       move",
		"enter/l   open collection",
		"/         fuzzy search",
		"e         fetch all details (endpoint counts)",
		"r         retry failed fetch / refresh listing",
		"L         log out (clears stored key)",
	)
	section("Tree browser",
		"j/k       move",
		"space     toggle request or whole folder",
		"a         select everything in the collection",
		"c         clear the selection",
		"tab       collapse/expand folder",
		"h/l       collapse / expand",
		"s         open summary preview",
	)
	section("Summary",
		"y         copy to clipboard",
		"s         save to exports directory",
		"f         cycle format (text/yaml/json)",
	)
	section("Global",
		"?         this help",
		"q/esc     back / quit",
		"ctrl+c    quit",
	)

	if m.updateAvailable {
		b.WriteString(styleWarning.Render(fmt.Sprintf("Update %s available: %s", m.latestVersion, m.updateURL)) + "\n")
	}

	return b.String()
}

// truncate shortens a string for footer display, trimming on rune
// boundaries so multibyte text never splits mid-sequence
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}
