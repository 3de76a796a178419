package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/postdash/internal/config"
	"github.com/studiowebux/postdash/internal/export"
	"github.com/studiowebux/postdash/internal/summary"
	"github.com/studiowebux/postdash/internal/version"
)

// login validates and persists the entered credential
func (m *Model) login(apiKey string) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		err := m.sessionMgr.Login(context.Background(), apiKey)
		return loginResultMsg{err: err}
	}
}

// loadCollections fetches the collection listing
func (m *Model) loadCollections() tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		summaries, err := m.sessionMgr.Collections(context.Background())
		return collectionsLoadedMsg{summaries: summaries, err: err}
	}
}

// reloadCollections re-reads the listing snapshot without touching the
// loading state, so backfilled endpoint counts reach the view
func (m *Model) reloadCollections() tea.Cmd {
	return func() tea.Msg {
		summaries, err := m.sessionMgr.Collections(context.Background())
		return collectionsLoadedMsg{summaries: summaries, err: err, quiet: true}
	}
}

// refreshCollections drops the cache and fetches a fresh listing
func (m *Model) refreshCollections() tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		summaries, err := m.sessionMgr.RefreshCollections(context.Background())
		return collectionsLoadedMsg{summaries: summaries, err: err}
	}
}

// fetchTree fetches one collection's full tree
func (m *Model) fetchTree(id, name string) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		tree, err := m.sessionMgr.Tree(context.Background(), id)
		return treeLoadedMsg{id: id, name: name, tree: tree, err: err}
	}
}

// fetchAllCounts fetches every collection's tree to backfill endpoint
// counts. Per-collection failures come back individually so one bad
// collection never voids the rest.
func (m *Model) fetchAllCounts() tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		failures, err := m.sessionMgr.FetchAllTrees(context.Background())
		return countsLoadedMsg{failures: failures, err: err}
	}
}

// buildSummary renders the current selection in the active format
func (m *Model) buildSummary() (string, error) {
	entries := m.sessionMgr.Selection().Entries()

	if m.summaryFormat == "text" || m.summaryFormat == "" {
		return summary.Render(entries), nil
	}
	return summary.RenderStructured(entries, m.summaryFormat)
}

// copySummary copies the rendered summary to the system clipboard
func (m *Model) copySummary() tea.Cmd {
	text := m.summaryText
	count := m.sessionMgr.Selection().Size()
	return func() tea.Msg {
		if err := export.Copy(text); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{message: fmt.Sprintf("Copied %d endpoints to clipboard", count)}
	}
}

// saveSummary writes the rendered summary to the exports directory and
// records it in the export history.
func (m *Model) saveSummary() tea.Cmd {
	text := m.summaryText
	format := m.summaryFormat
	count := m.sessionMgr.Selection().Size()
	st := m.sessionMgr.Store()
	return func() tea.Msg {
		path, err := export.Save(text, config.ExportsDir, format)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		if err := st.RecordExport(path, count, format); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{message: fmt.Sprintf("Saved to %s", path)}
	}
}

// checkVersion looks for a newer release in the background
func (m *Model) checkVersion() tea.Cmd {
	current := m.version
	return func() tea.Msg {
		available, latest, url, err := version.CheckForUpdate(current)
		return versionCheckMsg{available: available, latestVersion: latest, url: url, err: err}
	}
}
