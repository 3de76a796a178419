package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	switch m.mode {
	case ModeLogin:
		return m.handleLoginKeys(msg)
	case ModeCollections:
		return m.handleCollectionKeys(msg)
	case ModeBrowse:
		return m.handleBrowseKeys(msg)
	case ModeSummary:
		return m.handleSummaryKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	}
	return nil
}

// handleLoginKeys edits the masked credential input
func (m *Model) handleLoginKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		if m.loginInput == "" {
			m.errorMsg = "Enter an API key"
			return nil
		}
		return m.login(m.loginInput)

	case "esc", "q":
		// q is literal input here only when the field is empty
		if msg.String() == "q" && m.loginInput != "" {
			break
		}
		return tea.Quit

	case "backspace":
		// The cursor indexes runes, not bytes, so multibyte input stays intact
		if m.loginCursor > 0 {
			runes := []rune(m.loginInput)
			m.loginInput = string(runes[:m.loginCursor-1]) + string(runes[m.loginCursor:])
			m.loginCursor--
		}
		return nil

	case "left":
		if m.loginCursor > 0 {
			m.loginCursor--
		}
		return nil

	case "right":
		if m.loginCursor < len([]rune(m.loginInput)) {
			m.loginCursor++
		}
		return nil

	case "ctrl+u":
		m.loginInput = ""
		m.loginCursor = 0
		return nil
	}

	if len(msg.Runes) > 0 {
		runes := []rune(m.loginInput)
		m.loginInput = string(runes[:m.loginCursor]) + string(msg.Runes) + string(runes[m.loginCursor:])
		m.loginCursor += len(msg.Runes)
	}
	return nil
}

// handleCollectionKeys drives the collection list
func (m *Model) handleCollectionKeys(msg tea.KeyMsg) tea.Cmd {
	// Search entry mode captures all printable input
	if m.searching {
		switch msg.String() {
		case "enter", "esc":
			if msg.String() == "esc" {
				m.searchQuery = ""
				m.searchMatches = nil
			}
			m.searching = false
			m.collectionIndex = 0
			return nil
		case "backspace":
			if len(m.searchQuery) > 0 {
				m.searchQuery = m.searchQuery[:len(m.searchQuery)-1]
				m.updateSearchMatches()
			}
			return nil
		}
		if len(msg.Runes) > 0 {
			m.searchQuery += string(msg.Runes)
			m.updateSearchMatches()
		}
		return nil
	}

	switch msg.String() {
	case "q":
		return tea.Quit

	case "j", "down":
		m.collectionIndex = clamp(m.collectionIndex+1, 0, m.visibleCount()-1)

	case "k", "up":
		m.collectionIndex = clamp(m.collectionIndex-1, 0, m.visibleCount()-1)

	case "g":
		m.collectionIndex = 0

	case "G":
		m.collectionIndex = m.visibleCount() - 1

	case "/":
		m.searching = true
		m.searchQuery = ""
		m.searchMatches = nil

	case "enter", "l":
		if c, ok := m.selectedCollection(); ok {
			return m.fetchTree(c.ID, c.Name)
		}

	case "r":
		// Retry the selected collection when it errored, otherwise
		// refresh the listing
		if c, ok := m.selectedCollection(); ok {
			if _, failed := m.fetchErrs[c.ID]; failed {
				delete(m.fetchErrs, c.ID)
				return m.fetchTree(c.ID, c.Name)
			}
		}
		return m.refreshCollections()

	case "e":
		return m.fetchAllCounts()

	case "L":
		if err := m.sessionMgr.Logout(); err != nil {
			m.errorMsg = err.Error()
			return nil
		}
		m.collections = nil
		m.fetchErrs = make(map[string]string)
		m.statusMsg = "Logged out"
		m.mode = ModeLogin

	case "?":
		m.openHelp()
	}
	return nil
}

// handleBrowseKeys drives the checkbox tree
func (m *Model) handleBrowseKeys(msg tea.KeyMsg) tea.Cmd {
	if m.browse == nil {
		m.mode = ModeCollections
		return nil
	}

	switch msg.String() {
	case "q", "esc", "h":
		if msg.String() == "h" {
			// h collapses an expanded folder before acting as back
			if row, ok := m.browse.CurrentRow(); ok && len(row.item.Items) > 0 {
				m.browse.SetCollapsed(true)
				return nil
			}
		}
		m.mode = ModeCollections

	case "j", "down":
		m.browse.Navigate(1)

	case "k", "up":
		m.browse.Navigate(-1)

	case "g":
		m.browse.Navigate(-len(m.browse.Rows()))

	case "G":
		m.browse.Navigate(len(m.browse.Rows()))

	case "l", "enter":
		m.browse.SetCollapsed(false)

	case "tab":
		m.browse.ToggleCollapsed()

	case " ":
		m.browse.Toggle(m.sessionMgr.Selection())

	case "a":
		sel := m.sessionMgr.Selection()
		sel.SelectMany(m.browse.AllEndpoints(), m.browse.Collection(), true)

	case "c":
		m.sessionMgr.Selection().Clear()
		m.statusMsg = "Selection cleared"

	case "s":
		return m.openSummary()

	case "?":
		m.openHelp()
	}
	return nil
}

// handleSummaryKeys drives the summary preview
func (m *Model) handleSummaryKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc":
		m.mode = ModeBrowse
		if m.browse == nil {
			m.mode = ModeCollections
		}

	case "j", "down":
		m.summaryView.ScrollDown(1)

	case "k", "up":
		m.summaryView.ScrollUp(1)

	case "ctrl+d":
		m.summaryView.HalfViewDown()

	case "ctrl+u":
		m.summaryView.HalfViewUp()

	case "g":
		m.summaryView.GotoTop()

	case "G":
		m.summaryView.GotoBottom()

	case "y":
		return m.copySummary()

	case "s":
		return m.saveSummary()

	case "f":
		m.cycleSummaryFormat()
		return m.openSummary()

	case "?":
		m.openHelp()
	}
	return nil
}

// handleHelpKeys closes the help view
func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "j", "down":
		m.helpView.ScrollDown(1)
	case "k", "up":
		m.helpView.ScrollUp(1)
	default:
		m.mode = m.helpReturnMode
	}
	return nil
}

// openSummary renders the current selection and switches to the preview
func (m *Model) openSummary() tea.Cmd {
	if m.sessionMgr.Selection().Size() == 0 {
		m.errorMsg = "Nothing selected"
		return nil
	}

	text, err := m.buildSummary()
	if err != nil {
		m.errorMsg = err.Error()
		return nil
	}

	m.summaryText = text
	m.summaryView.SetContent(m.highlightSummary(text))
	m.summaryView.GotoTop()
	m.errorMsg = ""
	m.mode = ModeSummary
	return nil
}

// cycleSummaryFormat rotates text -> yaml -> json -> text
func (m *Model) cycleSummaryFormat() {
	switch m.summaryFormat {
	case "yaml":
		m.summaryFormat = "json"
	case "json":
		m.summaryFormat = "text"
	default:
		m.summaryFormat = "yaml"
	}
}

// openHelp shows the help view and remembers where to return
func (m *Model) openHelp() {
	m.helpReturnMode = m.mode
	m.helpView.SetContent(m.helpContent())
	m.helpView.GotoTop()
	m.mode = ModeHelp
}

// updateSearchMatches recomputes the fuzzy matches for the current query
func (m *Model) updateSearchMatches() {
	if m.searchQuery == "" {
		m.searchMatches = nil
		return
	}

	names := make([]string, len(m.collections))
	for i, c := range m.collections {
		names[i] = c.Name
	}

	matches := fuzzy.Find(m.searchQuery, names)
	m.searchMatches = make([]int, len(matches))
	for i, match := range matches {
		m.searchMatches[i] = match.Index
	}
	m.collectionIndex = 0
}

// visibleCollections returns the listing filtered by the active search
func (m *Model) visibleCollections() []int {
	if m.searchQuery == "" {
		indices := make([]int, len(m.collections))
		for i := range m.collections {
			indices[i] = i
		}
		return indices
	}
	return m.searchMatches
}

func (m *Model) visibleCount() int {
	return len(m.visibleCollections())
}

// selectedCollection resolves the cursor to a collection summary
func (m *Model) selectedCollection() (c struct {
	ID   string
	Name string
}, ok bool) {
	visible := m.visibleCollections()
	if m.collectionIndex < 0 || m.collectionIndex >= len(visible) {
		return c, false
	}
	s := m.collections[visible[m.collectionIndex]]
	c.ID = s.ID
	c.Name = s.Name
	return c, true
}
