package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/postdash/internal/session"
	"github.com/studiowebux/postdash/internal/types"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeLogin Mode = iota
	ModeCollections
	ModeBrowse
	ModeSummary
	ModeHelp
)

// Model represents the TUI state
type Model struct {
	// Core state
	sessionMgr      *session.Manager
	mode            Mode
	version         string
	updateAvailable bool
	latestVersion   string
	updateURL       string

	// Login state
	loginInput  string
	loginCursor int // rune index into loginInput

	// Collection list
	collections     []types.CollectionSummary
	collectionIndex int
	fetchErrs       map[string]string // per-collection fetch error, keyed by id
	searchQuery     string
	searching       bool
	searchMatches   []int // indices into collections matching the query

	// Tree browser
	browse     *BrowseState
	browseID   string
	browseName string

	// Summary preview
	summaryView   viewport.Model
	summaryText   string
	summaryFormat string // text, yaml or json

	// Help
	helpView       viewport.Model
	helpReturnMode Mode

	// Deep link: collection id to open directly on startup
	deepLink string

	// UI state
	width     int
	height    int
	statusMsg string
	errorMsg  string
	loading   bool
}

// Init kicks off the initial fetches: the collection listing, the version
// check, and the deep-linked collection when one was requested.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.checkVersion()}
	if m.sessionMgr.Authenticated() {
		cmds = append(cmds, m.loadCollections())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	// Discard mouse events so terminal scrolling stays keyboard-only
	case tea.MouseMsg:

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewports()

	case loginResultMsg:
		m.loading = false
		if msg.err != nil {
			m.errorMsg = fmt.Sprintf("Login failed: %v", msg.err)
			break
		}
		m.loginInput = ""
		m.loginCursor = 0
		m.errorMsg = ""
		m.statusMsg = "Logged in"
		m.mode = ModeCollections
		cmd = m.loadCollections()

	case collectionsLoadedMsg:
		if msg.err != nil {
			if msg.quiet {
				break
			}
			m.loading = false
			if m.sessionMgr.Authenticated() {
				m.errorMsg = fmt.Sprintf("Failed to load collections: %v", msg.err)
			} else {
				m.mode = ModeLogin
			}
			break
		}
		m.collections = msg.summaries
		m.collectionIndex = clamp(m.collectionIndex, 0, len(m.collections)-1)
		if msg.quiet {
			break
		}
		m.loading = false
		m.errorMsg = ""
		m.statusMsg = fmt.Sprintf("Loaded %d collections", len(m.collections))
		if m.mode == ModeLogin {
			m.mode = ModeCollections
		}
		// Deep link takes over once the listing is available
		if m.deepLink != "" {
			id := m.deepLink
			m.deepLink = ""
			cmd = m.fetchTree(id, m.collectionName(id))
		}

	case treeLoadedMsg:
		m.loading = false
		if msg.err != nil {
			// Inline retryable error scoped to this one collection
			m.fetchErrs[msg.id] = msg.err.Error()
			m.errorMsg = fmt.Sprintf("Failed to fetch %s: %v", msg.name, msg.err)
			break
		}
		delete(m.fetchErrs, msg.id)
		m.errorMsg = ""
		m.browseID = msg.id
		m.browseName = msg.tree.Info.Name
		if m.browseName == "" {
			m.browseName = msg.name
		}
		m.browse = NewBrowseState(m.browseName, msg.tree.Items)
		m.mode = ModeBrowse
		m.statusMsg = fmt.Sprintf("%d endpoints", m.browse.EndpointCount())
		// Pick up the freshly backfilled endpoint count for the listing
		cmd = m.reloadCollections()

	case countsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errorMsg = fmt.Sprintf("Failed to fetch details: %v", msg.err)
			break
		}
		for id, ferr := range msg.failures {
			m.fetchErrs[id] = ferr.Error()
		}
		failed := len(msg.failures)
		if failed > 0 {
			m.statusMsg = fmt.Sprintf("Details fetched (%d failed, press r to retry)", failed)
		} else {
			m.statusMsg = "Details fetched"
		}
		cmd = m.reloadCollections()

	case exportDoneMsg:
		if msg.err != nil {
			m.errorMsg = msg.err.Error()
			break
		}
		m.errorMsg = ""
		m.statusMsg = msg.message

	case versionCheckMsg:
		if msg.err == nil && msg.available {
			m.updateAvailable = true
			m.latestVersion = msg.latestVersion
			m.updateURL = msg.url
		}

	case errorMsg:
		m.loading = false
		m.errorMsg = string(msg)
	}

	return m, cmd
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeLogin:
		return m.renderLogin()
	case ModeBrowse:
		return m.renderBrowse()
	case ModeSummary:
		return m.renderSummary()
	case ModeHelp:
		return m.renderHelp()
	default:
		return m.renderCollections()
	}
}

// collectionName resolves a collection id to its listed name
func (m *Model) collectionName(id string) string {
	for _, c := range m.collections {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

// resizeViewports keeps the scrollable panes in step with the window
func (m *Model) resizeViewports() {
	w := max(20, m.width-4)
	h := max(5, m.height-6)
	m.summaryView.Width = w
	m.summaryView.Height = h
	m.helpView.Width = w
	m.helpView.Height = h
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Custom message types
type loginResultMsg struct {
	err error
}

type collectionsLoadedMsg struct {
	summaries []types.CollectionSummary
	err       error

	// quiet marks a background snapshot refresh: update the listing but
	// leave status, mode, and the deep link alone
	quiet bool
}

type treeLoadedMsg struct {
	id   string
	name string
	tree *types.Collection
	err  error
}

type countsLoadedMsg struct {
	failures map[string]error
	err      error
}

type exportDoneMsg struct {
	message string
	err     error
}

type versionCheckMsg struct {
	available     bool
	latestVersion string
	url           string
	err           error
}

type errorMsg string
