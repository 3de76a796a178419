package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/postdash/internal/session"
)

// New creates a new TUI model. deepLink carries a collection id to open
// directly (the collection/<id> launch form); empty means the listing.
func New(mgr *session.Manager, appVersion, deepLink string) Model {
	mode := ModeLogin
	if mgr.Authenticated() {
		mode = ModeCollections
	}

	return Model{
		sessionMgr:    mgr,
		mode:          mode,
		version:       appVersion,
		deepLink:      deepLink,
		fetchErrs:     make(map[string]string),
		summaryFormat: "text",
		summaryView:   viewport.New(80, 20),
		helpView:      viewport.New(80, 20),
	}
}

// Run starts the TUI
func Run(mgr *session.Manager, appVersion, deepLink string) error {
	m := New(mgr, appVersion, deepLink)

	p := tea.NewProgram(&m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
