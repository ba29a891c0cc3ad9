// Package tui is the interactive terminal frontend: a session-gated browser
// for the blog backend with the public feed, single-post reading, the author
// dashboard, and all account forms.
package tui

import (
	"quill-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive TUI against the given backend.
func Run(serverURL string, st store.Store) error {
	applyColorProfilePreference()

	theme := ""
	if cfg, err := st.LoadConfig(); err == nil && cfg.TUI != nil {
		theme = cfg.TUI.Theme
	}
	applyThemePreference(theme)

	p := tea.NewProgram(newAppModel(serverURL, st), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
