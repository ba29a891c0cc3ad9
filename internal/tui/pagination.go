package tui

import (
	"strconv"

	"quill-cli/internal/browse"

	"github.com/charmbracelet/lipgloss"
)

// renderPaginationBar renders the browser's page controls as a row of
// buttons. An empty string means the bar is hidden entirely (single page or
// nothing rendered yet).
func renderPaginationBar(b *browse.Browser) string {
	controls := b.PageControls()
	if len(controls) == 0 {
		return ""
	}

	btn := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	active := btn.
		Bold(true).
		Foreground(colorAccentFg).
		Background(colorAccent)

	parts := make([]string, 0, len(controls))
	for _, c := range controls {
		var label string
		switch c.Kind {
		case browse.ControlPrev:
			label = "‹ prev"
		case browse.ControlNext:
			label = "next ›"
		default:
			label = strconv.Itoa(c.Page)
		}
		st := btn
		if c.Active {
			st = active
		}
		parts = append(parts, st.Render(label))
	}

	row := parts[0]
	for _, p := range parts[1:] {
		row = lipgloss.JoinHorizontal(lipgloss.Top, row, " ", p)
	}
	return row
}

// paginationKeyTarget maps a key press to the page it requests, using only the
// controls currently on offer. ok is false when the key is not a pagination
// key or the corresponding control is absent.
func paginationKeyTarget(b *browse.Browser, key string) (int, bool) {
	res, has := b.Result()
	if !has || res.TotalPages <= 1 {
		return 0, false
	}
	switch key {
	case "left":
		if res.CurrentPage > 1 {
			return res.CurrentPage - 1, true
		}
		return 0, false
	case "right":
		if res.CurrentPage < res.TotalPages {
			return res.CurrentPage + 1, true
		}
		return 0, false
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= res.TotalPages {
		return n, true
	}
	return 0, false
}
