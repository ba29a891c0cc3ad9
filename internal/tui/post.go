package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *appModel) viewPost() string {
	var sections []string

	switch {
	case m.postLoading:
		sections = append(sections, m.header("Post"))
		sections = append(sections, styleMuted().Render("Loading…"))
	case m.postErr != "":
		sections = append(sections, m.header("Post"))
		sections = append(sections, styleError().Render(m.postErr))
	default:
		title := lipgloss.NewStyle().Bold(true).Render(m.post.Title)
		byline := styleMuted().Render(m.post.Date + " · " + m.post.Author)
		sections = append(sections, m.header("Post"))
		sections = append(sections, title+"\n"+byline)
		sections = append(sections, m.postBody.View())
	}

	sections = append(sections, m.footer("↑/↓: scroll  esc: back"))
	return strings.Join(sections, "\n\n")
}
