package tui

import (
	"fmt"
	"strings"
)

func (m *appModel) viewDashboard() string {
	var sections []string
	sections = append(sections, m.header("Dashboard"))

	switch {
	case m.profileErr != "":
		sections = append(sections, styleError().Render(m.profileErr))
	case m.profileName != "":
		line := "Welcome, " + m.profileName
		if res, ok := m.dashBrowser.Result(); ok {
			line = fmt.Sprintf("%s · %d posts", line, res.TotalPosts)
		}
		sections = append(sections, line)
	}

	sections = append(sections, m.searchLine(m.dashSearch.View(), m.dashSearchOn, m.dashBrowser))
	sections = append(sections, m.browserBody(m.dashBrowser, m.dashList.View(), "No posts found"))

	if bar := renderPaginationBar(m.dashBrowser); bar != "" {
		sections = append(sections, bar)
	}
	sections = append(sections, m.footer("n: new post  e: edit  x: delete  enter: read  /: search  ←/→: page  esc: home"))
	return strings.Join(sections, "\n\n")
}

func (m *appModel) viewEditor() string {
	if m.editor == nil {
		return m.header("Editor")
	}

	section := "New post"
	if m.editor.postID != 0 {
		section = "Edit post"
	}

	var sections []string
	sections = append(sections, m.header(section))
	if m.editor.loading {
		sections = append(sections, styleMuted().Render("Loading post…"))
	} else {
		sections = append(sections, m.editor.view(m.contentWidth()))
	}
	sections = append(sections, m.footer("tab: next field  enter on button: submit  esc: back"))
	return strings.Join(sections, "\n\n")
}
