package tui

import (
	"fmt"
	"strings"

	"quill-cli/internal/browse"
)

func (m *appModel) viewHome() string {
	var sections []string
	sections = append(sections, m.header("Posts"))
	sections = append(sections, m.searchLine(m.homeSearch.View(), m.homeSearchOn, m.homeBrowser))
	sections = append(sections, m.browserBody(m.homeBrowser, m.homeList.View(), "No posts found"))

	if bar := renderPaginationBar(m.homeBrowser); bar != "" {
		sections = append(sections, bar)
	}

	hints := "enter: read  /: search  ←/→: page  "
	if m.authed {
		hints += "d: dashboard  o: log out  c: contact  q: quit"
	} else {
		hints += "l: log in  r: register  c: contact  q: quit"
	}
	sections = append(sections, m.footer(hints))
	return strings.Join(sections, "\n\n")
}

// searchLine shows the search input when focused or non-empty, otherwise a hint.
func (m *appModel) searchLine(inputView string, focused bool, b *browse.Browser) string {
	if focused || b.Search() != "" {
		return inputView
	}
	return styleMuted().Render("/ to search")
}

// browserBody renders the list region for one browser: the list when there is
// anything to show, the placeholder for a confirmed empty page, a loading line
// before the first render, and a non-blocking error indicator on fetch
// failure (the prior page stays visible underneath).
func (m *appModel) browserBody(b *browse.Browser, listView, emptyText string) string {
	var parts []string
	if errText := b.ErrorText(); errText != "" {
		parts = append(parts, styleError().Render(fmt.Sprintf("Could not load posts: %s", errText)))
	}

	switch {
	case b.ShowEmptyPlaceholder():
		parts = append(parts, styleMuted().Render(emptyText))
	case hasRenderedPosts(b):
		parts = append(parts, listView)
	case b.Status() == browse.StatusLoading:
		parts = append(parts, styleMuted().Render("Loading…"))
	default:
		parts = append(parts, "")
	}
	return strings.Join(parts, "\n")
}

func hasRenderedPosts(b *browse.Browser) bool {
	res, ok := b.Result()
	return ok && len(res.Posts) > 0
}
