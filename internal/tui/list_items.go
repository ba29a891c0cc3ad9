package tui

import (
	"fmt"
	"strings"

	"quill-cli/internal/api"

	"github.com/charmbracelet/bubbles/list"
)

type postItem struct {
	post api.Post
}

func (i postItem) FilterValue() string { return i.post.Title }
func (i postItem) Title() string       { return i.post.Title }
func (i postItem) Description() string {
	return fmt.Sprintf("%s  %s  %s", i.post.Date, i.post.Author, excerpt(i.post.Content, 60))
}

// myPostItem is a dashboard row: a compact one-liner with the actions hint
// living in the footer instead of per-row buttons.
type myPostItem struct {
	post api.Post
}

func (i myPostItem) FilterValue() string { return i.post.Title }
func (i myPostItem) Title() string {
	return fmt.Sprintf("%-4d %s  %s", i.post.ID, i.post.Title, i.post.Date)
}
func (i myPostItem) Description() string { return "" }

func excerpt(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

func newList(title string, delegate list.ItemDelegate, items []list.Item) list.Model {
	l := list.New(items, delegate, 0, 0)
	l.Title = title
	// We render our own chrome (header, search box, pagination bar), so keep
	// the list minimal. Filtering stays off: search is server-side.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("post", "posts")
	// Bubble list defaults to quitting on ESC; here ESC is "back".
	l.KeyMap.Quit.SetKeys("q")
	return l
}

func postListItems(posts []api.Post) []list.Item {
	items := make([]list.Item, 0, len(posts))
	for _, p := range posts {
		items = append(items, postItem{post: p})
	}
	return items
}

func myPostListItems(posts []api.Post) []list.Item {
	items := make([]list.Item, 0, len(posts))
	for _, p := range posts {
		items = append(items, myPostItem{post: p})
	}
	return items
}
