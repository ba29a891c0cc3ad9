package tui

import (
	"strings"

	"quill-cli/internal/api"
	"quill-cli/internal/form"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	editorFocusTitle = iota
	editorFocusContent
	editorFocusImage
	editorFocusSubmit
)

// editorState is the post create/edit form. Content is a multi-line textarea,
// so focus moves with tab only; enter inside the content field inserts a
// newline.
type editorState struct {
	postID  int // 0 => new post
	loading bool

	frm     *form.Form
	title   textinput.Model
	content textarea.Model
	image   textinput.Model
	focus   int
}

func newEditorState(postID int) *editorState {
	// A new post must carry an image; editing without one keeps the existing
	// image on the server.
	var frm *form.Form
	if postID == 0 {
		frm = form.New("title", "content", "image")
	} else {
		frm = form.New("title", "content")
	}

	title := textinput.New()
	title.Placeholder = "Post title"
	title.Prompt = "> "
	title.CharLimit = 200

	content := textarea.New()
	content.Placeholder = "Write your post (markdown)…"
	content.CharLimit = 0
	content.ShowLineNumbers = false

	image := textinput.New()
	if postID == 0 {
		image.Placeholder = "~/cover.jpg"
	} else {
		image.Placeholder = "leave empty to keep the current image"
	}
	image.Prompt = "> "
	image.CharLimit = 512

	e := &editorState{postID: postID, frm: frm, title: title, content: content, image: image}
	e.setFocus(editorFocusTitle)
	return e
}

func (e *editorState) setFocus(i int) {
	if i < editorFocusTitle {
		i = editorFocusTitle
	}
	if i > editorFocusSubmit {
		i = editorFocusSubmit
	}
	e.focus = i
	e.title.Blur()
	e.content.Blur()
	e.image.Blur()
	switch i {
	case editorFocusTitle:
		e.title.Focus()
	case editorFocusContent:
		e.content.Focus()
	case editorFocusImage:
		e.image.Focus()
	}
}

func (e *editorState) prefill(p api.Post) {
	e.loading = false
	e.title.SetValue(p.Title)
	e.content.SetValue(p.Content)
	e.frm.SetField("title", p.Title)
	e.frm.SetField("content", p.Content)
}

func (e *editorState) draft() api.PostDraft {
	return api.PostDraft{
		Title:     e.frm.Field("title"),
		Content:   e.frm.Field("content"),
		ImagePath: e.frm.Field("image"),
	}
}

func (e *editorState) update(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "tab":
		e.setFocus((e.focus + 1) % (editorFocusSubmit + 1))
		return nil, false
	case "shift+tab":
		e.setFocus((e.focus + editorFocusSubmit) % (editorFocusSubmit + 1))
		return nil, false
	case "enter":
		if e.focus == editorFocusSubmit {
			return nil, e.frm.CanSubmit()
		}
		if e.focus != editorFocusContent {
			e.setFocus(e.focus + 1)
			return nil, false
		}
	}

	var cmd tea.Cmd
	switch e.focus {
	case editorFocusTitle:
		e.title, cmd = e.title.Update(msg)
		e.frm.SetField("title", e.title.Value())
	case editorFocusContent:
		e.content, cmd = e.content.Update(msg)
		e.frm.SetField("content", e.content.Value())
	case editorFocusImage:
		e.image, cmd = e.image.Update(msg)
		e.frm.SetField("image", e.image.Value())
	}
	return cmd, false
}

func (e *editorState) view(width int) string {
	inputW := width - 4
	if inputW > 72 {
		inputW = 72
	}
	if inputW < 20 {
		inputW = 20
	}
	e.title.Width = inputW
	e.image.Width = inputW
	e.content.SetWidth(inputW)
	e.content.SetHeight(8)

	label := func(text string, focused bool) string {
		if focused {
			return lipgloss.NewStyle().Bold(true).Render(text)
		}
		return styleMuted().Render(text)
	}

	var b strings.Builder
	b.WriteString(label("Title", e.focus == editorFocusTitle))
	b.WriteString("\n" + e.title.View() + "\n\n")
	b.WriteString(label("Content", e.focus == editorFocusContent))
	b.WriteString("\n" + e.content.View() + "\n\n")
	imageLabel := "Image"
	if e.postID != 0 {
		imageLabel = "Image (optional)"
	}
	b.WriteString(label(imageLabel, e.focus == editorFocusImage))
	b.WriteString("\n" + e.image.View() + "\n\n")
	b.WriteString(e.submitControl())
	b.WriteString("\n")

	if fb, ok := e.frm.Notice(); ok {
		b.WriteString("\n" + renderFeedback(fb.Text, fb.Severity) + "\n")
	}
	return b.String()
}

func (e *editorState) submitControl() string {
	label := "Publish"
	if e.postID != 0 {
		label = "Save changes"
	}
	if e.frm.Submitting() {
		label = "Working…"
	}

	st := lipgloss.NewStyle().Padding(0, 2)
	switch {
	case !e.frm.CanSubmit():
		st = faintIfDark(st.Foreground(colorMuted).Background(colorControlBg))
	case e.focus == editorFocusSubmit:
		st = st.Bold(true).Foreground(colorAccentFg).Background(colorAccent)
	default:
		st = st.Foreground(colorSurfaceFg).Background(colorControlBg)
	}
	return st.Render(label)
}
