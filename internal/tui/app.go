package tui

import (
	"context"
	"strings"
	"time"

	"quill-cli/internal/api"
	"quill-cli/internal/browse"
	"quill-cli/internal/form"
	"quill-cli/internal/session"
	"quill-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Redirect delays after a successful auth/mutation, long enough to read the
// confirmation before the view switches.
const (
	loginRedirectDelay = 1500 * time.Millisecond
	saveRedirectDelay  = 2 * time.Second
)

type appModel struct {
	client  *api.Client
	session *session.Manager
	store   store.Store

	width  int
	height int

	view   view
	navSeq int

	// authed caches token presence for rendering; the session store stays the
	// source of truth for gating and requests.
	authed bool

	flash flash

	// Public post feed.
	homeBrowser  *browse.Browser
	homeList     list.Model
	homeSearch   textinput.Model
	homeSearchOn bool

	// Single post.
	postSlug    string
	postLoading bool
	post        api.Post
	postErr     string
	postFrom    view
	postBody    viewport.Model

	// Dashboard (own posts).
	dashBrowser  *browse.Browser
	dashList     list.Model
	dashSearch   textinput.Model
	dashSearchOn bool
	profileName  string
	profileErr   string

	confirmDeleteID    int
	confirmDeleteTitle string
	confirmFocus       confirmModalFocus
	deleting           bool

	editor *editorState

	loginForm    *formView
	registerForm *formView
	contactForm  *formView
	forgotForm   *formView
	resetForm    *formView
}

func newAppModel(serverURL string, st store.Store) appModel {
	m := appModel{
		client:  api.NewClient(serverURL),
		session: session.NewManager(st),
		store:   st,
		view:    viewHome,
	}
	_, m.authed = m.session.Token(context.Background())

	m.homeBrowser = browse.New(browse.ScopePublic, browse.DefaultPerPage)
	m.homeList = newList("Posts", list.NewDefaultDelegate(), nil)
	m.homeSearch = newSearchInput()

	m.dashBrowser = browse.New(browse.ScopePrivate, browse.DefaultPerPage)
	m.dashList = newList("My posts", newCompactRowDelegate(), nil)
	m.dashSearch = newSearchInput()

	m.postBody = viewport.New(0, 0)

	m.loginForm = newFormView("login", "Log in", form.New("email", "password"),
		newFormField("email", "Email", "you@example.com", false),
		newFormField("password", "Password", "", true),
	)
	m.registerForm = newFormView("register", "Register", form.New("name", "dob", "place", "address", "email", "password", "image"),
		newFormField("name", "Full name", "", false),
		newFormField("dob", "Date of birth", "YYYY-MM-DD", false),
		newFormField("place", "Place", "", false),
		newFormField("address", "Address", "", false),
		newFormField("email", "Email", "you@example.com", false),
		newFormField("password", "Password", "", true),
		newFormField("image", "Profile image path", "~/photo.jpg", false),
	)
	m.contactForm = newFormView("contact", "Send", form.New("name", "email", "phone", "message"),
		newFormField("name", "Name", "", false),
		newFormField("email", "Email", "you@example.com", false),
		newFormField("phone", "Phone", "", false),
		newFormField("message", "Message", "", false),
	)
	m.forgotForm = newFormView("forgot", "Send reset email", form.New("email"),
		newFormField("email", "Email", "you@example.com", false),
	)
	m.resetForm = newFormView("reset", "Reset password", form.New("token", "new_password", "confirm_password"),
		newFormField("token", "Reset token", "from the email you received", false),
		newFormField("new_password", "New password", "", true),
		newFormField("confirm_password", "Confirm password", "", true),
	)

	return m
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Search posts…"
	ti.Prompt = "/ "
	ti.CharLimit = 128
	return ti
}

func (m appModel) Init() tea.Cmd {
	q, seq := m.homeBrowser.Start()
	return m.fetchListCmd(browse.ScopePublic, q, seq)
}

func (m appModel) View() string {
	var body string
	switch m.view {
	case viewHome:
		body = m.viewHome()
	case viewPost:
		body = m.viewPost()
	case viewLogin:
		body = m.viewForm("Log in", m.loginForm, "enter: next/submit  ctrl+t: show password  esc: back")
	case viewRegister:
		body = m.viewForm("Register", m.registerForm, "enter: next/submit  esc: back")
	case viewDashboard:
		body = m.viewDashboard()
	case viewEditor:
		body = m.viewEditor()
	case viewContact:
		body = m.viewForm("Contact", m.contactForm, "enter: next/submit  esc: back")
	case viewForgotPassword:
		body = m.viewForm("Forgot password", m.forgotForm, "enter: submit  esc: back")
	case viewResetPassword:
		body = m.viewForm("Reset password", m.resetForm, "enter: next/submit  esc: back")
	}

	if m.view == viewDashboard && m.confirmDeleteID != 0 {
		modal := renderConfirmModal(
			modalWidth(m.width),
			"Delete post",
			"Delete \""+m.confirmDeleteTitle+"\"? This cannot be undone.",
			"Delete", "Cancel",
			m.confirmFocus,
		)
		return overlayCentered(m.width, m.height, modal)
	}
	return body
}

func (m *appModel) header(section string) string {
	title := lipgloss.NewStyle().Bold(true).Render("Quill · " + section)
	if m.flash.text == "" {
		return title
	}
	return title + "\n" + renderFeedback(m.flash.text, m.flash.severity)
}

func (m *appModel) footer(hints string) string {
	return styleMuted().Render(hints)
}

func (m *appModel) viewForm(section string, fv *formView, hints string) string {
	return strings.Join([]string{
		m.header(section),
		"",
		fv.view(m.contentWidth()),
		m.footer(hints),
	}, "\n")
}

func (m *appModel) contentWidth() int {
	w := m.width
	if w < 40 {
		w = 40
	}
	return w
}

func (m *appModel) listHeight() int {
	h := m.height - 10
	if h < 8 {
		h = 8
	}
	return h
}

func (m *appModel) resize() {
	w := m.contentWidth()
	h := m.listHeight()
	m.homeList.SetSize(w, h)
	m.dashList.SetSize(w, h)
	m.postBody.Width = w
	m.postBody.Height = m.height - 8
	if m.postBody.Height < 5 {
		m.postBody.Height = 5
	}
}

// setFlash replaces the page-level transient notice and returns the expiry
// timer for it. Errors linger a little longer than confirmations.
func (m *appModel) setFlash(text string, sev form.Severity) tea.Cmd {
	m.flash.seq++
	m.flash.text = text
	m.flash.severity = sev
	seq := m.flash.seq
	ttl := form.NoticeTTL
	if sev == form.SeverityError {
		ttl = form.FieldErrorTTL
	}
	return tea.Tick(ttl, func(time.Time) tea.Msg { return flashExpireMsg{seq: seq} })
}

// navAfter schedules a delayed redirect. Any navigation in the meantime
// supersedes it.
func (m *appModel) navAfter(d time.Duration, to view) tea.Cmd {
	m.navSeq++
	seq := m.navSeq
	return tea.Tick(d, func(time.Time) tea.Msg { return navMsg{seq: seq, to: to} })
}
