package tui

import (
	"context"

	"quill-cli/internal/api"
	"quill-cli/internal/browse"
	"quill-cli/internal/form"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case flashExpireMsg:
		if msg.seq == m.flash.seq {
			m.flash.text = ""
		}
		return m, nil

	case navMsg:
		if msg.seq != m.navSeq {
			return m, nil
		}
		return m, m.goTo(msg.to)

	case fieldErrExpireMsg:
		if frm := m.formByID(msg.formID); frm != nil {
			if msg.field == "" {
				frm.ExpireNotice(msg.seq)
			} else {
				frm.ExpireFieldError(msg.field, msg.seq)
			}
		}
		return m, nil

	case listFetchedMsg:
		return m.onListFetched(msg)

	case postFetchedMsg:
		if msg.slug != m.postSlug || m.view != viewPost {
			return m, nil
		}
		m.postLoading = false
		if msg.err != nil {
			m.postErr = msg.err.Error()
			return m, nil
		}
		m.post = msg.post
		m.postErr = ""
		m.postBody.SetContent(renderMarkdown(msg.post.Content, m.contentWidth()))
		m.postBody.GotoTop()
		return m, nil

	case profileFetchedMsg:
		if msg.err != nil {
			if cmd, ok := m.authRedirect(msg.err); ok {
				return m, cmd
			}
			m.profileErr = msg.err.Error()
			return m, nil
		}
		m.profileName = msg.user.Name
		m.profileErr = ""
		return m, nil

	case loginDoneMsg:
		return m.onLoginDone(msg)

	case registerDoneMsg:
		return m.onFormDone(m.registerForm, msg.err,
			"Registration successful. Redirecting to log in…", viewLogin)

	case contactDoneMsg:
		m.contactForm.frm.EndSubmit()
		if msg.err != nil {
			return m, m.formError(m.contactForm, msg.err)
		}
		m.contactForm.reset()
		text := msg.message
		if text == "" {
			text = "Message sent."
		}
		return m, m.setFlash(text, form.SeveritySuccess)

	case forgotDoneMsg:
		m.forgotForm.frm.EndSubmit()
		if msg.err != nil {
			return m, m.formError(m.forgotForm, msg.err)
		}
		seq := m.forgotForm.frm.SetNotice("Password reset email sent.", form.SeveritySuccess)
		return m, noticeExpiry(m.forgotForm.id, seq)

	case resetDoneMsg:
		return m.onFormDone(m.resetForm, msg.err,
			"Password reset. Redirecting to log in…", viewLogin)

	case editPrefillMsg:
		if m.editor == nil || m.view != viewEditor {
			return m, nil
		}
		if msg.err != nil {
			if cmd, ok := m.authRedirect(msg.err); ok {
				return m, cmd
			}
			flashCmd := m.setFlash(msg.err.Error(), form.SeverityError)
			return m, tea.Batch(flashCmd, m.goTo(viewDashboard))
		}
		m.editor.prefill(msg.post)
		return m, nil

	case mutationDoneMsg:
		return m.onMutationDone(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m appModel) onListFetched(msg listFetchedMsg) (tea.Model, tea.Cmd) {
	b := m.browserFor(msg.scope)
	if msg.err != nil && msg.scope == browse.ScopePrivate {
		if cmd, ok := m.authRedirect(msg.err); ok {
			return m, cmd
		}
	}
	out := b.Apply(msg.seq, msg.res, msg.err)
	if !out.Applied {
		return m, nil
	}
	if out.Refetch {
		return m, m.fetchListCmd(msg.scope, out.Query, out.Seq)
	}
	m.syncList(msg.scope)
	return m, nil
}

func (m appModel) onLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	frm := m.loginForm.frm
	frm.EndSubmit()
	if msg.err != nil {
		return m, m.formError(m.loginForm, msg.err)
	}
	m.authed = true
	seq := frm.SetNotice("Login successful. Redirecting…", form.SeveritySuccess)
	return m, tea.Batch(
		noticeExpiry(m.loginForm.id, seq),
		m.navAfter(loginRedirectDelay, viewHome),
	)
}

// onFormDone is the shared resolve path for forms that redirect on success.
func (m appModel) onFormDone(fv *formView, err error, successText string, to view) (tea.Model, tea.Cmd) {
	fv.frm.EndSubmit()
	if err != nil {
		return m, m.formError(fv, err)
	}
	seq := fv.frm.SetNotice(successText, form.SeveritySuccess)
	return m, tea.Batch(
		noticeExpiry(fv.id, seq),
		m.navAfter(saveRedirectDelay, to),
	)
}

func (m appModel) onMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.kind == mutationDelete {
		m.deleting = false
		if msg.err != nil {
			if cmd, ok := m.authRedirect(msg.err); ok {
				return m, cmd
			}
			return m, m.setFlash(msg.err.Error(), form.SeverityError)
		}
		// Refresh so the rendered page reflects the server; deleting the last
		// item on the last page clamps via the refetch outcome.
		q, seq := m.dashBrowser.Refresh()
		cmds := []tea.Cmd{
			m.setFlash("Post deleted.", form.SeveritySuccess),
			m.fetchListCmd(browse.ScopePrivate, q, seq),
			m.fetchProfileCmd(),
		}
		if _, ok := m.homeBrowser.Result(); ok {
			hq, hseq := m.homeBrowser.Refresh()
			cmds = append(cmds, m.fetchListCmd(browse.ScopePublic, hq, hseq))
		}
		return m, tea.Batch(cmds...)
	}

	if m.editor == nil {
		return m, nil
	}
	frm := m.editor.frm
	frm.EndSubmit()
	if msg.err != nil {
		if cmd, ok := m.authRedirect(msg.err); ok {
			return m, cmd
		}
		seq := frm.SetNotice(msg.err.Error(), form.SeverityError)
		return m, noticeExpiry("editor", seq)
	}

	if msg.kind == mutationCreate {
		// A new post lands on the dashboard list right away; only edits linger
		// on the confirmation before redirecting.
		text := msg.message
		if text == "" {
			text = "Post published."
		}
		cmds := []tea.Cmd{
			m.setFlash(text, form.SeveritySuccess),
			m.goTo(viewDashboard),
		}
		if _, ok := m.homeBrowser.Result(); ok {
			hq, hseq := m.homeBrowser.Refresh()
			cmds = append(cmds, m.fetchListCmd(browse.ScopePublic, hq, hseq))
		}
		return m, tea.Batch(cmds...)
	}

	text := msg.message
	if text == "" {
		text = "Post updated. Redirecting…"
	}
	seq := frm.SetNotice(text, form.SeveritySuccess)
	cmds := []tea.Cmd{
		noticeExpiry("editor", seq),
		m.navAfter(saveRedirectDelay, viewDashboard),
	}
	if _, ok := m.homeBrowser.Result(); ok {
		hq, hseq := m.homeBrowser.Refresh()
		cmds = append(cmds, m.fetchListCmd(browse.ScopePublic, hq, hseq))
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.view {
	case viewHome:
		return m.handleHomeKey(msg)
	case viewPost:
		return m.handlePostKey(msg)
	case viewDashboard:
		return m.handleDashboardKey(msg)
	case viewEditor:
		return m.handleEditorKey(msg)
	case viewLogin:
		return m.handleLoginKey(msg)
	case viewRegister:
		return m.handleRegisterKey(msg)
	case viewContact:
		return m.handleContactKey(msg)
	case viewForgotPassword:
		return m.handleForgotKey(msg)
	case viewResetPassword:
		return m.handleResetKey(msg)
	}
	return m, nil
}

func (m appModel) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.homeSearchOn {
		cmd := m.updateSearch(msg, browse.ScopePublic)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.homeSearchOn = true
		return m, m.homeSearch.Focus()
	case "enter":
		if it, ok := m.homeList.SelectedItem().(postItem); ok {
			return m, m.openPost(it.post.Slug, viewHome)
		}
		return m, nil
	case "l":
		return m, m.goTo(viewLogin)
	case "r":
		return m, m.goTo(viewRegister)
	case "c":
		return m, m.goTo(viewContact)
	case "f":
		return m, m.goTo(viewForgotPassword)
	case "t":
		return m, m.goTo(viewResetPassword)
	case "d":
		return m, m.goTo(viewDashboard)
	case "o":
		if !m.authed {
			return m, nil
		}
		_ = m.session.Clear(context.Background())
		m.authed = false
		return m, m.setFlash("Logged out.", form.SeverityInfo)
	}

	if page, ok := paginationKeyTarget(m.homeBrowser, msg.String()); ok {
		if q, seq, ok := m.homeBrowser.SetPage(page); ok {
			return m, m.fetchListCmd(browse.ScopePublic, q, seq)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.homeList, cmd = m.homeList.Update(msg)
	return m, cmd
}

func (m appModel) handlePostKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "q":
		return m, m.goTo(m.postFrom)
	}
	var cmd tea.Cmd
	m.postBody, cmd = m.postBody.Update(msg)
	return m, cmd
}

func (m appModel) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmDeleteID != 0 {
		return m.handleConfirmKey(msg)
	}
	if m.dashSearchOn {
		cmd := m.updateSearch(msg, browse.ScopePrivate)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		return m, m.goTo(viewHome)
	case "/":
		m.dashSearchOn = true
		return m, m.dashSearch.Focus()
	case "n":
		return m, m.openEditor(0)
	case "e":
		if it, ok := m.dashList.SelectedItem().(myPostItem); ok {
			return m, m.openEditor(it.post.ID)
		}
		return m, nil
	case "x", "delete":
		if it, ok := m.dashList.SelectedItem().(myPostItem); ok {
			m.confirmDeleteID = it.post.ID
			m.confirmDeleteTitle = it.post.Title
			m.confirmFocus = confirmFocusCancel
		}
		return m, nil
	case "enter":
		if it, ok := m.dashList.SelectedItem().(myPostItem); ok {
			return m, m.openPost(it.post.Slug, viewDashboard)
		}
		return m, nil
	}

	if page, ok := paginationKeyTarget(m.dashBrowser, msg.String()); ok {
		if q, seq, ok := m.dashBrowser.SetPage(page); ok {
			return m, m.fetchListCmd(browse.ScopePrivate, q, seq)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.dashList, cmd = m.dashList.Update(msg)
	return m, cmd
}

func (m appModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "left", "right":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "enter":
		id := m.confirmDeleteID
		m.confirmDeleteID = 0
		m.confirmDeleteTitle = ""
		if m.confirmFocus == confirmFocusConfirm && !m.deleting {
			m.deleting = true
			return m, m.deletePostCmd(id)
		}
		return m, nil
	case "esc":
		m.confirmDeleteID = 0
		m.confirmDeleteTitle = ""
		return m, nil
	}
	return m, nil
}

func (m appModel) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editor == nil {
		return m, m.goTo(viewDashboard)
	}
	if msg.String() == "esc" {
		return m, m.goTo(viewDashboard)
	}
	cmd, submit := m.editor.update(msg)
	if !submit {
		return m, cmd
	}
	if !m.editor.frm.BeginSubmit() {
		return m, cmd
	}
	draft := m.editor.draft()
	if m.editor.postID == 0 {
		return m, m.createPostCmd(draft)
	}
	return m, m.updatePostCmd(m.editor.postID, draft)
}

func (m appModel) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, m.goTo(viewHome)
	case "ctrl+r":
		return m, m.goTo(viewRegister)
	case "ctrl+f":
		return m, m.goTo(viewForgotPassword)
	}
	cmd, submit := m.loginForm.update(msg)
	if !submit {
		return m, cmd
	}
	return m, m.submitLogin()
}

func (m *appModel) submitLogin() tea.Cmd {
	frm := m.loginForm.frm
	email := frm.Field("email")
	password := frm.Field("password")

	var cmds []tea.Cmd
	if !form.ValidEmail(email) {
		seq := frm.SetFieldError("email", "Enter a valid email address.")
		cmds = append(cmds, fieldErrExpiry(m.loginForm.id, "email", seq))
	}
	if !form.ValidPassword(password) {
		seq := frm.SetFieldError("password", "Password must be 8+ characters with a number and an uppercase letter.")
		cmds = append(cmds, fieldErrExpiry(m.loginForm.id, "password", seq))
	}
	if len(cmds) > 0 {
		return tea.Batch(cmds...)
	}
	if !frm.BeginSubmit() {
		return nil
	}
	return m.loginCmd(email, password)
}

func (m appModel) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, m.goTo(viewHome)
	case "ctrl+l":
		return m, m.goTo(viewLogin)
	}
	cmd, submit := m.registerForm.update(msg)
	if !submit {
		return m, cmd
	}
	return m, m.submitRegister()
}

func (m *appModel) submitRegister() tea.Cmd {
	frm := m.registerForm.frm

	var cmds []tea.Cmd
	if !form.ValidEmail(frm.Field("email")) {
		seq := frm.SetFieldError("email", "Enter a valid email address.")
		cmds = append(cmds, fieldErrExpiry(m.registerForm.id, "email", seq))
	}
	if !form.ValidPassword(frm.Field("password")) {
		seq := frm.SetFieldError("password", "Password must be 8+ characters with a number and an uppercase letter.")
		cmds = append(cmds, fieldErrExpiry(m.registerForm.id, "password", seq))
	}
	if len(cmds) > 0 {
		return tea.Batch(cmds...)
	}
	if !frm.BeginSubmit() {
		return nil
	}
	return m.registerCmd(api.Registration{
		Name:      frm.Field("name"),
		DOB:       frm.Field("dob"),
		Place:     frm.Field("place"),
		Address:   frm.Field("address"),
		Email:     frm.Field("email"),
		Password:  frm.Field("password"),
		ImagePath: frm.Field("image"),
	})
}

func (m appModel) handleContactKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		return m, m.goTo(viewHome)
	}
	cmd, submit := m.contactForm.update(msg)
	if !submit {
		return m, cmd
	}
	frm := m.contactForm.frm
	if !form.ValidEmail(frm.Field("email")) {
		seq := frm.SetFieldError("email", "Enter a valid email address.")
		return m, fieldErrExpiry(m.contactForm.id, "email", seq)
	}
	if !frm.BeginSubmit() {
		return m, nil
	}
	return m, m.contactCmd(api.ContactMessage{
		Name:    frm.Field("name"),
		Email:   frm.Field("email"),
		Phone:   frm.Field("phone"),
		Message: frm.Field("message"),
	})
}

func (m appModel) handleForgotKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		return m, m.goTo(viewLogin)
	}
	cmd, submit := m.forgotForm.update(msg)
	if !submit {
		return m, cmd
	}
	frm := m.forgotForm.frm
	if !form.ValidEmail(frm.Field("email")) {
		seq := frm.SetFieldError("email", "Enter a valid email address.")
		return m, fieldErrExpiry(m.forgotForm.id, "email", seq)
	}
	if !frm.BeginSubmit() {
		return m, nil
	}
	return m, m.forgotPasswordCmd(frm.Field("email"))
}

func (m appModel) handleResetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		return m, m.goTo(viewLogin)
	}
	cmd, submit := m.resetForm.update(msg)
	if !submit {
		return m, cmd
	}
	frm := m.resetForm.frm
	newPassword := frm.Field("new_password")
	confirm := frm.Field("confirm_password")

	var cmds []tea.Cmd
	if !form.ValidPassword(newPassword) {
		seq := frm.SetFieldError("new_password", "Password must be 8+ characters with a number and an uppercase letter.")
		cmds = append(cmds, fieldErrExpiry(m.resetForm.id, "new_password", seq))
	}
	if newPassword != confirm {
		seq := frm.SetFieldError("confirm_password", "Passwords do not match.")
		cmds = append(cmds, fieldErrExpiry(m.resetForm.id, "confirm_password", seq))
	}
	if len(cmds) > 0 {
		return m, tea.Batch(cmds...)
	}
	if !frm.BeginSubmit() {
		return m, nil
	}
	return m, m.resetPasswordCmd(frm.Field("token"), newPassword, confirm)
}

// goTo navigates, cancelling any pending delayed redirect. Entering a gated
// view without a session redirects to the login view before any private
// request is issued.
func (m *appModel) goTo(v view) tea.Cmd {
	m.navSeq++

	if isGatedView(v) {
		if _, ok := m.session.Token(context.Background()); !ok {
			m.authed = false
			m.view = viewLogin
			m.loginForm.reset()
			return m.setFlash("Please log in to continue.", form.SeverityError)
		}
	}
	m.view = v

	switch v {
	case viewHome:
		if _, ok := m.homeBrowser.Result(); !ok && m.homeBrowser.Status() != browse.StatusLoading {
			q, seq := m.homeBrowser.Start()
			return m.fetchListCmd(browse.ScopePublic, q, seq)
		}
	case viewDashboard:
		m.profileErr = ""
		m.dashSearch.SetValue("")
		m.dashSearchOn = false
		q, seq := m.dashBrowser.Start()
		return tea.Batch(m.fetchProfileCmd(), m.fetchListCmd(browse.ScopePrivate, q, seq))
	case viewLogin:
		m.loginForm.reset()
	case viewRegister:
		m.registerForm.reset()
	case viewContact:
		m.contactForm.reset()
	case viewForgotPassword:
		m.forgotForm.reset()
	case viewResetPassword:
		m.resetForm.reset()
	}
	return nil
}

func (m *appModel) openEditor(postID int) tea.Cmd {
	if _, ok := m.session.Token(context.Background()); !ok {
		m.authed = false
		m.navSeq++
		m.view = viewLogin
		m.loginForm.reset()
		return m.setFlash("Please log in to continue.", form.SeverityError)
	}
	m.navSeq++
	m.view = viewEditor
	m.editor = newEditorState(postID)
	if postID != 0 {
		m.editor.loading = true
		return m.editPrefillCmd(postID)
	}
	return nil
}

func (m *appModel) openPost(slug string, from view) tea.Cmd {
	m.navSeq++
	m.view = viewPost
	m.postFrom = from
	m.postSlug = slug
	m.postLoading = true
	m.postErr = ""
	m.postBody.SetContent("")
	return m.fetchPostCmd(slug)
}

// authRedirect applies the global auth-failure policy to an error from a
// private request: on a 401 the session is cleared and the user lands on the
// login view. Reports whether it redirected.
func (m *appModel) authRedirect(err error) (tea.Cmd, bool) {
	redirect, clearErr := m.session.HandleAuthFailure(context.Background(), err)
	if !redirect {
		return nil, false
	}
	m.navSeq++
	m.view = viewLogin
	m.loginForm.reset()
	text := "Session expired. Please log in again."
	if clearErr != nil {
		// The stale token is still in the store; authed stays true so the
		// surfaces that consult it keep agreeing with the store.
		text = "Session expired, but the stale token could not be cleared: " + clearErr.Error()
	} else {
		m.authed = false
	}
	return m.setFlash(text, form.SeverityError), true
}

func (m *appModel) formError(fv *formView, err error) tea.Cmd {
	if fe, ok := api.AsFieldErrors(err); ok {
		tokens := fv.frm.ApplyServerErrors(fe)
		cmds := make([]tea.Cmd, 0, len(tokens))
		for field, seq := range tokens {
			cmds = append(cmds, fieldErrExpiry(fv.id, field, seq))
		}
		return tea.Batch(cmds...)
	}
	seq := fv.frm.SetNotice(err.Error(), form.SeverityError)
	return noticeExpiry(fv.id, seq)
}

func (m *appModel) browserFor(scope browse.Scope) *browse.Browser {
	if scope == browse.ScopePublic {
		return m.homeBrowser
	}
	return m.dashBrowser
}

func (m *appModel) syncList(scope browse.Scope) {
	if scope == browse.ScopePublic {
		if res, ok := m.homeBrowser.Result(); ok {
			m.homeList.SetItems(postListItems(res.Posts))
		}
		return
	}
	if res, ok := m.dashBrowser.Result(); ok {
		m.dashList.SetItems(myPostListItems(res.Posts))
	}
}

func (m *appModel) formByID(id string) *form.Form {
	switch id {
	case "login":
		return m.loginForm.frm
	case "register":
		return m.registerForm.frm
	case "contact":
		return m.contactForm.frm
	case "forgot":
		return m.forgotForm.frm
	case "reset":
		return m.resetForm.frm
	case "editor":
		if m.editor == nil {
			return nil
		}
		return m.editor.frm
	}
	return nil
}

// updateSearch routes keys to the focused search input; every edit refetches
// from page 1 immediately.
func (m *appModel) updateSearch(msg tea.KeyMsg, scope browse.Scope) tea.Cmd {
	var input *textinput.Model
	var on *bool
	if scope == browse.ScopePublic {
		input, on = &m.homeSearch, &m.homeSearchOn
	} else {
		input, on = &m.dashSearch, &m.dashSearchOn
	}

	switch msg.String() {
	case "esc", "enter":
		input.Blur()
		*on = false
		return nil
	}

	before := input.Value()
	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	if input.Value() == before {
		return cmd
	}
	b := m.browserFor(scope)
	q, seq := b.SetSearch(input.Value())
	return tea.Batch(cmd, m.fetchListCmd(scope, q, seq))
}
