package tui

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"quill-cli/internal/api"
	"quill-cli/internal/browse"
	"quill-cli/internal/form"
	"quill-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) appModel {
	t.Helper()
	st := store.Store{Dir: t.TempDir()}
	return newAppModel("http://127.0.0.1:0", st)
}

func newLoggedInModel(t *testing.T) appModel {
	t.Helper()
	st := store.Store{Dir: t.TempDir()}
	if err := st.SetState(context.Background(), store.TokenKey, "jwt-test"); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	return newAppModel("http://127.0.0.1:0", st)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(appModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return am, cmd
}

func listMsg(scope browse.Scope, seq int, posts []api.Post, current, total int) listFetchedMsg {
	return listFetchedMsg{
		scope: scope,
		seq:   seq,
		res: api.ListResult{
			Posts:       posts,
			CurrentPage: current,
			TotalPages:  total,
			TotalPosts:  total * browse.DefaultPerPage,
		},
	}
}

func somePosts(n int) []api.Post {
	posts := make([]api.Post, n)
	for i := range posts {
		posts[i] = api.Post{ID: i + 1, Title: "Post", Slug: "post"}
	}
	return posts
}

func TestDashboardKey_WithoutSessionRedirectsToLogin(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m, cmd := update(t, m, keyRune('d'))

	if m.view != viewLogin {
		t.Fatalf("expected viewLogin; got %v", m.view)
	}
	if m.flash.text == "" {
		t.Fatalf("expected a flash explaining the redirect")
	}
	// Only the flash expiry timer; no private request was issued, so the
	// private browser never left Idle.
	if cmd == nil {
		t.Fatalf("expected the flash expiry command")
	}
	if m.dashBrowser.Status() != browse.StatusIdle {
		t.Fatalf("private fetch issued without a session; status %v", m.dashBrowser.Status())
	}
}

func TestDashboardKey_WithSessionFetches(t *testing.T) {
	t.Parallel()

	m := newLoggedInModel(t)
	m, cmd := update(t, m, keyRune('d'))

	if m.view != viewDashboard {
		t.Fatalf("expected viewDashboard; got %v", m.view)
	}
	if cmd == nil {
		t.Fatalf("expected profile+list fetch commands")
	}
	if m.dashBrowser.Status() != browse.StatusLoading {
		t.Fatalf("expected private browser loading; got %v", m.dashBrowser.Status())
	}
}

func TestListFetched_StaleSeqDiscarded(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	_, seq1 := m.homeBrowser.Start()

	m, _ = update(t, m, listMsg(browse.ScopePublic, seq1, somePosts(4), 1, 3))
	if got := len(m.homeList.Items()); got != 4 {
		t.Fatalf("expected 4 rendered items; got %d", got)
	}

	// Issue page 2 then page 3; the page-2 response arrives late.
	_, seq2, _ := m.homeBrowser.SetPage(2)
	_, seq3, _ := m.homeBrowser.SetPage(3)

	m, _ = update(t, m, listMsg(browse.ScopePublic, seq2, somePosts(2), 2, 3))
	res, _ := m.homeBrowser.Result()
	if res.CurrentPage != 1 {
		t.Fatalf("stale response rendered; current page %d", res.CurrentPage)
	}

	m, _ = update(t, m, listMsg(browse.ScopePublic, seq3, somePosts(1), 3, 3))
	res, _ = m.homeBrowser.Result()
	if res.CurrentPage != 3 {
		t.Fatalf("latest response not rendered; current page %d", res.CurrentPage)
	}
	if got := len(m.homeList.Items()); got != 1 {
		t.Fatalf("expected 1 rendered item; got %d", got)
	}
}

func TestListFetched_Private401ClearsSessionAndRedirects(t *testing.T) {
	t.Parallel()

	m := newLoggedInModel(t)
	m, _ = update(t, m, keyRune('d'))
	seq := m.dashBrowser.Seq()

	authErr := &api.APIError{Status: http.StatusUnauthorized, Message: "token expired"}
	m, cmd := update(t, m, listFetchedMsg{scope: browse.ScopePrivate, seq: seq, err: authErr})

	if m.view != viewLogin {
		t.Fatalf("expected viewLogin after 401; got %v", m.view)
	}
	if cmd == nil {
		t.Fatalf("expected a flash command")
	}
	if _, ok := m.session.Token(context.Background()); ok {
		t.Fatalf("token survived the 401")
	}
}

func TestListFetched_ErrorKeepsRenderedList(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	_, seq := m.homeBrowser.Start()
	m, _ = update(t, m, listMsg(browse.ScopePublic, seq, somePosts(4), 1, 2))

	_, seq2, _ := m.homeBrowser.SetPage(2)
	m, _ = update(t, m, listFetchedMsg{scope: browse.ScopePublic, seq: seq2, err: errors.New("connection refused")})

	if m.homeBrowser.Status() != browse.StatusLoadError {
		t.Fatalf("expected StatusLoadError; got %v", m.homeBrowser.Status())
	}
	if got := len(m.homeList.Items()); got != 4 {
		t.Fatalf("prior items lost on fetch error; got %d", got)
	}
}

func TestDeleteFlow_ConfirmThenClampRefetch(t *testing.T) {
	t.Parallel()

	m := newLoggedInModel(t)
	m, _ = update(t, m, keyRune('d'))
	seq := m.dashBrowser.Seq()

	// Render page 3 of 3 with a single remaining post.
	m, _ = update(t, m, listMsg(browse.ScopePrivate, seq, somePosts(1), 3, 3))

	// x opens the confirm modal on the selected post, defaulting to Cancel.
	m, _ = update(t, m, keyRune('x'))
	if m.confirmDeleteID == 0 {
		t.Fatalf("confirm modal not opened")
	}
	if m.confirmFocus != confirmFocusCancel {
		t.Fatalf("confirm modal should default to Cancel")
	}

	// Esc closes without deleting.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.confirmDeleteID != 0 {
		t.Fatalf("esc did not close the modal")
	}

	// Open again, focus Delete, confirm.
	m, _ = update(t, m, keyRune('x'))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.confirmFocus != confirmFocusConfirm {
		t.Fatalf("tab did not move focus to the confirm control")
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected the delete command")
	}
	if !m.deleting {
		t.Fatalf("delete not marked in flight")
	}
	if m.confirmDeleteID != 0 {
		t.Fatalf("modal still open during delete")
	}

	// The delete resolves: the dashboard refetches its current page.
	m, _ = update(t, m, mutationDoneMsg{kind: mutationDelete})
	if m.deleting {
		t.Fatalf("in-flight flag survived the resolve")
	}
	if m.dashBrowser.Status() != browse.StatusLoading {
		t.Fatalf("expected a refresh fetch after delete; got %v", m.dashBrowser.Status())
	}

	// Page 3 emptied out: the response proves 2 pages remain, so the browser
	// clamps and refetches rather than rendering an out-of-range page.
	m, cmd = update(t, m, listMsg(browse.ScopePrivate, m.dashBrowser.Seq(), nil, 3, 2))
	if cmd == nil {
		t.Fatalf("expected a clamp refetch command")
	}
	if m.dashBrowser.Query().Page != 2 {
		t.Fatalf("expected clamp to page 2; got %d", m.dashBrowser.Query().Page)
	}

	m, _ = update(t, m, listMsg(browse.ScopePrivate, m.dashBrowser.Seq(), somePosts(4), 2, 2))
	res, _ := m.dashBrowser.Result()
	if res.CurrentPage != 2 || len(res.Posts) != 4 {
		t.Fatalf("clamped page not rendered: %+v", res)
	}
}

func TestHomeLogoutKey_ClearsSession(t *testing.T) {
	t.Parallel()

	m := newLoggedInModel(t)
	if !m.authed {
		t.Fatalf("seeded token not detected")
	}

	m, cmd := update(t, m, keyRune('o'))
	if m.authed {
		t.Fatalf("authed flag survived logout")
	}
	if _, ok := m.session.Token(context.Background()); ok {
		t.Fatalf("token survived logout")
	}
	if cmd == nil || m.flash.text == "" {
		t.Fatalf("expected a logout flash")
	}

	// Logged out: the dashboard is gated again.
	m, _ = update(t, m, keyRune('d'))
	if m.view != viewLogin {
		t.Fatalf("expected viewLogin; got %v", m.view)
	}
}

func TestFlashExpiry_IgnoresStaleSeq(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	_ = m.setFlash("first", form.SeverityInfo)
	staleSeq := m.flash.seq
	_ = m.setFlash("second", form.SeverityInfo)

	m, _ = update(t, m, flashExpireMsg{seq: staleSeq})
	if m.flash.text != "second" {
		t.Fatalf("stale expiry cleared the newer flash; got %q", m.flash.text)
	}

	m, _ = update(t, m, flashExpireMsg{seq: m.flash.seq})
	if m.flash.text != "" {
		t.Fatalf("current expiry did not clear the flash")
	}
}

func TestNavMsg_SupersededByNewerNavigation(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	_ = m.navAfter(0, viewContact)
	pending := m.navSeq

	// The user navigates somewhere else before the timer fires.
	m, _ = update(t, m, keyRune('l'))
	if m.view != viewLogin {
		t.Fatalf("expected viewLogin; got %v", m.view)
	}

	// The stale timer fires; it must not yank the user away.
	m, _ = update(t, m, navMsg{seq: pending, to: viewContact})
	if m.view != viewLogin {
		t.Fatalf("superseded redirect still navigated; got %v", m.view)
	}
}

func TestLoginSuccess_NoticeAndDelayedRedirect(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m, _ = update(t, m, keyRune('l'))
	if m.view != viewLogin {
		t.Fatalf("expected viewLogin; got %v", m.view)
	}

	m.loginForm.frm.SetField("email", "a@b.co")
	m.loginForm.frm.SetField("password", "Secret123")
	if !m.loginForm.frm.BeginSubmit() {
		t.Fatalf("submit rejected")
	}

	m, cmd := update(t, m, loginDoneMsg{token: "jwt-1"})
	if cmd == nil {
		t.Fatalf("expected notice expiry + delayed redirect commands")
	}
	if m.loginForm.frm.Submitting() {
		t.Fatalf("in-flight flag survived the resolve")
	}
	fb, ok := m.loginForm.frm.Notice()
	if !ok || fb.Text == "" {
		t.Fatalf("expected a success notice")
	}

	// The delayed redirect lands on home.
	m, _ = update(t, m, navMsg{seq: m.navSeq, to: viewHome})
	if m.view != viewHome {
		t.Fatalf("expected viewHome after the redirect; got %v", m.view)
	}
}

func TestLoginFailure_ShowsServerError(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m, _ = update(t, m, keyRune('l'))

	m.loginForm.frm.SetField("email", "a@b.co")
	m.loginForm.frm.SetField("password", "Secret123")
	if !m.loginForm.frm.BeginSubmit() {
		t.Fatalf("submit rejected")
	}

	m, _ = update(t, m, loginDoneMsg{err: &api.APIError{Status: http.StatusOK, Message: "invalid credentials"}})
	fb, ok := m.loginForm.frm.Notice()
	if !ok || fb.Text != "invalid credentials" {
		t.Fatalf("server error not surfaced; got %+v ok=%v", fb, ok)
	}
	if m.view != viewLogin {
		t.Fatalf("failed login navigated away")
	}
}

func TestRegisterFailure_FieldErrorsAttached(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m, _ = update(t, m, keyRune('r'))
	if m.view != viewRegister {
		t.Fatalf("expected viewRegister; got %v", m.view)
	}

	frm := m.registerForm.frm
	for _, f := range []string{"name", "dob", "place", "address"} {
		frm.SetField(f, "x")
	}
	frm.SetField("email", "a@b.co")
	frm.SetField("password", "Secret123")
	frm.SetField("image", "/tmp/img.jpg")
	if !frm.BeginSubmit() {
		t.Fatalf("submit rejected")
	}

	m, cmd := update(t, m, registerDoneMsg{err: api.FieldErrors{"email": "already registered"}})
	if cmd == nil {
		t.Fatalf("expected field error expiry commands")
	}
	fb, ok := frm.FieldError("email")
	if !ok || fb.Text != "already registered" {
		t.Fatalf("field error not attached; got %+v ok=%v", fb, ok)
	}
	if _, ok := frm.Notice(); ok {
		t.Fatalf("field-scoped failure also set a form-level notice")
	}
}

func TestSearchKeystroke_RefetchesFromPageOne(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	_, seq := m.homeBrowser.Start()
	m, _ = update(t, m, listMsg(browse.ScopePublic, seq, somePosts(4), 2, 3))

	m, _ = update(t, m, keyRune('/'))
	if !m.homeSearchOn {
		t.Fatalf("search input not focused")
	}

	m, cmd := update(t, m, keyRune('c'))
	if cmd == nil {
		t.Fatalf("expected a fetch command for the edited search")
	}
	q := m.homeBrowser.Query()
	if q.Page != 1 || q.Search != "c" {
		t.Fatalf("unexpected query after search edit: %+v", q)
	}
	if m.homeBrowser.Status() != browse.StatusLoading {
		t.Fatalf("expected loading after search edit; got %v", m.homeBrowser.Status())
	}
}

func TestPaginationKeys(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	_, seq := m.homeBrowser.Start()
	m, _ = update(t, m, listMsg(browse.ScopePublic, seq, somePosts(4), 2, 3))

	if page, ok := paginationKeyTarget(m.homeBrowser, "left"); !ok || page != 1 {
		t.Fatalf("left => %d ok=%v", page, ok)
	}
	if page, ok := paginationKeyTarget(m.homeBrowser, "right"); !ok || page != 3 {
		t.Fatalf("right => %d ok=%v", page, ok)
	}
	if page, ok := paginationKeyTarget(m.homeBrowser, "3"); !ok || page != 3 {
		t.Fatalf("3 => %d ok=%v", page, ok)
	}
	if _, ok := paginationKeyTarget(m.homeBrowser, "9"); ok {
		t.Fatalf("out-of-range page key accepted")
	}
	if _, ok := paginationKeyTarget(m.homeBrowser, "x"); ok {
		t.Fatalf("non-pagination key accepted")
	}
}

func TestEditorOpen_CreateVsEdit(t *testing.T) {
	t.Parallel()

	m := newLoggedInModel(t)
	m, _ = update(t, m, keyRune('d'))
	m, _ = update(t, m, listMsg(browse.ScopePrivate, m.dashBrowser.Seq(), somePosts(1), 1, 1))

	// n opens a blank editor; a new post requires an image.
	m, cmd := update(t, m, keyRune('n'))
	if m.view != viewEditor || m.editor == nil {
		t.Fatalf("editor not opened")
	}
	if cmd != nil {
		t.Fatalf("blank editor should not fetch anything")
	}
	m.editor.frm.SetField("title", "T")
	m.editor.frm.SetField("content", "C")
	if m.editor.frm.CanSubmit() {
		t.Fatalf("create allowed without an image")
	}
	m.editor.frm.SetField("image", "/tmp/x.jpg")
	if !m.editor.frm.CanSubmit() {
		t.Fatalf("complete create form blocked")
	}

	// e opens the edit editor and issues the prefill fetch; image is optional.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = update(t, m, listMsg(browse.ScopePrivate, m.dashBrowser.Seq(), somePosts(1), 1, 1))
	m, cmd = update(t, m, keyRune('e'))
	if m.view != viewEditor || m.editor == nil || m.editor.postID == 0 {
		t.Fatalf("edit editor not opened")
	}
	if cmd == nil {
		t.Fatalf("expected the prefill fetch")
	}
	if !m.editor.loading {
		t.Fatalf("editor not marked loading during prefill")
	}

	m, _ = update(t, m, editPrefillMsg{post: api.Post{ID: 1, Title: "Old", Content: "Body"}})
	if m.editor.loading {
		t.Fatalf("loading flag survived prefill")
	}
	if m.editor.frm.Field("title") != "Old" || m.editor.frm.Field("content") != "Body" {
		t.Fatalf("prefill did not populate the form")
	}
	if !m.editor.frm.CanSubmit() {
		t.Fatalf("edit without a replacement image blocked")
	}
}

func TestMutationCreate_NavigatesToDashboardImmediately(t *testing.T) {
	t.Parallel()

	m := newLoggedInModel(t)
	m, _ = update(t, m, keyRune('d'))
	m, _ = update(t, m, listMsg(browse.ScopePrivate, m.dashBrowser.Seq(), somePosts(1), 1, 1))
	m, _ = update(t, m, keyRune('n'))
	m.editor.frm.SetField("title", "T")
	m.editor.frm.SetField("content", "C")
	m.editor.frm.SetField("image", "/tmp/x.jpg")
	if !m.editor.frm.BeginSubmit() {
		t.Fatalf("submit rejected")
	}

	// A successful create lands on the dashboard list right away, without
	// waiting out the delayed redirect edits use.
	m, cmd := update(t, m, mutationDoneMsg{kind: mutationCreate})
	if m.view != viewDashboard {
		t.Fatalf("expected viewDashboard immediately after create; got %v", m.view)
	}
	if cmd == nil {
		t.Fatalf("expected flash + dashboard fetch commands")
	}
	if m.flash.text == "" {
		t.Fatalf("no confirmation flash after create")
	}
	if m.dashBrowser.Status() != browse.StatusLoading {
		t.Fatalf("dashboard list not refreshing after create; got %v", m.dashBrowser.Status())
	}
}

func TestMutationUpdate_NoticeAndRedirect(t *testing.T) {
	t.Parallel()

	m := newLoggedInModel(t)
	m, _ = update(t, m, keyRune('d'))
	m, _ = update(t, m, listMsg(browse.ScopePrivate, m.dashBrowser.Seq(), somePosts(1), 1, 1))
	m, _ = update(t, m, keyRune('e'))
	m, _ = update(t, m, editPrefillMsg{post: api.Post{ID: 1, Title: "Old", Content: "Body"}})

	if !m.editor.frm.BeginSubmit() {
		t.Fatalf("submit rejected")
	}
	m, cmd := update(t, m, mutationDoneMsg{kind: mutationUpdate, message: "Post updated"})
	if cmd == nil {
		t.Fatalf("expected notice expiry + redirect commands")
	}
	fb, ok := m.editor.frm.Notice()
	if !ok || fb.Text != "Post updated" {
		t.Fatalf("server message not surfaced; got %+v ok=%v", fb, ok)
	}

	m, _ = update(t, m, navMsg{seq: m.navSeq, to: viewDashboard})
	if m.view != viewDashboard {
		t.Fatalf("expected viewDashboard after the redirect; got %v", m.view)
	}
}
