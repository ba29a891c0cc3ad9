package tui

import (
	"quill-cli/internal/api"
	"quill-cli/internal/browse"
	"quill-cli/internal/form"
)

type view int

const (
	viewHome view = iota
	viewPost
	viewLogin
	viewRegister
	viewDashboard
	viewEditor
	viewContact
	viewForgotPassword
	viewResetPassword
)

// gatedViews mandate a session: entering one without a token redirects to the
// login view before any private request is issued.
func isGatedView(v view) bool {
	return v == viewDashboard || v == viewEditor
}

// listFetchedMsg resolves an async list fetch. seq ties it to the request
// generation that issued it; the browser discards stale generations.
type listFetchedMsg struct {
	scope browse.Scope
	seq   int
	res   api.ListResult
	err   error
}

type postFetchedMsg struct {
	slug string
	post api.Post
	err  error
}

type profileFetchedMsg struct {
	user api.User
	err  error
}

type loginDoneMsg struct {
	token string
	err   error
}

type registerDoneMsg struct{ err error }

type contactDoneMsg struct {
	message string
	err     error
}

type forgotDoneMsg struct{ err error }

type resetDoneMsg struct{ err error }

type editPrefillMsg struct {
	post api.Post
	err  error
}

type mutationKind int

const (
	mutationCreate mutationKind = iota
	mutationUpdate
	mutationDelete
)

// mutationDoneMsg resolves a create/update/delete call.
type mutationDoneMsg struct {
	kind    mutationKind
	message string
	err     error
}

// flashExpireMsg clears the global flash only when seq still identifies it.
type flashExpireMsg struct{ seq int }

// fieldErrExpireMsg clears one field error; the form ignores stale seqs.
type fieldErrExpireMsg struct {
	formID string
	field  string
	seq    int
}

// navMsg performs a delayed redirect (e.g. "saved, redirecting…"). A newer
// navigation supersedes it via seq.
type navMsg struct {
	seq int
	to  view
}

// flash is the page-level transient notice.
type flash struct {
	text     string
	severity form.Severity
	seq      int
}

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)
