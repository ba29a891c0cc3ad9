// Package browse implements the paginated post browser shared by the public
// home list, the dashboard list, and any other server-paginated view. The
// three call sites differ only in configuration (scope, per-page count), not
// in logic.
//
// The Browser is UI-agnostic: it owns the query state machine and decides
// which fetches to issue and which responses to apply; callers perform the
// actual network calls and feed results back through Apply.
package browse

import (
	"context"
	"strings"

	"quill-cli/internal/api"
)

// DefaultPerPage is the fixed page size for both the public and the
// dashboard post lists. Not user-adjustable.
const DefaultPerPage = 4

// Status is the browser's render state. Any state may transition back to
// StatusLoading on a new query.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusRendered
	StatusLoadError
)

// Scope selects the list endpoint: the public feed or the caller's own posts.
type Scope int

const (
	ScopePublic Scope = iota
	ScopePrivate
)

// Browser keeps a page number and an optional search string synchronized with
// a server-paginated list endpoint.
//
// Every query change bumps a monotonically increasing sequence number; a
// response is applied only when it answers the most recently issued request.
// Superseded requests are not cancelled, their results are simply discarded.
type Browser struct {
	scope   Scope
	perPage int

	page   int
	search string

	seq    int
	status Status

	result    api.ListResult
	hasResult bool
	errText   string
}

func New(scope Scope, perPage int) *Browser {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return &Browser{scope: scope, perPage: perPage, page: 1}
}

func (b *Browser) Scope() Scope   { return b.scope }
func (b *Browser) Status() Status { return b.status }
func (b *Browser) Seq() int       { return b.seq }
func (b *Browser) Search() string { return b.search }

// Query is the tuple the next fetch should use.
func (b *Browser) Query() api.ListQuery {
	return api.ListQuery{Page: b.page, PerPage: b.perPage, Search: b.search}
}

// Result returns the last rendered page. It survives a later LoadError so the
// prior list stays on screen behind the error indicator.
func (b *Browser) Result() (api.ListResult, bool) {
	return b.result, b.hasResult
}

// ErrorText is the non-blocking error indicator for the LoadError state.
func (b *Browser) ErrorText() string {
	if b.status != StatusLoadError {
		return ""
	}
	return b.errText
}

// Start issues the initial fetch (page 1, no search).
func (b *Browser) Start() (api.ListQuery, int) {
	b.page = 1
	b.search = ""
	return b.begin()
}

// SetPage requests page n. Valid only for 1 <= n <= totalPages of the last
// rendered result; controls for other pages are never offered, so an
// out-of-range n is ignored. The current search term is unchanged.
func (b *Browser) SetPage(n int) (api.ListQuery, int, bool) {
	if !b.hasResult || n < 1 || n > b.result.TotalPages {
		return api.ListQuery{}, 0, false
	}
	b.page = n
	q, seq := b.begin()
	return q, seq, true
}

// SetSearch updates the search term. A new search always starts at page 1 and
// fetches immediately; there is no debounce, so the sequence number is what
// keeps rapid edits from rendering out of order.
func (b *Browser) SetSearch(text string) (api.ListQuery, int) {
	b.search = strings.TrimSpace(text)
	b.page = 1
	return b.begin()
}

// Refresh re-issues the fetch for the current query unchanged. Used after
// mutations so the rendered page always reflects the server.
func (b *Browser) Refresh() (api.ListQuery, int) {
	return b.begin()
}

func (b *Browser) begin() (api.ListQuery, int) {
	b.seq++
	b.status = StatusLoading
	return b.Query(), b.seq
}

// Outcome reports what Apply did with a response.
type Outcome struct {
	// Applied is false for stale responses (a newer request was issued after
	// this one); the caller must discard the result entirely.
	Applied bool

	// Refetch is set when the applied result proved the current page is out of
	// range (e.g. deleting the last item on the last page). The caller must
	// issue Query at Seq; the clamped page replaces the empty out-of-range one.
	Refetch bool
	Query   api.ListQuery
	Seq     int
}

// Apply feeds a fetch response back into the browser. Only the response to
// the most recently issued request is applied; earlier responses arriving
// late are discarded, whatever their content.
func (b *Browser) Apply(seq int, res api.ListResult, err error) Outcome {
	if seq != b.seq {
		return Outcome{}
	}

	if err != nil {
		// Keep the prior rendered list; no destructive clear, no retry.
		b.status = StatusLoadError
		b.errText = err.Error()
		return Outcome{Applied: true}
	}

	// Clamp when the page emptied out from under us (last item on the last
	// page deleted): never render an out-of-range page with a nonzero total.
	if res.TotalPages > 0 && b.page > res.TotalPages {
		b.page = res.TotalPages
		q, next := b.begin()
		return Outcome{Applied: true, Refetch: true, Query: q, Seq: next}
	}

	if res.CurrentPage > 0 {
		b.page = res.CurrentPage
	}
	b.status = StatusRendered
	b.result = res
	b.hasResult = true
	b.errText = ""
	return Outcome{Applied: true}
}

// Fetcher performs one list request. Both the public and the private list
// endpoints satisfy it.
type Fetcher func(context.Context, api.ListQuery) (api.ListResult, error)

// FetchPage is the one-shot variant of the browser used by scriptable
// commands: fetch the requested page, clamping to the last page when the
// request proves out of range instead of returning an empty page.
func FetchPage(ctx context.Context, fetch Fetcher, q api.ListQuery) (api.ListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	q.Search = strings.TrimSpace(q.Search)

	res, err := fetch(ctx, q)
	if err != nil {
		return api.ListResult{}, err
	}
	if res.TotalPages > 0 && q.Page > res.TotalPages {
		q.Page = res.TotalPages
		return fetch(ctx, q)
	}
	return res, nil
}

// ShowEmptyPlaceholder reports whether the view should render the explicit
// "no results" placeholder: only for a confirmed empty page, never while a
// fetch is still in flight.
func (b *Browser) ShowEmptyPlaceholder() bool {
	return b.status == StatusRendered && b.hasResult && len(b.result.Posts) == 0
}
