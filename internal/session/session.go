// Package session owns the one piece of cross-component mutable state in the
// client: the bearer token. Everything else consults it through the Manager
// rather than reaching into storage directly, which keeps the auth-gate rule
// independently testable.
package session

import (
	"context"
	"errors"
	"strings"

	"quill-cli/internal/api"
	"quill-cli/internal/store"
)

// Manager is the single owner of the persisted session token.
//
// The token is opaque: the client never inspects or decodes it. Its presence
// is the sole gating signal for private views and requests.
type Manager struct {
	store store.Store
}

func NewManager(s store.Store) *Manager {
	return &Manager{store: s}
}

// Token reads the persisted token. Pure read: no side effects.
func (m *Manager) Token(ctx context.Context) (string, bool) {
	v, ok, err := m.store.GetState(ctx, store.TokenKey)
	if err != nil || !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// SetToken persists a freshly issued token, overwriting any prior value.
// Called exactly once per login, immediately after a successful response.
func (m *Manager) SetToken(ctx context.Context, token string) error {
	return m.store.SetState(ctx, store.TokenKey, token)
}

// Clear destroys the session. Called on explicit logout and whenever a private
// request comes back with an auth failure. Clearing an absent token is a no-op,
// so concurrent failure paths cannot double-clear.
func (m *Manager) Clear(ctx context.Context) error {
	return m.store.DeleteState(ctx, store.TokenKey)
}

// HandleAuthFailure applies the global auth-failure policy: if err signals an
// authentication failure from any private endpoint, the token is cleared and
// the caller must redirect to the login view. Reports whether it did so, and
// any store error from the clear: a failed clear leaves a stale token behind,
// so callers must not silently swallow it.
//
// This is a global, not per-call, policy: every private call site funnels its
// error through here so the behavior cannot drift between views.
func (m *Manager) HandleAuthFailure(ctx context.Context, err error) (bool, error) {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false, nil
	}
	return true, m.Clear(ctx)
}
