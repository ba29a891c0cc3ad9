package session

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"quill-cli/internal/api"
	"quill-cli/internal/store"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(store.Store{Dir: t.TempDir()})
}

func TestManager_TokenLifecycle(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	ctx := context.Background()

	if _, ok := m.Token(ctx); ok {
		t.Fatalf("token present before login")
	}

	if err := m.SetToken(ctx, "jwt-abc"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	tok, ok := m.Token(ctx)
	if !ok || tok != "jwt-abc" {
		t.Fatalf("expected jwt-abc; got %q ok=%v", tok, ok)
	}

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := m.Token(ctx); ok {
		t.Fatalf("token survived Clear")
	}

	// Clearing an already-absent token is a no-op.
	if err := m.Clear(ctx); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestManager_HandleAuthFailure(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	ctx := context.Background()
	if err := m.SetToken(ctx, "jwt-abc"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	// An application-level rejection leaves the session intact.
	appErr := &api.APIError{Status: http.StatusOK, Message: "not your post"}
	if redirect, err := m.HandleAuthFailure(ctx, appErr); redirect || err != nil {
		t.Fatalf("application error treated as auth failure: redirect=%v err=%v", redirect, err)
	}
	if _, ok := m.Token(ctx); !ok {
		t.Fatalf("token cleared by a non-auth error")
	}

	if redirect, err := m.HandleAuthFailure(ctx, errors.New("connection refused")); redirect || err != nil {
		t.Fatalf("transport error treated as auth failure: redirect=%v err=%v", redirect, err)
	}

	// A 401 clears the session.
	authErr := &api.APIError{Status: http.StatusUnauthorized, Message: "token expired"}
	redirect, err := m.HandleAuthFailure(ctx, authErr)
	if !redirect {
		t.Fatalf("401 not treated as auth failure")
	}
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, ok := m.Token(ctx); ok {
		t.Fatalf("token survived auth failure")
	}

	// Already cleared: policy still reports the redirect, clearing stays a no-op.
	if redirect, err := m.HandleAuthFailure(ctx, authErr); !redirect || err != nil {
		t.Fatalf("second 401: redirect=%v err=%v", redirect, err)
	}
}

func TestManager_HandleAuthFailureSurfacesClearError(t *testing.T) {
	t.Parallel()

	// A state dir nested under a regular file cannot be created, so the clear
	// fails. The policy must still report the redirect and hand the store
	// error back instead of swallowing it.
	blocked := filepath.Join(t.TempDir(), "blocked")
	if err := os.WriteFile(blocked, []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m := NewManager(store.Store{Dir: filepath.Join(blocked, "state")})
	ctx := context.Background()

	authErr := &api.APIError{Status: http.StatusUnauthorized, Message: "token expired"}
	redirect, err := m.HandleAuthFailure(ctx, authErr)
	if !redirect {
		t.Fatalf("401 not treated as auth failure")
	}
	if err == nil {
		t.Fatalf("clear error swallowed")
	}
}
