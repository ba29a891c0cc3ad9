package store

import (
	"context"
	"testing"
)

func TestDefaultDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QUILL_DIR", dir)

	got, err := DefaultDir()
	if err != nil {
		t.Fatalf("DefaultDir: %v", err)
	}
	if got != dir {
		t.Fatalf("expected %q; got %q", dir, got)
	}
}

func TestOpen_ExplicitDirWins(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QUILL_DIR", "/somewhere/else")

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Dir != dir {
		t.Fatalf("expected %q; got %q", dir, s.Dir)
	}
}

func TestConfig_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}

	// Missing file yields an empty config, not an error.
	cfg, err := s.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig on empty dir: %v", err)
	}
	if cfg.ServerURL != "" || cfg.TUI != nil {
		t.Fatalf("expected empty config; got %+v", cfg)
	}

	cfg.ServerURL = "http://127.0.0.1:5000"
	cfg.TUI = &TUIConfig{Theme: "dark"}
	if err := s.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := s.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.ServerURL != "http://127.0.0.1:5000" {
		t.Fatalf("unexpected server url %q", got.ServerURL)
	}
	if got.TUI == nil || got.TUI.Theme != "dark" {
		t.Fatalf("unexpected tui config %+v", got.TUI)
	}
}

func TestState_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	if _, ok, err := s.GetState(ctx, TokenKey); err != nil || ok {
		t.Fatalf("expected missing key; ok=%v err=%v", ok, err)
	}

	if err := s.SetState(ctx, TokenKey, "tok-1"); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if v, ok, err := s.GetState(ctx, TokenKey); err != nil || !ok || v != "tok-1" {
		t.Fatalf("expected tok-1; got %q ok=%v err=%v", v, ok, err)
	}

	// Overwrite.
	if err := s.SetState(ctx, TokenKey, "tok-2"); err != nil {
		t.Fatalf("SetState overwrite: %v", err)
	}
	if v, _, _ := s.GetState(ctx, TokenKey); v != "tok-2" {
		t.Fatalf("expected tok-2; got %q", v)
	}

	if err := s.DeleteState(ctx, TokenKey); err != nil {
		t.Fatalf("DeleteState: %v", err)
	}
	if _, ok, _ := s.GetState(ctx, TokenKey); ok {
		t.Fatalf("key survived delete")
	}

	// Deleting an absent key is a no-op.
	if err := s.DeleteState(ctx, TokenKey); err != nil {
		t.Fatalf("DeleteState on absent key: %v", err)
	}
}
