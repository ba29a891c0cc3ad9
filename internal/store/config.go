package store

import (
	"encoding/json"
	"errors"
	"os"
)

// Config holds the persisted client preferences.
type Config struct {
	// ServerURL is the blog backend base URL.
	ServerURL string `json:"serverUrl,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme forces the appearance ("light", "dark", or "auto").
	Theme string `json:"theme,omitempty"`
}

// LoadConfig reads the config file; a missing file yields an empty config.
func (s Store) LoadConfig() (*Config, error) {
	b, err := os.ReadFile(s.configPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig writes the config atomically (temp file + rename) so a crashed
// writer never leaves a truncated config behind.
func (s Store) SaveConfig(cfg *Config) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, configFileName+".*.tmp", s.configPath(), b, 0o600)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
