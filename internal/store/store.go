package store

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	configFileName = "config.json"
	stateFileName  = "state.sqlite"
)

// Store locates the per-user client state on disk: a JSON config file plus a
// small SQLite database holding session state. Dir is usually ~/.quill but can
// be overridden for fixtures/tests.
type Store struct {
	Dir string
}

// DefaultDir resolves the client state directory.
//
// Priority:
// 1) QUILL_DIR (fixtures/tests)
// 2) ~/.quill
func DefaultDir() (string, error) {
	if d := strings.TrimSpace(os.Getenv("QUILL_DIR")); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".quill"), nil
}

// Open returns a Store rooted at dir, or at DefaultDir when dir is empty.
func Open(dir string) (Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return Store{}, err
		}
		dir = d
	}
	return Store{Dir: dir}, nil
}

// Ensure creates the state directory if missing.
func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) configPath() string {
	return filepath.Join(s.Dir, configFileName)
}

func (s Store) statePath() string {
	return filepath.Join(s.Dir, stateFileName)
}
