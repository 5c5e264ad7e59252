package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type FileStore struct {
	path string
}

// NewFileStore persists the session as a single JSON document at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath resolves to the per-user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, "userboard", "session.json"), nil
}

func (st *FileStore) Load() (Session, bool, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Session{}, false, nil
		}
		return Session{}, false, fmt.Errorf("failed to read session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		// A corrupt session file is treated as no session.
		return Session{}, false, nil
	}
	if !s.Authenticated() {
		return Session{}, false, nil
	}
	return s, true, nil
}

func (st *FileStore) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(st.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (st *FileStore) Clear() error {
	if err := os.Remove(st.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
