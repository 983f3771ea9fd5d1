// Package prefs owns the user's display preferences: the persisted
// UserConfig blob, the background catalog, and per-tab group and search
// state. Preferences live in ~/.config/lightpanel by default.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned by Storage.Get when the key has never been written.
var ErrNotFound = errors.New("prefs: key not found")

// Storage is a client-local key-value store for preference blobs.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

const defaultPrefsDir = "~/.config/lightpanel"

// DefaultDir returns the default preferences directory.
func DefaultDir() string {
	return defaultPrefsDir
}

// FileStorage keeps one <key>.json file per key inside a directory.
type FileStorage struct {
	dir string
}

// NewFileStorage returns storage rooted at dir; empty uses DefaultDir.
func NewFileStorage(dir string) (*FileStorage, error) {
	resolved, err := resolvePath(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve prefs dir: %w", err)
	}
	return &FileStorage{dir: resolved}, nil
}

// Dir returns the resolved storage directory.
func (s *FileStorage) Dir() string { return s.dir }

// Get reads the blob stored under key.
func (s *FileStorage) Get(key string) ([]byte, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open prefs: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read prefs: %w", err)
	}
	return data, nil
}

// Set writes value under key, creating the directory as needed.
func (s *FileStorage) Set(key string, value []byte) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func (s *FileStorage) pathFor(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid prefs key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// MemoryStorage is an in-process Storage, used when no directory is wanted.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStorage) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsDir)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
