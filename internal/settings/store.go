// Package settings persists the user's light preferences and keeps them in
// step with the live light state.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// Keys stored in the settings file.
const (
	KeyBorderColor    = "borderColor"
	KeyBorderWidth    = "borderWidth"
	KeyCornerRadius   = "cornerRadius"
	KeyUseTemperature = "useTemperature"
	KeyColorTemp      = "colorTemp"
)

// EnvSettingsPath overrides the default settings file location.
const EnvSettingsPath = "TAHOEGLOW_SETTINGS"

// Store is a typed key/value store. Reads fall back to def when the key is
// missing or holds a value of another type.
type Store interface {
	String(key, def string) string
	Float(key string, def float64) float64
	Bool(key string, def bool) bool
	Set(key string, value interface{}) error
}

// DefaultPath returns $TAHOEGLOW_SETTINGS, or settings.toml under the user
// config directory.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvSettingsPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "tahoeglow", "settings.toml"), nil
}

// FileStore keeps settings in a TOML file. Every Set rewrites the file
// through a temporary file and a rename, so readers never see a partial
// document.
type FileStore struct {
	path string

	mu     sync.RWMutex
	values map[string]interface{}
}

// OpenFileStore loads path. A missing file is an empty store.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, values: map[string]interface{}{}}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Path() string { return s.path }

// Load replaces the in-memory values with the file's contents.
func (s *FileStore) Load() error {
	values := map[string]interface{}{}
	if _, err := toml.DecodeFile(s.path, &values); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read settings %s: %w", s.path, err)
		}
	}
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

func (s *FileStore) String(key, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key].(string); ok {
		return v
	}
	return def
}

func (s *FileStore) Float(key string, def float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch v := s.values[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return def
}

func (s *FileStore) Bool(key string, def bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key].(bool); ok {
		return v
	}
	return def
}

// Set stores value and writes the file. Writing a value equal to the
// stored one does not touch the file.
func (s *FileStore) Set(key string, value interface{}) error {
	switch v := value.(type) {
	case string, bool, float64:
	case int:
		value = float64(v)
	case float32:
		value = float64(v)
	default:
		return fmt.Errorf("settings: unsupported value type %T for %s", value, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.values[key]; ok && old == value {
		return nil
	}
	next := make(map[string]interface{}, len(s.values)+1)
	for k, v := range s.values {
		next[k] = v
	}
	next[key] = value
	if err := s.write(next); err != nil {
		return err
	}
	s.values = next
	return nil
}

func (s *FileStore) write(values map[string]interface{}) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(values); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".settings-*.toml")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp settings: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// MemoryStore is a Store without persistence.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]interface{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]interface{}{}}
}

func (m *MemoryStore) String(key, def string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return def
}

func (m *MemoryStore) Float(key string, def float64) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key].(float64); ok {
		return v
	}
	return def
}

func (m *MemoryStore) Bool(key string, def bool) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return def
}

func (m *MemoryStore) Set(key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
