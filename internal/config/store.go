package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

var (
	// ErrConfigRead means the stored preferences could not be used.
	ErrConfigRead = errors.New("config read error")
	// ErrConfigWrite means the preferences could not be persisted.
	ErrConfigWrite = errors.New("config write error")
)

// PathEnv overrides the config file location.
const PathEnv = "CCAT_CONFIG"

const relPath = "ccat/ccat.json"

// DefaultPath returns $CCAT_CONFIG when set, otherwise ccat/ccat.json under
// the XDG config home.
func DefaultPath() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	p, err := xdg.ConfigFile(relPath)
	if err != nil {
		return "", fmt.Errorf("failed to locate config file: %w", err)
	}
	return p, nil
}

// Store handles persistence of Preferences
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file backing the store
func (s *Store) Path() string {
	return s.path
}

// Load reads the preferences from disk. A missing file yields the defaults
// with loaded=false and no error. An unreadable or malformed file also yields
// the defaults, along with an ErrConfigRead the caller may report.
func (s *Store) Load() (prefs Preferences, loaded bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), false, nil
		}
		return Defaults(), false, fmt.Errorf("%w: failed to read %s: %v", ErrConfigRead, s.path, err)
	}

	prefs = Defaults()
	if err := json.Unmarshal(data, &prefs); err != nil {
		return Defaults(), false, fmt.Errorf("%w: failed to parse %s: %v", ErrConfigRead, s.path, err)
	}

	return prefs.Normalize(), true, nil
}

// Save writes the preferences to disk, replacing the previous file atomically.
func (s *Store) Save(prefs Preferences) error {
	data, err := json.MarshalIndent(prefs.Normalize(), "", "    ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal preferences: %v", ErrConfigWrite, err)
	}
	data = append(data, '\n')

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("%w: failed to create config directory: %v", ErrConfigWrite, err)
	}

	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write temp config file: %v", ErrConfigWrite, err)
	}

	if err := os.Rename(tempFile, s.path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("%w: failed to update config file: %v", ErrConfigWrite, err)
	}

	return nil
}
