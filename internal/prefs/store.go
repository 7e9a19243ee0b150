package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"

	"github.com/accessolutions/tablehandler/internal/fsatomic"
)

// Store provides locked read/write access to prefs.toml.
type Store struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

// DefaultPath returns the per-user preferences location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(base, "tablenav", "prefs.toml"), nil
}

// NewStore opens the preferences at path. An empty path selects
// DefaultPath.
func NewStore(pathOverride string) (*Store, error) {
	path := pathOverride
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the preferences file location.
func (s *Store) Path() string { return s.path }

// Load reads the current preferences, defaults when the file is missing.
func (s *Store) Load() (Prefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return Prefs{}, fmt.Errorf("lock prefs: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	return s.loadUnlocked()
}

// Save writes the preferences atomically.
func (s *Store) Save(p Prefs) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock prefs: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	return s.saveUnlocked(p)
}

// Update applies fn to the current preferences and writes them back.
func (s *Store) Update(fn func(*Prefs) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock prefs: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	p, err := s.loadUnlocked()
	if err != nil {
		return err
	}
	if err := fn(&p); err != nil {
		return err
	}
	return s.saveUnlocked(p)
}

func (s *Store) loadUnlocked() (Prefs, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Prefs{}, fmt.Errorf("read prefs: %w", err)
	}

	p := Default()
	if err := toml.Unmarshal(b, &p); err != nil {
		return Prefs{}, fmt.Errorf("parse prefs: %w", err)
	}
	return p, nil
}

func (s *Store) saveUnlocked(p Prefs) error {
	b, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := fsatomic.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("atomic write prefs: %w", err)
	}
	return nil
}
