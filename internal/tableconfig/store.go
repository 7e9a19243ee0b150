package tableconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"

	"github.com/accessolutions/tablehandler/internal/fsatomic"
)

// ErrNotFound reports that no config is persisted under the requested key.
var ErrNotFound = errors.New("table config not found")

// record is one entry of the persisted catalog. The file is an ordered list
// of records.
type record struct {
	Key    Key     `json:"key"`
	Config *Values `json:"config"`
}

// Store owns the persisted catalog of table configs. It hands out at most
// one live TableConfig per key, loads the catalog in the background at
// startup, and serializes every load-mutate-save sequence under one lock.
type Store struct {
	mu      sync.Mutex
	path    string
	lock    *flock.Flock
	log     *log.Logger
	live    map[string]*TableConfig
	records []record
	ready   chan struct{}
	loadErr error
	watch   *watcher
}

// DefaultPath returns the per-user catalog location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(base, "tablenav", "tables.json"), nil
}

// NewStore opens (or prepares) the catalog at path and starts populating it
// in the background. Callers of Catalog and Get block until that first load
// finishes. An empty path selects DefaultPath.
func NewStore(path string, logger *log.Logger) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	s := &Store{
		path:  path,
		lock:  flock.New(path + ".lock"),
		log:   logger,
		live:  map[string]*TableConfig{},
		ready: make(chan struct{}),
	}

	go func() {
		defer close(s.ready)
		records, err := s.loadRecords()
		s.mu.Lock()
		s.records, s.loadErr = records, err
		s.mu.Unlock()
		if err != nil {
			s.log.Error("load table config catalog", "path", path, "err", err)
		}
	}()

	w, err := newWatcher(s)
	if err != nil {
		s.log.Warn("watch table config catalog", "err", err)
	} else {
		s.watch = w
	}

	return s, nil
}

// Path returns the catalog file location.
func (s *Store) Path() string { return s.path }

// Close stops the file watcher. The catalog itself needs no teardown.
func (s *Store) Close() error {
	if s.watch != nil {
		return s.watch.close()
	}
	return nil
}

// waitLoaded blocks until the background load finished and returns its
// outcome. A malformed catalog is fatal for every subsequent operation
// rather than silently dropping customization.
func (s *Store) waitLoaded() error {
	<-s.ready
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Get returns the live config for key, loading it from the catalog or, when
// createIfMissing is set, creating an empty one chained to defaults.
// Concurrent callers with the same key receive the identical instance.
func (s *Store) Get(key Key, createIfMissing bool) (*TableConfig, error) {
	if key.IsZero() {
		return nil, errors.New("get table config: empty key")
	}
	if err := s.waitLoaded(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	canon := key.String()
	if cfg, ok := s.live[canon]; ok {
		return cfg, nil
	}
	var leaf *Values
	if i := s.indexOf(key); i >= 0 {
		leaf = s.records[i].Config
	} else if createIfMissing {
		leaf = &Values{}
	} else {
		return nil, fmt.Errorf("table config %s: %w", canon, ErrNotFound)
	}
	cfg := &TableConfig{key: key, store: s, layers: []*Values{leaf}}
	s.live[canon] = cfg
	return cfg, nil
}

// Remove deletes the persisted config for key. It fails with ErrNotFound
// when the key was never persisted.
func (s *Store) Remove(key Key) error {
	if err := s.waitLoaded(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(key)
	if i < 0 {
		return fmt.Errorf("remove table config %s: %w", key.String(), ErrNotFound)
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	delete(s.live, key.String())
	return s.saveLocked()
}

// Catalog returns the keys of every persisted config, in file order. With
// refresh it re-reads the file first; otherwise it serves the loaded state,
// blocking on the initial background load if needed.
func (s *Store) Catalog(refresh bool) ([]Key, error) {
	if err := s.waitLoaded(); err != nil {
		return nil, err
	}
	if refresh {
		if err := s.reload(); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]Key, len(s.records))
	for i, rec := range s.records {
		keys[i] = rec.Key
	}
	return keys, nil
}

// apply runs a leaf mutation for a live config and persists the catalog, all
// under the store lock.
func (s *Store) apply(cfg *TableConfig, fn func(v *Values)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(cfg.leaf())
	if i := s.indexOf(cfg.key); i >= 0 {
		s.records[i].Config = cfg.leaf()
	} else {
		s.records = append(s.records, record{Key: cfg.key, Config: cfg.leaf()})
	}
	return s.saveLocked()
}

// reload re-reads the catalog from disk, keeping live configs untouched:
// their leaves stay authoritative for their keys.
func (s *Store) reload() error {
	records, err := s.loadRecords()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range records {
		if cfg, ok := s.live[records[i].Key.String()]; ok {
			records[i].Config = cfg.leaf()
		}
	}
	s.records = records
	return nil
}

func (s *Store) indexOf(key Key) int {
	canon := key.String()
	for i, rec := range s.records {
		if rec.Key.String() == canon {
			return i
		}
	}
	return -1
}

func (s *Store) loadRecords() ([]record, error) {
	if err := s.lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock catalog: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var records []record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return records, nil
}

// saveLocked writes the catalog atomically. Callers hold s.mu.
func (s *Store) saveLocked() error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock catalog: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	b, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	b = append(b, '\n')
	if err := fsatomic.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("atomic write catalog: %w", err)
	}
	return nil
}
