package templates

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/singleflight"

	"transportbilling/logging"
)

// ErrTemplateMissing is a deployment defect: a batch cannot run without it.
var ErrTemplateMissing = errors.New("template file missing")

// Store caches raw template bytes per process and hands out freshly
// parsed working copies, so callers never share mutable document state.
type Store struct {
	dir   string
	mu    sync.RWMutex
	cache map[string][]byte
	group singleflight.Group
}

func NewStore(dir string) *Store {
	return &Store{dir: dir, cache: make(map[string][]byte)}
}

// Bytes returns the cached raw template. The slice is shared and must not be modified.
func (s *Store) Bytes(name string) ([]byte, error) {
	s.mu.RLock()
	b, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return b, nil
	}

	v, err, _ := s.group.Do(name, func() (interface{}, error) {
		s.mu.RLock()
		b, ok := s.cache[name]
		s.mu.RUnlock()
		if ok {
			return b, nil
		}

		path := filepath.Join(s.dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrTemplateMissing, path)
			}
			return nil, fmt.Errorf("read template %s: %w", path, err)
		}

		s.mu.Lock()
		s.cache[name] = raw
		s.mu.Unlock()
		logging.Debugf("templates: cached %s (%d bytes)", name, len(raw))
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Get parses a new working copy of the named template.
func (s *Store) Get(name string) (*excelize.File, error) {
	raw, err := s.Bytes(name)
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return f, nil
}

// Preload loads every named template, failing on the first missing one.
func (s *Store) Preload(names ...string) error {
	for _, name := range names {
		if _, err := s.Bytes(name); err != nil {
			return err
		}
	}
	return nil
}
