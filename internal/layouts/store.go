// Package layouts maintains the registry of named monitor layouts and the
// applier that pushes one to the display subsystem.
package layouts

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/trolleyman/hagias-monitor-service/internal/common/fsutil"
	"github.com/trolleyman/hagias-monitor-service/pkg/types"
)

// Store holds the layouts loaded from a single JSON file. The file is the
// source of truth: Reload replaces the in-memory set, Save writes it back
// pretty-printed. Order in the file is display order.
type Store struct {
	path string

	mu      sync.RWMutex
	layouts []types.Layout
}

// NewStore creates a store for the given layouts file. A leading '~' is
// expanded. The store starts empty; call Reload to read the file.
func NewStore(path string) (*Store, error) {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, fmt.Errorf("layouts path: %w", err)
	}
	return &Store{path: p}, nil
}

// Path returns the resolved layouts file path.
func (s *Store) Path() string { return s.path }

// Reload reads the layouts file. A missing file yields an empty set; that
// is the first-run state, not an error.
func (s *Store) Reload() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			s.layouts = nil
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("read layouts %s: %w", s.path, err)
	}
	var layouts []types.Layout
	if err := json.Unmarshal(b, &layouts); err != nil {
		return fmt.Errorf("parse layouts %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.layouts = layouts
	s.mu.Unlock()
	return nil
}

// Save writes the current set back to the layouts file as pretty JSON.
func (s *Store) Save() error {
	s.mu.RLock()
	layouts := s.layouts
	if layouts == nil {
		layouts = []types.Layout{}
	}
	b, err := json.MarshalIndent(layouts, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode layouts: %w", err)
	}
	if err := fsutil.EnsureParentDir(s.path); err != nil {
		return fmt.Errorf("create layouts dir: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write layouts %s: %w", s.path, err)
	}
	return nil
}

// List returns all layouts in registry order.
func (s *Store) List() []types.Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Layout, len(s.layouts))
	copy(out, s.layouts)
	return out
}

// Visible returns the layouts shown on the dashboard, in registry order.
func (s *Store) Visible() []types.Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Layout, 0, len(s.layouts))
	for _, l := range s.layouts {
		if !l.Hidden {
			out = append(out, l)
		}
	}
	return out
}

// Get returns the layout with the given id.
func (s *Store) Get(id string) (types.Layout, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.layouts {
		if l.ID == id {
			return l, true
		}
	}
	return types.Layout{}, false
}

// Add appends a layout, replacing any existing layout with the same id
// first, so re-storing an id moves it to the end.
func (s *Store) Add(l types.Layout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.layouts[:0]
	for _, cur := range s.layouts {
		if cur.ID != l.ID {
			kept = append(kept, cur)
		}
	}
	s.layouts = append(kept, l)
}

// Remove deletes the layout with the given id, reporting whether it
// existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.layouts {
		if l.ID == id {
			s.layouts = append(s.layouts[:i], s.layouts[i+1:]...)
			return true
		}
	}
	return false
}

// SetHidden flips the hidden flag on a layout, reporting whether it
// existed.
func (s *Store) SetHidden(id string, hidden bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.layouts {
		if s.layouts[i].ID == id {
			s.layouts[i].Hidden = hidden
			return true
		}
	}
	return false
}

// Len reports the number of layouts, hidden included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.layouts)
}
