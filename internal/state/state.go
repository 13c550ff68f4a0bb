package state

import (
	"sync"

	"github.com/fluentvoice/modelcache/internal/catalog"
)

// Active describes the currently installed artifact.
type Active struct {
	Path string
	Size catalog.Size
}

// Store holds which artifact, if any, is installed and usable.
//
// The path/size pair always changes as a unit under one lock; guarding the
// fields separately would let a concurrent probe and download observe a path
// belonging to one size paired with another. Only in-memory assignment
// happens under the lock, never I/O.
type Store struct {
	mu      sync.Mutex
	active  Active
	present bool
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Current returns a consistent snapshot of the installed artifact.
// The second return is false when no artifact is installed.
func (s *Store) Current() (Active, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.present
}

// Set records path and size together as the installed artifact.
func (s *Store) Set(path string, size catalog.Size) {
	s.mu.Lock()
	s.active = Active{Path: path, Size: size}
	s.present = true
	s.mu.Unlock()
}

// Clear removes the installed-artifact record.
func (s *Store) Clear() {
	s.mu.Lock()
	s.active = Active{}
	s.present = false
	s.mu.Unlock()
}
