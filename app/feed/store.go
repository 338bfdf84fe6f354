package feed

import (
	"sync"
	"time"
)

// Snapshot is the output of the latest build of a shop's feed. Empty is set
// when the build found nothing to emit.
type Snapshot struct {
	RSS         string
	CSV         string
	Items       int
	Failures    int
	SavedImages int
	Empty       bool
	BuiltAt     time.Time
	NextBuildAt time.Time
}

// Store keeps the latest snapshot per shop in memory. Nothing survives a
// restart; feeds are rebuilt on startup.
type Store struct {
	snapshots map[string]Snapshot
	mu        sync.RWMutex
}

func NewStore() *Store {
	return &Store{snapshots: make(map[string]Snapshot)}
}

func (s *Store) Put(shopName string, snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[shopName] = snapshot
}

func (s *Store) Get(shopName string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[shopName]
	return snapshot, ok
}

func (s *Store) Delete(shopName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, shopName)
}

// DueForBuild reports whether the shop has no snapshot or its next build
// time has passed.
func (s *Store) DueForBuild(shopName string, now time.Time) bool {
	snapshot, ok := s.Get(shopName)
	if !ok {
		return true
	}
	return !snapshot.NextBuildAt.After(now)
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}
