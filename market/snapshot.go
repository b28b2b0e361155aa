package market

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Symbol identifies a traded asset. Symbols are case-sensitive.
type Symbol string

// Snapshot is the latest observed price and volume for a symbol.
type Snapshot struct {
	Symbol     Symbol          `json:"symbol"`
	Price      decimal.Decimal `json:"price"`
	Volume     decimal.Decimal `json:"volume"`
	ObservedAt time.Time       `json:"timestamp"`
}

// SnapshotStore keeps one Snapshot per symbol; each Set replaces the last.
type SnapshotStore struct {
	mu    sync.RWMutex
	snaps map[Symbol]Snapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snaps: make(map[Symbol]Snapshot)}
}

func (s *SnapshotStore) Set(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[snap.Symbol] = snap
}

// Get reports false when no tick has been seen for sym yet.
func (s *SnapshotStore) Get(sym Symbol) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[sym]
	return snap, ok
}

// Symbols returns every symbol with a snapshot, sorted.
func (s *SnapshotStore) Symbols() []Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Symbol, 0, len(s.snaps))
	for sym := range s.snaps {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snaps)
}
