// Package measure is a lightweight global counter store for the mining and
// verification hot paths. Counters are cheap enough to leave compiled in;
// collection is gated on the XCQA_MEASURE environment variable so the
// default build pays only a boolean check.
package measure

import (
	"fmt"
	"os"
	"sort"
	"sync"
)

// Enabled reports whether counter collection is active for this process.
var Enabled = os.Getenv("XCQA_MEASURE") != ""

// Store is a mutex-guarded map of named counters.
type Store struct {
	mu       sync.Mutex
	counters map[string]uint64
}

// Global is the process-wide counter store.
var Global = &Store{counters: make(map[string]uint64)}

// Add increments the named counter by n. Negative n is ignored.
func (s *Store) Add(key string, n int64) {
	if n < 0 {
		return
	}
	s.mu.Lock()
	s.counters[key] += uint64(n)
	s.mu.Unlock()
}

// SnapshotAndReset returns the current counter map and clears it.
func (s *Store) SnapshotAndReset() map[string]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.counters
	s.counters = make(map[string]uint64)
	return out
}

// Dump prints all counters to stdout in key order and clears them.
func (s *Store) Dump() {
	snap := s.SnapshotAndReset()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-40s %d\n", k, snap[k])
	}
}
