// Package revocation holds the shared revocation-list type consulted by
// both credential schemes' judge operation: an ordered sequence of traced
// G2 tags, read far more often than it is written.
package revocation

import (
	"sync"

	"aaka/pairing"
)

// List is a concurrency-safe, append-mostly revocation list of traced
// credential tags (pm*g2 values recovered by Trace).
type List struct {
	mu   sync.RWMutex
	tags []pairing.G2
}

// New returns an empty revocation list.
func New() *List { return &List{} }

// Add appends a traced tag to the list.
func (l *List) Add(tag pairing.G2) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tags = append(l.tags, tag)
}

// Snapshot returns a copy of the current tags, safe to range over without
// holding the list's lock.
func (l *List) Snapshot() []pairing.G2 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]pairing.G2, len(l.tags))
	copy(out, l.tags)
	return out
}

// Len reports the number of entries currently on the list.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tags)
}
