package aka

import (
	"sync"

	"aaka/primitive"
)

// Identity is the structured form of a decrypted SUCI plaintext. The home
// network parses the plaintext into an Identity and looks up a real
// subscriber record rather than comparing the plaintext against a known
// literal.
type Identity struct {
	SUPI string
}

// SubscriberRecord is the per-subscriber long-term state the home network
// holds: the shared secret K and the SQN_HN counter tracked for that
// subscriber. It is intentionally not exported as part of the wire
// protocol; only a HomeNetworkDirectory hands these out, keyed by Identity.
type SubscriberRecord struct {
	SUPI string
	K    []byte
	SQN  *primitive.SequenceNumber
}

// HomeNetworkDirectory looks up subscriber state by the identity recovered
// from a decrypted SUCI. A lookup miss is surfaced by the home network as
// ErrIdentityReject, the same as a decryption failure.
type HomeNetworkDirectory interface {
	Lookup(id Identity) (*SubscriberRecord, bool)
}

// MapDirectory is an in-memory HomeNetworkDirectory, the provided
// implementation for tests and the CLI driver.
type MapDirectory struct {
	mu      sync.RWMutex
	records map[string]*SubscriberRecord
}

// NewMapDirectory returns an empty directory.
func NewMapDirectory() *MapDirectory {
	return &MapDirectory{records: make(map[string]*SubscriberRecord)}
}

// Add registers a subscriber record, keyed by its SUPI.
func (d *MapDirectory) Add(rec *SubscriberRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records[rec.SUPI] = rec
}

// Lookup implements HomeNetworkDirectory.
func (d *MapDirectory) Lookup(id Identity) (*SubscriberRecord, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.records[id.SUPI]
	return rec, ok
}
