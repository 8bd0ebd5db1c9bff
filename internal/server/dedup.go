package server

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
	"time"
)

// DedupStore remembers recently processed uploads by content hash so a user
// resubmitting the same photo (double taps, retries on slow networks) does
// not trigger duplicate OCR and vendor calls. Entries expire after a TTL.
type DedupStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

// NewDedupStore creates a store with the given entry lifetime.
func NewDedupStore(ttl time.Duration) *DedupStore {
	return &DedupStore{
		ttl:  ttl,
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

// Hash returns the content hash used as the dedup key.
func Hash(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// Seen reports whether the hash was recorded within the TTL, and records it
// either way. Expired entries are pruned on access.
func (d *DedupStore) Seen(hash string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for key, at := range d.seen {
		if now.Sub(at) > d.ttl {
			delete(d.seen, key)
		}
	}

	if at, ok := d.seen[hash]; ok && now.Sub(at) <= d.ttl {
		return true
	}
	d.seen[hash] = now
	return false
}

// Len returns the number of live entries.
func (d *DedupStore) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
