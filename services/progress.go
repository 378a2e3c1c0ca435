package services

import (
	"sync"
	"time"
)

const progressTTL = 10 * time.Minute

type progressEntry struct {
	percent int
	updated time.Time
}

// ProgressTracker remembers the latest upload percentage per upload id.
// Entries untouched for ten minutes are dropped.
type ProgressTracker struct {
	mu      sync.Mutex
	entries map[string]progressEntry
	now     func() time.Time
}

// ProgressKey scopes an upload id to its owner. An empty upload id yields
// an empty key, which the tracker ignores.
func ProgressKey(userID, uploadID string) string {
	if uploadID == "" {
		return ""
	}
	return userID + "/" + uploadID
}

func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{entries: make(map[string]progressEntry), now: time.Now}
}

func (t *ProgressTracker) Set(uploadID string, percent int) {
	if uploadID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for id, e := range t.entries {
		if now.Sub(e.updated) > progressTTL {
			delete(t.entries, id)
		}
	}
	t.entries[uploadID] = progressEntry{percent: percent, updated: now}
}

func (t *ProgressTracker) Get(uploadID string) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[uploadID]
	if !ok || t.now().Sub(e.updated) > progressTTL {
		return 0, false
	}
	return e.percent, true
}

func (t *ProgressTracker) Delete(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
}
