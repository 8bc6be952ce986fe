// Package supersede drops the results of work that a newer request for the same key has replaced.
package supersede

import (
	"context"
	"sync"
)

type entry struct {
	gen    uint64
	cancel context.CancelFunc
}

// Tracker hands out generations per key. Beginning a new generation cancels the previous one.
// Generations come from one counter shared by all keys, so a dropped key never reissues an old one.
type Tracker struct {
	mu      sync.Mutex
	last    uint64
	entries map[string]entry
}

func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]entry)}
}

// Begin starts a new generation for key and cancels the context of the previous one.
// The returned cancel func must be called once the work is done; it drops the key
// when no newer generation has started.
func (t *Tracker) Begin(ctx context.Context, key string) (context.Context, uint64, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	prev, ok := t.entries[key]
	t.last++
	gen := t.last
	t.entries[key] = entry{gen: gen, cancel: cancel}
	t.mu.Unlock()

	if ok {
		prev.cancel()
	}

	return ctx, gen, func() {
		cancel()
		t.mu.Lock()
		if cur, ok := t.entries[key]; ok && cur.gen == gen {
			delete(t.entries, key)
		}
		t.mu.Unlock()
	}
}

// Current reports whether gen is still the running generation for key
func (t *Tracker) Current(key string, gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur, ok := t.entries[key]
	return ok && cur.gen == gen
}
