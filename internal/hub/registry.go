// internal/hub/registry.go
package hub

import (
	"sort"
	"sync"
)

// Registry maps each online identity to its outbox. A single lock
// guards the map; every membership change and lookup goes through it.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Outbox
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Outbox)}
}

// Insert binds identity to out and returns the outbox it displaced,
// or nil. A second login under the same identity wins the entry.
func (r *Registry) Insert(identity string, out *Outbox) *Outbox {
	r.mu.Lock()
	defer r.mu.Unlock()
	displaced := r.clients[identity]
	r.clients[identity] = out
	return displaced
}

// Remove deletes the identity's entry only while it still points at
// out, so a displaced session cannot evict its replacement. Reports
// whether the entry was removed.
func (r *Registry) Remove(identity string, out *Outbox) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.clients[identity]; ok && cur == out {
		delete(r.clients, identity)
		return true
	}
	return false
}

// Lookup returns the outbox registered for identity.
func (r *Registry) Lookup(identity string) (*Outbox, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out, ok := r.clients[identity]
	return out, ok
}

// Snapshot copies the current membership so fan-out can run without
// holding the lock.
func (r *Registry) Snapshot() map[string]*Outbox {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := make(map[string]*Outbox, len(r.clients))
	for identity, out := range r.clients {
		snap[identity] = out
	}
	return snap
}

// Len returns the number of online identities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Identities returns the online identities in sorted order.
func (r *Registry) Identities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for identity := range r.clients {
		names = append(names, identity)
	}
	sort.Strings(names)
	return names
}
