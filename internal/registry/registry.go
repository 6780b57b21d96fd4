package registry

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"nostrcord/internal/domain"
)

// Registry is the concurrent-safe set of subscribers. All critical sections
// are short; persistence runs outside the lock.
type Registry struct {
	mu    sync.Mutex
	subs  map[domain.PubKey]domain.Subscriber
	store domain.SubscriberStore // nil disables persistence
	log   *slog.Logger
	now   func() time.Time
}

// Load builds a registry, populating it from the store when one is given.
func Load(store domain.SubscriberStore, log *slog.Logger) (*Registry, error) {
	r := &Registry{
		subs:  make(map[domain.PubKey]domain.Subscriber),
		store: store,
		log:   log,
		now:   time.Now,
	}
	if store == nil {
		return r, nil
	}
	loaded, err := store.Load()
	if err != nil {
		return nil, err
	}
	for _, s := range loaded {
		r.subs[s.PubKey] = s
	}
	log.Info("loaded subscribers", "count", len(loaded))
	return r, nil
}

// Add inserts a subscriber. Returns true when newly added.
func (r *Registry) Add(pk domain.PubKey) bool {
	r.mu.Lock()
	_, exists := r.subs[pk]
	if !exists {
		r.subs[pk] = domain.Subscriber{PubKey: pk, SubscribedAt: r.now()}
	}
	r.mu.Unlock()

	if !exists {
		r.persist()
	}
	return !exists
}

// Remove deletes a subscriber. Returns true when it was present.
func (r *Registry) Remove(pk domain.PubKey) bool {
	r.mu.Lock()
	_, exists := r.subs[pk]
	delete(r.subs, pk)
	r.mu.Unlock()

	if exists {
		r.persist()
	}
	return exists
}

// Contains reports whether pk is subscribed.
func (r *Registry) Contains(pk domain.PubKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.subs[pk]
	return ok
}

// List returns all subscribers ordered by key.
func (r *Registry) List() []domain.Subscriber {
	r.mu.Lock()
	out := make([]domain.Subscriber, 0, len(r.subs))
	for _, s := range r.subs {
		out = append(out, s)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].PubKey < out[j].PubKey })
	return out
}

// Snapshot returns the current subscriber keys for fan-out.
func (r *Registry) Snapshot() []domain.PubKey {
	subs := r.List()
	out := make([]domain.PubKey, len(subs))
	for i, s := range subs {
		out[i] = s.PubKey
	}
	return out
}

// Save writes the current set through the store, if any. Used at shutdown.
func (r *Registry) Save() error {
	if r.store == nil {
		return nil
	}
	return r.store.Save(r.List())
}

// persist saves after a mutation. Failures are logged; the in-memory state
// stays authoritative.
func (r *Registry) persist() {
	if r.store == nil {
		return
	}
	if err := r.store.Save(r.List()); err != nil {
		r.log.Error("saving subscribers failed", "err", err)
	}
}
