package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"nostrcord/internal/crypto"
	"nostrcord/internal/domain"
)

// Entries older than this are refetched on next use.
const cacheLifetime = 24 * time.Hour

type entry struct {
	Profile   domain.Profile `json:"profile"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Cache maps identities to display profiles. Lookups hit the fetcher only
// when the cached entry is missing or stale; fetch failures fall back to a
// shortened key so forwarding never blocks on metadata.
type Cache struct {
	mu      sync.Mutex
	entries map[domain.PubKey]entry
	path    string // "" disables persistence
	fetcher domain.ProfileFetcher
	log     *slog.Logger
	now     func() time.Time
}

// New builds a cache, loading the file at path when it exists.
func New(path string, fetcher domain.ProfileFetcher, log *slog.Logger) *Cache {
	c := &Cache{
		entries: make(map[domain.PubKey]entry),
		path:    path,
		fetcher: fetcher,
		log:     log,
		now:     time.Now,
	}
	if path == "" {
		return c
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn("reading metadata cache failed", "path", path, "err", err)
		}
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		log.Warn("parsing metadata cache failed", "path", path, "err", err)
		c.entries = make(map[domain.PubKey]entry)
		return c
	}
	log.Info("loaded metadata cache", "entries", len(c.entries))
	return c
}

// BestName returns the best display name for pk: cached profile name if
// fresh, otherwise a fetched one, otherwise a shortened bech32 key.
func (c *Cache) BestName(ctx context.Context, pk domain.PubKey) string {
	c.mu.Lock()
	e, ok := c.entries[pk]
	c.mu.Unlock()

	if !ok || c.now().Sub(e.UpdatedAt) > cacheLifetime {
		if fetched, err := c.refresh(ctx, pk); err == nil {
			e, ok = fetched, true
		} else if !ok {
			c.log.Warn("profile fetch failed", "pubkey", pk.Short(), "err", err)
		}
	}

	if name := e.Profile.BestName(); ok && name != "" {
		return name
	}
	return shortNpub(pk)
}

func (c *Cache) refresh(ctx context.Context, pk domain.PubKey) (entry, error) {
	if c.fetcher == nil {
		return entry{}, errors.New("no profile fetcher configured")
	}
	profile, err := c.fetcher.FetchProfile(ctx, pk)
	if err != nil {
		return entry{}, err
	}
	e := entry{Profile: profile, UpdatedAt: c.now()}

	c.mu.Lock()
	c.entries[pk] = e
	snapshot, err2 := json.Marshal(c.entries)
	c.mu.Unlock()

	// Write outside the lock.
	if c.path != "" && err2 == nil {
		if err := os.WriteFile(c.path, snapshot, 0o600); err != nil {
			c.log.Error("writing metadata cache failed", "path", c.path, "err", err)
		}
	}
	return e, nil
}

// shortNpub renders a key as a truncated bech32 string for display.
func shortNpub(pk domain.PubKey) string {
	npub := crypto.Npub(pk)
	if len(npub) > 12 {
		return npub[:12] + "..."
	}
	return npub
}
