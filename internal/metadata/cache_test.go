package metadata_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"nostrcord/internal/crypto"
	"nostrcord/internal/domain"
	"nostrcord/internal/metadata"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makePubKey(t *testing.T) domain.PubKey {
	t.Helper()
	pk, err := crypto.PublicKey(crypto.GenerateSecretKey())
	if err != nil {
		t.Fatalf("derive public key: %v", err)
	}
	return pk
}

// countingFetcher returns a fixed profile, or an error, and counts calls.
type countingFetcher struct {
	mu      sync.Mutex
	calls   int
	profile domain.Profile
	err     error
}

func (f *countingFetcher) FetchProfile(_ context.Context, _ domain.PubKey) (domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.profile, f.err
}

func (f *countingFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestCache_FetchesOnceThenServesCached(t *testing.T) {
	fetcher := &countingFetcher{profile: domain.Profile{Name: "alice"}}
	c := metadata.New("", fetcher, quietLogger())
	pk := makePubKey(t)

	for i := 0; i < 3; i++ {
		if got := c.BestName(context.Background(), pk); got != "alice" {
			t.Fatalf("got %q, want alice", got)
		}
	}
	if fetcher.Calls() != 1 {
		t.Fatalf("fetcher called %d times, want 1", fetcher.Calls())
	}
}

func TestCache_FallsBackToShortKeyOnFetchFailure(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("relay timeout")}
	c := metadata.New("", fetcher, quietLogger())
	pk := makePubKey(t)

	got := c.BestName(context.Background(), pk)
	if !strings.HasPrefix(got, "npub1") || !strings.HasSuffix(got, "...") {
		t.Fatalf("got %q, want truncated npub", got)
	}
}

func TestCache_NoFetcherFallsBack(t *testing.T) {
	c := metadata.New("", nil, quietLogger())
	pk := makePubKey(t)

	if got := c.BestName(context.Background(), pk); !strings.HasPrefix(got, "npub1") {
		t.Fatalf("got %q, want truncated npub", got)
	}
}

func TestCache_PersistsAcrossInstances(t *testing.T) {
	path := t.TempDir() + "/metadata_cache.json"
	pk := makePubKey(t)

	first := metadata.New(path, &countingFetcher{profile: domain.Profile{DisplayName: "Bob"}}, quietLogger())
	if got := first.BestName(context.Background(), pk); got != "Bob" {
		t.Fatalf("got %q, want Bob", got)
	}

	// A fresh cache must serve the persisted entry without fetching.
	failing := &countingFetcher{err: errors.New("unreachable")}
	second := metadata.New(path, failing, quietLogger())
	if got := second.BestName(context.Background(), pk); got != "Bob" {
		t.Fatalf("got %q, want Bob from disk", got)
	}
	if failing.Calls() != 0 {
		t.Fatalf("fetcher called %d times, want 0", failing.Calls())
	}
}
