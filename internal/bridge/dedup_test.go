package bridge_test

import (
	"testing"
	"time"

	"nostrcord/internal/bridge"
)

func TestSeenCache_ExactlyOnce(t *testing.T) {
	c := bridge.NewSeenCache(time.Minute)

	if !c.Insert("ev1") {
		t.Fatal("first sighting should be new")
	}
	if c.Insert("ev1") {
		t.Fatal("second sighting should be a duplicate")
	}
	if !c.Insert("ev2") {
		t.Fatal("distinct id should be new")
	}
	if c.Len() != 2 {
		t.Fatalf("len: got %d, want 2", c.Len())
	}
}

func TestSeenCache_ExpiresOldEntries(t *testing.T) {
	c := bridge.NewSeenCache(20 * time.Millisecond)

	c.Insert("ev1")
	time.Sleep(40 * time.Millisecond)

	if !c.Insert("ev1") {
		t.Fatal("expired id should be treated as new")
	}
	if c.Len() != 1 {
		t.Fatalf("len after pruning: got %d, want 1", c.Len())
	}
}
