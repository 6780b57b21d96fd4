package domain

import (
	"strings"
	"time"
)

// PubKey is an x-only secp256k1 public key in 64-character lowercase hex,
// the wire form used by the relay network.
type PubKey string

func (p PubKey) String() string { return string(p) }

// Short returns a truncated form suitable for display and logging.
func (p PubKey) Short() string {
	if len(p) > 8 {
		return string(p[:8])
	}
	return string(p)
}

// Subscriber is one subscribed relay-network identity.
type Subscriber struct {
	PubKey       PubKey    `json:"pubkey"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// ChannelMessage is a message read from the platform channel.
type ChannelMessage struct {
	Author  string
	Content string
}

// Profile is public metadata published by a relay-network identity.
type Profile struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Picture     string `json:"picture,omitempty"`
	NIP05       string `json:"nip05,omitempty"`
	About       string `json:"about,omitempty"`
}

// BestName picks the most presentable name from a profile, or "" when the
// profile carries none.
func (p Profile) BestName() string {
	for _, s := range []string{p.DisplayName, p.Name, p.NIP05} {
		if v := strings.TrimSpace(s); v != "" {
			return v
		}
	}
	return ""
}
