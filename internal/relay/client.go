package relay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nbd-wtf/go-nostr"

	"nostrcord/internal/bridge"
)

// Dialer opens websocket connections to relay endpoints.
type Dialer struct {
	log *slog.Logger
}

var _ bridge.RelayDialer = (*Dialer)(nil)

func NewDialer(log *slog.Logger) *Dialer {
	return &Dialer{log: log}
}

func (d *Dialer) Dial(ctx context.Context, url string) (bridge.RelayConn, error) {
	rl, err := nostr.RelayConnect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}
	return &conn{rl: rl}, nil
}

// conn wraps one live relay connection.
type conn struct {
	rl *nostr.Relay
}

// Subscribe opens a filtered subscription and returns its event stream. The
// stream closes when the subscription or connection ends.
func (c *conn) Subscribe(ctx context.Context, filter nostr.Filter) (<-chan *nostr.Event, error) {
	sub, err := c.rl.Subscribe(ctx, nostr.Filters{filter})
	if err != nil {
		return nil, fmt.Errorf("subscribing on %s: %w", c.rl.URL, err)
	}
	return sub.Events, nil
}

func (c *conn) Publish(ctx context.Context, ev nostr.Event) error {
	return c.rl.Publish(ctx, ev)
}

func (c *conn) Close() error {
	return c.rl.Close()
}
