package bridge

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"nostrcord/internal/domain"
	"nostrcord/internal/envelope"
	"nostrcord/internal/metadata"
	"nostrcord/internal/registry"
)

// RelayConn is a live connection to one relay endpoint. Subscribe delivers
// raw events matching the filter until the connection drops, signalled by
// the returned channel closing.
type RelayConn interface {
	Subscribe(ctx context.Context, filter nostr.Filter) (<-chan *nostr.Event, error)
	Publish(ctx context.Context, ev nostr.Event) error
	Close() error
}

// RelayDialer opens relay connections.
type RelayDialer interface {
	Dial(ctx context.Context, url string) (RelayConn, error)
}

// Options carries the engine's policy knobs. Zero values get conservative
// defaults.
type Options struct {
	RelayURLs []string

	DedupWindow    time.Duration // retention for cross-relay dedup
	QueueSize      int           // outbound queue bound per endpoint
	DialTimeout    time.Duration
	PublishTimeout time.Duration
	PublishRetries int // extra attempts after the first failure
	BackoffBase    time.Duration
	BackoffCap     time.Duration

	Logger *slog.Logger
}

func (o *Options) withDefaults() {
	if o.DedupWindow <= 0 {
		o.DedupWindow = 10 * time.Minute
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 64
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = 10 * time.Second
	}
	if o.PublishTimeout <= 0 {
		o.PublishTimeout = 7 * time.Second
	}
	if o.PublishRetries < 0 {
		o.PublishRetries = 0
	} else if o.PublishRetries == 0 {
		o.PublishRetries = 2
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = time.Second
	}
	if o.BackoffCap <= 0 {
		o.BackoffCap = 2 * time.Minute
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// endpoint is the per-relay connection record: lifecycle state, last error,
// independent backoff and the bounded outbound queue.
type endpoint struct {
	url      string
	outbound chan nostr.Event
	backoff  Backoff

	mu      sync.Mutex
	state   ConnState
	lastErr error
}

func (e *endpoint) setState(s ConnState) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *endpoint) fail(err error) {
	e.mu.Lock()
	e.state = StateDisconnected
	e.lastErr = err
	e.mu.Unlock()
}

// State returns the endpoint's connection state and last error.
func (e *endpoint) State() (ConnState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, e.lastErr
}

// inboundRumor is a decrypted private message routed to the dispatch loop.
type inboundRumor struct {
	sender  domain.PubKey
	content string
	relay   string
}

// Engine pumps messages between the channel endpoint and subscribed
// identities. It never touches the bridge's secret key directly; all
// cryptography goes through the codec.
type Engine struct {
	codec   *envelope.Codec
	reg     *registry.Registry
	channel domain.ChannelClient
	dialer  RelayDialer
	names   *metadata.Cache // nil: fall back to shortened keys

	opts      Options
	endpoints []*endpoint
	seen      *SeenCache
	inbound   chan inboundRumor
	channelIn chan domain.ChannelMessage
	log       *slog.Logger
}

// New validates options and builds an engine.
func New(codec *envelope.Codec, reg *registry.Registry, channel domain.ChannelClient, dialer RelayDialer, names *metadata.Cache, opts Options) (*Engine, error) {
	if len(opts.RelayURLs) == 0 {
		return nil, errors.New("bridge: no relay endpoints configured")
	}
	opts.withDefaults()

	e := &Engine{
		codec:     codec,
		reg:       reg,
		channel:   channel,
		dialer:    dialer,
		names:     names,
		opts:      opts,
		seen:      NewSeenCache(opts.DedupWindow),
		inbound:   make(chan inboundRumor, opts.QueueSize),
		channelIn: make(chan domain.ChannelMessage, opts.QueueSize),
		log:       opts.Logger.With("component", "bridge"),
	}
	for _, url := range opts.RelayURLs {
		e.endpoints = append(e.endpoints, &endpoint{
			url:      url,
			outbound: make(chan nostr.Event, opts.QueueSize),
			backoff:  Backoff{Base: opts.BackoffBase, Cap: opts.BackoffCap},
		})
	}
	return e, nil
}

// Run starts the relay listeners and the channel endpoint, then dispatches
// until ctx is cancelled. The registry is saved once more before returning.
func (e *Engine) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for _, ep := range e.endpoints {
		wg.Add(1)
		go func(ep *endpoint) {
			defer wg.Done()
			e.runEndpoint(ctx, ep)
		}(ep)
	}

	// The channel endpoint is the bridge's single point of truth; if it
	// stops, the whole engine stops.
	var channelErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		if err := e.channel.Run(ctx, e.channelIn); err != nil && ctx.Err() == nil {
			channelErr = err
			e.log.Error("channel endpoint failed", "err", err)
		}
	}()

	e.dispatch(ctx)

	wg.Wait()
	if err := e.reg.Save(); err != nil {
		e.log.Error("final subscriber save failed", "err", err)
	}
	return channelErr
}

// dispatch is the single loop that routes both directions. Running it on
// one goroutine preserves per-sender ordering on the fan-in path.
func (e *Engine) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-e.channelIn:
			e.fanOut(msg)
		case r := <-e.inbound:
			e.handleRumor(ctx, r)
		}
	}
}

// sleepCtx waits d or until ctx is done. Reports false on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
