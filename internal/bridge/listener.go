package bridge

import (
	"context"
	"errors"

	"github.com/nbd-wtf/go-nostr"

	"nostrcord/internal/envelope"
)

// runEndpoint drives one relay endpoint through its connection state
// machine: dial, serve until a transport error, back off, repeat. Endpoints
// never share backoff state.
func (e *Engine) runEndpoint(ctx context.Context, ep *endpoint) {
	log := e.log.With("relay", ep.url)
	for {
		if ctx.Err() != nil {
			return
		}
		ep.setState(StateConnecting)

		dialCtx, cancel := context.WithTimeout(ctx, e.opts.DialTimeout)
		conn, err := e.dialer.Dial(dialCtx, ep.url)
		cancel()
		if err != nil {
			ep.fail(err)
			delay := ep.backoff.Next()
			log.Warn("relay dial failed", "err", err, "retry_in", delay)
			if !sleepCtx(ctx, delay) {
				return
			}
			continue
		}

		ep.setState(StateConnected)
		ep.backoff.Reset()
		log.Info("relay connected")

		err = e.serveConn(ctx, ep, conn)
		_ = conn.Close()
		ep.fail(err)

		if ctx.Err() != nil {
			return
		}
		delay := ep.backoff.Next()
		log.Warn("relay connection lost", "err", err, "retry_in", delay)
		if !sleepCtx(ctx, delay) {
			return
		}
	}
}

// serveConn subscribes for gift wraps addressed to the bridge and runs the
// read loop, with a publisher goroutine draining the endpoint's outbound
// queue over the same connection.
func (e *Engine) serveConn(ctx context.Context, ep *endpoint, conn RelayConn) error {
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Live events only. A since bound would be wrong here: gift wraps carry
	// timestamps randomized up to two days into the past.
	events, err := conn.Subscribe(connCtx, nostr.Filter{
		Kinds:     []int{envelope.KindGiftWrap},
		Tags:      nostr.TagMap{"p": []string{string(e.codec.PublicKey())}},
		LimitZero: true,
	})
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		e.publishLoop(connCtx, ep, conn)
	}()

	defer func() {
		cancel()
		<-done
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return errors.New("subscription closed by relay")
			}
			e.handleEvent(ctx, ep, ev)
		}
	}
}

// handleEvent deduplicates, unwraps and routes one raw relay event. Decode
// failures drop the event and keep the listener running.
func (e *Engine) handleEvent(ctx context.Context, ep *endpoint, ev *nostr.Event) {
	if ev == nil {
		return
	}
	if !e.seen.Insert(ev.ID) {
		return // already handled via another relay
	}

	rumor, err := e.codec.Unwrap(ev)
	if err != nil {
		e.log.Warn("dropping undecodable event", "relay", ep.url, "id", ev.ID, "err", err)
		return
	}
	if rumor.Sender == e.codec.PublicKey() {
		return // our own traffic echoed back
	}

	select {
	case e.inbound <- inboundRumor{sender: rumor.Sender, content: rumor.Content, relay: ep.url}:
	case <-ctx.Done():
	}
}

// publishLoop drains the endpoint's outbound queue, retrying each publish a
// bounded number of times before dropping it for this endpoint only.
func (e *Engine) publishLoop(ctx context.Context, ep *endpoint, conn RelayConn) {
	retry := Backoff{Base: e.opts.BackoffBase / 2, Cap: e.opts.PublishTimeout}
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ep.outbound:
			retry.Reset()
			if err := e.publish(ctx, conn, ev, &retry); err != nil {
				if ctx.Err() != nil {
					return
				}
				e.log.Error("publish failed, dropping", "relay", ep.url, "id", ev.ID, "err", err)
			}
		}
	}
}

func (e *Engine) publish(ctx context.Context, conn RelayConn, ev nostr.Event, retry *Backoff) error {
	var err error
	for attempt := 0; attempt <= e.opts.PublishRetries; attempt++ {
		if attempt > 0 && !sleepCtx(ctx, retry.Next()) {
			return ctx.Err()
		}
		pctx, cancel := context.WithTimeout(ctx, e.opts.PublishTimeout)
		err = conn.Publish(pctx, ev)
		cancel()
		if err == nil {
			return nil
		}
	}
	return err
}
