package bridge

import (
	"context"
	"fmt"

	"github.com/nbd-wtf/go-nostr"

	"nostrcord/internal/command"
	"nostrcord/internal/domain"
)

// fanOut seals one channel message for every current subscriber and queues
// the wraps on all endpoints. One subscriber's failure never blocks the
// others: each gets its own wrap, each endpoint its own queue.
func (e *Engine) fanOut(msg domain.ChannelMessage) {
	subs := e.reg.Snapshot()
	if len(subs) == 0 {
		return
	}
	text := fmt.Sprintf("[Discord] %s: %s", msg.Author, msg.Content)

	for _, pk := range subs {
		ev, err := e.codec.Wrap(text, pk)
		if err != nil {
			e.log.Warn("sealing for subscriber failed", "pubkey", pk.Short(), "err", err)
			continue
		}
		e.broadcast(*ev)
	}
}

// broadcast queues an event on every endpoint. A full queue drops the event
// for that endpoint with a warning rather than growing without bound.
func (e *Engine) broadcast(ev nostr.Event) {
	for _, ep := range e.endpoints {
		select {
		case ep.outbound <- ev:
		default:
			e.log.Warn("outbound queue full, dropping event", "relay", ep.url, "id", ev.ID)
		}
	}
}

// handleRumor routes one decrypted inbound message: commands mutate the
// registry and are answered over the direct encrypted channel; everything
// else is forwarded to the platform channel iff the sender is subscribed.
func (e *Engine) handleRumor(ctx context.Context, r inboundRumor) {
	switch command.Interpret(r.content) {
	case command.Subscribe:
		if e.reg.Add(r.sender) {
			e.log.Info("new subscriber", "pubkey", r.sender.Short())
			e.reply(r.sender, command.SubscribedReply)
		} else {
			e.reply(r.sender, command.AlreadySubscribedReply)
		}

	case command.Unsubscribe:
		if e.reg.Remove(r.sender) {
			e.log.Info("unsubscribed", "pubkey", r.sender.Short())
			e.reply(r.sender, command.UnsubscribedReply)
		} else {
			e.reply(r.sender, command.NotSubscribedReply)
		}

	case command.Help:
		e.reply(r.sender, command.HelpReply)

	case command.None:
		if !e.reg.Contains(r.sender) {
			e.log.Info("ignoring message from non-subscriber", "pubkey", r.sender.Short())
			e.reply(r.sender, command.NotForwardedReply)
			return
		}
		name := r.sender.Short()
		if e.names != nil {
			name = e.names.BestName(ctx, r.sender)
		}
		line := fmt.Sprintf("%s: %s", name, r.content)
		if err := e.channel.Send(ctx, line); err != nil {
			e.log.Error("forwarding to channel failed", "pubkey", r.sender.Short(), "err", err)
		}
	}
}

// reply seals text for a single identity and queues it on all endpoints.
// Replies go only over the direct encrypted channel, never to the platform
// channel.
func (e *Engine) reply(pk domain.PubKey, text string) {
	ev, err := e.codec.Wrap(text, pk)
	if err != nil {
		e.log.Warn("sealing reply failed", "pubkey", pk.Short(), "err", err)
		return
	}
	e.broadcast(*ev)
}
