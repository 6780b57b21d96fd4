// Package bridge runs the relay engine: per-endpoint listeners with
// cross-relay deduplication, the bidirectional message pump between the
// platform channel and subscribed identities, and the per-endpoint
// reconnect state machine.
//
// Concurrency: one goroutine per relay endpoint (reader plus a publisher
// draining that endpoint's bounded outbound queue), one for the channel
// endpoint, and a single dispatch loop that owns routing decisions. The
// subscriber registry and the dedup cache are the only shared mutable
// state. Everything stops on context cancellation; the registry is saved a
// final time before Run returns.
package bridge
