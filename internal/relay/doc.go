// Package relay implements the bridge's relay-endpoint contracts with
// go-nostr: websocket connections for the engine's listeners and a shared
// pool for one-off profile queries.
//
// The engine never sees raw sockets; it consumes decoded events from
// Subscribe and hands events to Publish. All operations accept a context
// for cancellation and deadlines.
package relay
