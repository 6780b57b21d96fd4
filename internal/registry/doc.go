// Package registry tracks the set of subscribed identities.
//
// The in-memory set is authoritative at runtime. Mutations trigger a
// best-effort save through a SubscriberStore; save failures are logged and
// never roll back the mutation.
package registry
