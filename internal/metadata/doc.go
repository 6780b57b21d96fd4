// Package metadata caches public profile metadata for relay-network
// identities, backed by an optional JSON file. Stale entries are refreshed
// through a ProfileFetcher.
package metadata
