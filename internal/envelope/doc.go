// Package envelope implements the three-layer encrypted envelope used for
// private messages on the relay network.
//
// # Layers
//
// A message travels as three nested events:
//
//   - Rumor (kind 14): the unsigned plaintext payload, carrying the real
//     sender key and creation time.
//   - Seal (kind 13): the rumor, encrypted to the recipient and signed by
//     the real sender. Its timestamp is randomised.
//   - Gift wrap (kind 1059): the seal, encrypted to the recipient under a
//     one-time ephemeral key pair and published with a randomised timestamp.
//     Relay observers see only the ephemeral key, never the sender's.
//
// # Failure modes
//
// Unwrap distinguishes malformed ciphertext, signature mismatch (the seal's
// signer differing from the rumor's claimed sender), wrong recipient and
// unsupported rumor kinds. All are per-event and non-fatal; callers drop the
// offending event and continue.
//
// The bridge's secret key never leaves this package's boundary.
package envelope
