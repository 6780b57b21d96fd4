// Package crypto exposes the primitives used by the bridge.
//
// Contents
//
//   - Secret key parsing and public key derivation for the bridge identity
//     (ParseSecretKey, PublicKey, GenerateSecretKey)
//   - Public key parsing in both accepted encodings (ParsePubKey, Npub)
//   - The versioned payload encryption used between two identities:
//     a conversation key from secp256k1 ECDH (ConversationKey) and an
//     authenticated ChaCha20 + HMAC-SHA256 construction over padded
//     plaintext (Encrypt, Decrypt)
//
// # Notes
//
// Conversation and message keys are fixed-size arrays to avoid accidental
// reallocations. Callers should treat them as sensitive and wipe them with
// memzero when practical to reduce lifetime in memory.
package crypto
