// Package command classifies decrypted plaintext into bridge commands.
//
// Recognition is exact-match and case-sensitive, so all recognised commands
// are enumerable and testable in isolation; anything else is None and is a
// candidate for forwarding instead.
package command
