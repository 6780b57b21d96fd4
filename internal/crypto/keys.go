package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"

	"nostrcord/internal/domain"
)

var (
	ErrBadSecretKey = errors.New("crypto: malformed secret key")
	ErrBadPublicKey = errors.New("crypto: malformed public key")
)

// ParseSecretKey accepts a secret key as 64 hex characters or in the
// bech32 "nsec" encoding and returns the canonical hex form.
func ParseSecretKey(input string) (string, error) {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "nsec") {
		prefix, value, err := nip19.Decode(input)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrBadSecretKey, err)
		}
		if prefix != "nsec" {
			return "", fmt.Errorf("%w: unexpected prefix %q", ErrBadSecretKey, prefix)
		}
		return value.(string), nil
	}
	if !isHexKey(input) {
		return "", fmt.Errorf("%w: want 64 hex characters or nsec", ErrBadSecretKey)
	}
	return strings.ToLower(input), nil
}

// ParsePubKey accepts a public key as 64 hex characters or in the bech32
// "npub" encoding and returns the canonical hex form.
func ParsePubKey(input string) (domain.PubKey, error) {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "npub") {
		prefix, value, err := nip19.Decode(input)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrBadPublicKey, err)
		}
		if prefix != "npub" {
			return "", fmt.Errorf("%w: unexpected prefix %q", ErrBadPublicKey, prefix)
		}
		return domain.PubKey(value.(string)), nil
	}
	if !isHexKey(input) {
		return "", fmt.Errorf("%w: want 64 hex characters or npub", ErrBadPublicKey)
	}
	return domain.PubKey(strings.ToLower(input)), nil
}

// PublicKey derives the x-only public key for a hex secret key.
func PublicKey(secret string) (domain.PubKey, error) {
	pk, err := nostr.GetPublicKey(secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadSecretKey, err)
	}
	return domain.PubKey(pk), nil
}

// GenerateSecretKey returns a fresh hex secret key.
func GenerateSecretKey() string {
	return nostr.GeneratePrivateKey()
}

// Npub returns the bech32 form of a public key. Falls back to the hex form
// if encoding fails.
func Npub(pk domain.PubKey) string {
	npub, err := nip19.EncodePublicKey(string(pk))
	if err != nil {
		return string(pk)
	}
	return npub
}

// Nsec returns the bech32 form of a hex secret key.
func Nsec(secret string) (string, error) {
	return nip19.EncodePrivateKey(secret)
}

func isHexKey(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
