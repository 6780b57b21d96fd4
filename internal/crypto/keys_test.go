package crypto_test

import (
	"errors"
	"strings"
	"testing"

	"nostrcord/internal/crypto"
)

func TestParseSecretKey_HexAndNsec(t *testing.T) {
	secret := crypto.GenerateSecretKey()

	got, err := crypto.ParseSecretKey(secret)
	if err != nil {
		t.Fatalf("parse hex: %v", err)
	}
	if got != secret {
		t.Fatalf("hex round trip: got %q, want %q", got, secret)
	}

	nsec, err := crypto.Nsec(secret)
	if err != nil {
		t.Fatalf("encode nsec: %v", err)
	}
	got, err = crypto.ParseSecretKey(" " + nsec + "\n")
	if err != nil {
		t.Fatalf("parse nsec: %v", err)
	}
	if got != secret {
		t.Fatalf("nsec round trip: got %q, want %q", got, secret)
	}
}

func TestParseSecretKey_Malformed(t *testing.T) {
	for _, input := range []string{"", "abc", strings.Repeat("z", 64), "npub1invalid"} {
		if _, err := crypto.ParseSecretKey(input); !errors.Is(err, crypto.ErrBadSecretKey) {
			t.Fatalf("input %q: got %v, want ErrBadSecretKey", input, err)
		}
	}
}

func TestParsePubKey_HexAndNpub(t *testing.T) {
	pk, err := crypto.PublicKey(crypto.GenerateSecretKey())
	if err != nil {
		t.Fatalf("derive public key: %v", err)
	}

	got, err := crypto.ParsePubKey(strings.ToUpper(string(pk)))
	if err != nil {
		t.Fatalf("parse hex: %v", err)
	}
	if got != pk {
		t.Fatalf("hex round trip: got %q, want %q", got, pk)
	}

	got, err = crypto.ParsePubKey(crypto.Npub(pk))
	if err != nil {
		t.Fatalf("parse npub: %v", err)
	}
	if got != pk {
		t.Fatalf("npub round trip: got %q, want %q", got, pk)
	}
}

func TestParsePubKey_Malformed(t *testing.T) {
	for _, input := range []string{"", "nsec1abc", strings.Repeat("g", 64)} {
		if _, err := crypto.ParsePubKey(input); !errors.Is(err, crypto.ErrBadPublicKey) {
			t.Fatalf("input %q: got %v, want ErrBadPublicKey", input, err)
		}
	}
}
