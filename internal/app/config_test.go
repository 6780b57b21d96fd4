package app_test

import (
	"testing"

	"nostrcord/internal/app"
	"nostrcord/internal/crypto"
)

func setComplete(t *testing.T) string {
	t.Helper()
	secret := crypto.GenerateSecretKey()
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DISCORD_CHANNEL_ID", "12345")
	t.Setenv("NOSTR_PRIVATE_KEY", secret)
	t.Setenv("NOSTR_RELAYS", "wss://a.example, wss://b.example ,")
	t.Setenv("SUBSCRIBERS_FILE", "/var/lib/nostrcord/subscribers.txt")
	t.Setenv("METADATA_CACHE_FILE", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	return secret
}

func TestFromEnv_Complete(t *testing.T) {
	secret := setComplete(t)

	cfg, err := app.FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.SecretKey != secret {
		t.Fatalf("secret key: got %q", cfg.SecretKey)
	}
	if len(cfg.RelayURLs) != 2 || cfg.RelayURLs[0] != "wss://a.example" || cfg.RelayURLs[1] != "wss://b.example" {
		t.Fatalf("relays: got %v", cfg.RelayURLs)
	}
	if cfg.MetadataFile != "/var/lib/nostrcord/metadata_cache.json" {
		t.Fatalf("metadata default: got %q", cfg.MetadataFile)
	}
}

func TestFromEnv_AcceptsNsec(t *testing.T) {
	secret := setComplete(t)
	nsec, err := crypto.Nsec(secret)
	if err != nil {
		t.Fatalf("encode nsec: %v", err)
	}
	t.Setenv("NOSTR_PRIVATE_KEY", nsec)

	cfg, err := app.FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.SecretKey != secret {
		t.Fatalf("secret key: got %q, want canonical hex", cfg.SecretKey)
	}
}

func TestFromEnv_MissingRequired(t *testing.T) {
	for _, name := range []string{"DISCORD_TOKEN", "DISCORD_CHANNEL_ID", "NOSTR_PRIVATE_KEY", "NOSTR_RELAYS"} {
		t.Run(name, func(t *testing.T) {
			setComplete(t)
			t.Setenv(name, "")
			if _, err := app.FromEnv(); err == nil {
				t.Fatalf("expected error with %s unset", name)
			}
		})
	}
}

func TestFromEnv_RejectsBadSecretKey(t *testing.T) {
	setComplete(t)
	t.Setenv("NOSTR_PRIVATE_KEY", "not a key")
	if _, err := app.FromEnv(); err == nil {
		t.Fatal("expected error for malformed secret key")
	}
}
