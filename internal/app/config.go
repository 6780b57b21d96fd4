package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nostrcord/internal/crypto"
)

// Config holds the bridge's startup configuration. It is read once and
// treated as immutable afterwards.
type Config struct {
	DiscordToken     string
	DiscordChannelID string
	SecretKey        string // canonical hex
	RelayURLs        []string
	SubscribersFile  string // "" disables persistence
	MetadataFile     string // "" disables the profile cache

	DedupWindow    time.Duration
	QueueSize      int
	PublishTimeout time.Duration
	PublishRetries int

	LogLevel  string
	LogFormat string
}

// FromEnv reads configuration from the environment. Any missing or
// malformed required value is a fatal startup error; nothing connects to
// the network before this succeeds.
func FromEnv() (Config, error) {
	cfg := Config{
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID: os.Getenv("DISCORD_CHANNEL_ID"),
		SubscribersFile:  os.Getenv("SUBSCRIBERS_FILE"),
		MetadataFile:     os.Getenv("METADATA_CACHE_FILE"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		LogFormat:        os.Getenv("LOG_FORMAT"),
	}

	if cfg.DiscordToken == "" {
		return Config{}, errors.New("DISCORD_TOKEN is not set")
	}
	if cfg.DiscordChannelID == "" {
		return Config{}, errors.New("DISCORD_CHANNEL_ID is not set")
	}

	rawKey := os.Getenv("NOSTR_PRIVATE_KEY")
	if rawKey == "" {
		return Config{}, errors.New("NOSTR_PRIVATE_KEY is not set")
	}
	secret, err := crypto.ParseSecretKey(rawKey)
	if err != nil {
		return Config{}, fmt.Errorf("NOSTR_PRIVATE_KEY: %w", err)
	}
	cfg.SecretKey = secret

	for _, u := range strings.Split(os.Getenv("NOSTR_RELAYS"), ",") {
		if u = strings.TrimSpace(u); u != "" {
			cfg.RelayURLs = append(cfg.RelayURLs, u)
		}
	}
	if len(cfg.RelayURLs) == 0 {
		return Config{}, errors.New("NOSTR_RELAYS must list at least one relay URL")
	}

	// Default the metadata cache next to the subscriber file.
	if cfg.MetadataFile == "" && cfg.SubscribersFile != "" {
		cfg.MetadataFile = filepath.Join(filepath.Dir(cfg.SubscribersFile), "metadata_cache.json")
	}

	return cfg, nil
}
