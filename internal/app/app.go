package app

import (
	"log/slog"

	"nostrcord/internal/bridge"
	"nostrcord/internal/discord"
	"nostrcord/internal/domain"
	"nostrcord/internal/envelope"
	"nostrcord/internal/metadata"
	"nostrcord/internal/registry"
	"nostrcord/internal/relay"
)

// App is the wired bridge, ready to run.
type App struct {
	Engine   *bridge.Engine
	Registry *registry.Registry
	PubKey   domain.PubKey
}

// New builds the full dependency graph from a validated Config.
func New(cfg Config) (*App, error) {
	log := slog.Default()

	codec, err := envelope.New(cfg.SecretKey)
	if err != nil {
		return nil, err
	}

	var store domain.SubscriberStore
	if cfg.SubscribersFile != "" {
		store = registry.NewFileStore(cfg.SubscribersFile, log)
	}
	reg, err := registry.Load(store, log)
	if err != nil {
		return nil, err
	}

	bot, err := discord.New(cfg.DiscordToken, cfg.DiscordChannelID, log)
	if err != nil {
		return nil, err
	}

	var names *metadata.Cache
	if cfg.MetadataFile != "" {
		names = metadata.New(cfg.MetadataFile, relay.NewProfileClient(cfg.RelayURLs), log)
	}

	engine, err := bridge.New(codec, reg, bot, relay.NewDialer(log), names, bridge.Options{
		RelayURLs:      cfg.RelayURLs,
		DedupWindow:    cfg.DedupWindow,
		QueueSize:      cfg.QueueSize,
		PublishTimeout: cfg.PublishTimeout,
		PublishRetries: cfg.PublishRetries,
		Logger:         log,
	})
	if err != nil {
		return nil, err
	}

	return &App{Engine: engine, Registry: reg, PubKey: codec.PublicKey()}, nil
}
