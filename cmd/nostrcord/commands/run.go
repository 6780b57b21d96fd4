package commands

import (
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"nostrcord/internal/app"
	"nostrcord/internal/crypto"
	"nostrcord/internal/logging"
)

func runCmd() *cobra.Command {
	var (
		relays          []string
		subscribersFile string
		dedupWindow     time.Duration
		queueSize       int
		publishTimeout  time.Duration
		publishRetries  int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the bridge and pump messages until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.FromEnv()
			if err != nil {
				return err
			}
			// Env-provided log settings apply unless the flags were set.
			if cfg.LogLevel != "" || cfg.LogFormat != "" {
				flags := cmd.Root().PersistentFlags()
				lvl, format := cfg.LogLevel, cfg.LogFormat
				if flags.Changed("log-level") {
					lvl = logLevel
				}
				if flags.Changed("log-format") {
					format = logFormat
				}
				logging.Setup(lvl, format)
			}
			if cmd.Flags().Changed("relay") {
				cfg.RelayURLs = relays
			}
			if cmd.Flags().Changed("subscribers-file") {
				cfg.SubscribersFile = subscribersFile
			}
			if cmd.Flags().Changed("dedup-window") {
				cfg.DedupWindow = dedupWindow
			}
			if cmd.Flags().Changed("queue-size") {
				cfg.QueueSize = queueSize
			}
			if cmd.Flags().Changed("publish-timeout") {
				cfg.PublishTimeout = publishTimeout
			}
			if cmd.Flags().Changed("publish-retries") {
				cfg.PublishRetries = publishRetries
			}

			a, err := app.New(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			slog.Info("bridge starting",
				"pubkey", crypto.Npub(a.PubKey),
				"relays", len(cfg.RelayURLs),
				"subscribers", len(a.Registry.List()))

			if err := a.Engine.Run(ctx); err != nil {
				return err
			}
			slog.Info("bridge stopped")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&relays, "relay", nil, "relay URL (repeatable, overrides NOSTR_RELAYS)")
	cmd.Flags().StringVar(&subscribersFile, "subscribers-file", "", "subscriber list path (overrides SUBSCRIBERS_FILE)")
	cmd.Flags().DurationVar(&dedupWindow, "dedup-window", 10*time.Minute, "how long event IDs are remembered for cross-relay dedup")
	cmd.Flags().IntVar(&queueSize, "queue-size", 64, "outbound queue depth per relay")
	cmd.Flags().DurationVar(&publishTimeout, "publish-timeout", 7*time.Second, "per-attempt publish timeout")
	cmd.Flags().IntVar(&publishRetries, "publish-retries", 2, "publish retries before an event is dropped")

	return cmd
}
