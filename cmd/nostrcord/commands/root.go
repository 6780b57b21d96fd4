package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"nostrcord/internal/logging"
)

var (
	logLevel  string
	logFormat string
)

func Execute() error {
	root := &cobra.Command{
		Use:           "nostrcord",
		Short:         "Bridge a Discord channel to encrypted Nostr direct messages",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			logging.Setup(logLevel, logFormat)
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(runCmd(), keygenCmd())
	return root.Execute()
}
