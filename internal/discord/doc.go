// Package discord implements the platform channel contract with discordgo.
// Gateway reconnects are handled by the session itself; only messages from
// the configured channel are bridged.
package discord
