package command

import "strings"

// Command is the classification of one decrypted plaintext message.
type Command int

const (
	None Command = iota
	Subscribe
	Unsubscribe
	Help
)

func (c Command) String() string {
	switch c {
	case Subscribe:
		return "subscribe"
	case Unsubscribe:
		return "unsubscribe"
	case Help:
		return "help"
	default:
		return "none"
	}
}

// Interpret classifies plaintext. Matching is exact after trimming
// surrounding whitespace; commands take no arguments.
func Interpret(plaintext string) Command {
	switch strings.TrimSpace(plaintext) {
	case "!subscribe":
		return Subscribe
	case "!unsubscribe":
		return Unsubscribe
	case "!help":
		return Help
	default:
		return None
	}
}

// Replies sent back to the sender over the direct encrypted channel. These
// are never forwarded to the platform channel.
const (
	SubscribedReply = "You are now subscribed to the Discord channel. " +
		"You will receive all messages from the Discord channel. " +
		"Send !unsubscribe to stop receiving messages."
	AlreadySubscribedReply = "You are already subscribed to the Discord channel."
	UnsubscribedReply      = "You have been unsubscribed from the Discord channel. " +
		"You will no longer receive messages."
	NotSubscribedReply = "You are not currently subscribed to the Discord channel."
	HelpReply          = "Available commands:\n" +
		"!subscribe - Start receiving Discord messages\n" +
		"!unsubscribe - Stop receiving Discord messages\n" +
		"!help - Show this help message"
	NotForwardedReply = "Your message was not forwarded to Discord because you're not subscribed. " +
		"Send !subscribe to start forwarding your messages."
)
