package domain

import "context"

// ChannelClient is the platform channel endpoint. Run blocks until ctx is
// cancelled or the connection fails fatally, delivering inbound channel
// messages to the provided channel.
type ChannelClient interface {
	Run(ctx context.Context, inbound chan<- ChannelMessage) error
	Send(ctx context.Context, content string) error
}

// SubscriberStore loads and persists the subscriber set. Save rewrites the
// whole set; partial updates are never assumed safe.
type SubscriberStore interface {
	Load() ([]Subscriber, error)
	Save([]Subscriber) error
}

// ProfileFetcher resolves public profile metadata for an identity.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, pk PubKey) (Profile, error)
}
