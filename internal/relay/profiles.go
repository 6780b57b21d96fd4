package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"nostrcord/internal/domain"
)

const profileQueryTimeout = 10 * time.Second

// ProfileClient fetches kind-0 profile metadata through a connection pool
// shared across queries.
type ProfileClient struct {
	pool   *nostr.SimplePool
	relays []string
}

var _ domain.ProfileFetcher = (*ProfileClient)(nil)

func NewProfileClient(relays []string) *ProfileClient {
	return &ProfileClient{
		pool:   nostr.NewSimplePool(context.Background()),
		relays: relays,
	}
}

// FetchProfile queries the relays for the latest profile event of pk.
func (p *ProfileClient) FetchProfile(ctx context.Context, pk domain.PubKey) (domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, profileQueryTimeout)
	defer cancel()

	re := p.pool.QuerySingle(ctx, p.relays, nostr.Filter{
		Kinds:   []int{0},
		Authors: []string{string(pk)},
	})
	if re == nil {
		return domain.Profile{}, fmt.Errorf("no profile event for %s", pk.Short())
	}

	var profile domain.Profile
	if err := json.Unmarshal([]byte(re.Content), &profile); err != nil {
		return domain.Profile{}, fmt.Errorf("parsing profile for %s: %w", pk.Short(), err)
	}
	return profile, nil
}
