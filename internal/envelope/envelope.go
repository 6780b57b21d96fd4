package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"nostrcord/internal/crypto"
	"nostrcord/internal/domain"
)

// Event kinds of the three layers.
const (
	KindPrivateMessage = 14
	KindSeal           = 13
	KindGiftWrap       = 1059
)

// Outer timestamps are shifted up to this far into the past so wrap time
// cannot be correlated with send time.
const maxTimestampSkew = 2 * 24 * time.Hour

var (
	// ErrBadRecipient reports an encode failure: the recipient key is malformed.
	ErrBadRecipient = errors.New("envelope: malformed recipient key")

	// Decode failures, one per rejection reason of the wire format.
	ErrMalformed       = errors.New("envelope: malformed event")
	ErrBadSignature    = errors.New("envelope: signature mismatch")
	ErrWrongRecipient  = errors.New("envelope: not addressed to this key")
	ErrUnsupportedKind = errors.New("envelope: unsupported rumor kind")
)

// Rumor is the innermost plaintext payload recovered from a gift wrap.
type Rumor struct {
	Sender    domain.PubKey
	Content   string
	CreatedAt time.Time
}

// Codec seals and opens gift-wrapped private messages for one identity.
// It is the only holder of the bridge's secret key.
type Codec struct {
	secret string
	public domain.PubKey
	now    func() time.Time
}

// New builds a codec around a hex secret key.
func New(secret string) (*Codec, error) {
	pk, err := crypto.PublicKey(secret)
	if err != nil {
		return nil, err
	}
	return &Codec{secret: secret, public: pk, now: time.Now}, nil
}

// PublicKey returns the identity the codec wraps and unwraps for.
func (c *Codec) PublicKey() domain.PubKey { return c.public }

// Wrap seals content for a single recipient and returns the kind-1059 event
// ready for publish.
func (c *Codec) Wrap(content string, recipient domain.PubKey) (*nostr.Event, error) {
	if _, err := crypto.ParsePubKey(string(recipient)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRecipient, err)
	}

	now := c.now()
	rumor := nostr.Event{
		PubKey:    string(c.public),
		Kind:      KindPrivateMessage,
		CreatedAt: nostr.Timestamp(now.Unix()),
		Tags:      nostr.Tags{{"p", string(recipient)}},
		Content:   content,
	}
	rumor.ID = rumor.GetID()

	seal, err := c.seal(rumor, recipient, now)
	if err != nil {
		return nil, err
	}
	return giftWrap(seal, recipient, now)
}

// seal encrypts the rumor to the recipient and signs it with the bridge key.
func (c *Codec) seal(rumor nostr.Event, recipient domain.PubKey, now time.Time) (*nostr.Event, error) {
	key, err := crypto.ConversationKey(c.secret, recipient)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRecipient, err)
	}
	raw, err := json.Marshal(rumor)
	if err != nil {
		return nil, err
	}
	ct, err := crypto.Encrypt(string(raw), key)
	if err != nil {
		return nil, err
	}
	seal := nostr.Event{
		Kind:      KindSeal,
		CreatedAt: randomPast(now),
		Tags:      nostr.Tags{},
		Content:   ct,
	}
	if err := seal.Sign(c.secret); err != nil {
		return nil, err
	}
	return &seal, nil
}

// giftWrap encrypts the seal under a one-time ephemeral key. The outer
// signer is never the true sender's key.
func giftWrap(seal *nostr.Event, recipient domain.PubKey, now time.Time) (*nostr.Event, error) {
	eph := crypto.GenerateSecretKey()
	key, err := crypto.ConversationKey(eph, recipient)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRecipient, err)
	}
	raw, err := json.Marshal(seal)
	if err != nil {
		return nil, err
	}
	ct, err := crypto.Encrypt(string(raw), key)
	if err != nil {
		return nil, err
	}
	wrap := nostr.Event{
		Kind:      KindGiftWrap,
		CreatedAt: randomPast(now),
		Tags:      nostr.Tags{{"p", string(recipient)}},
		Content:   ct,
	}
	if err := wrap.Sign(eph); err != nil {
		return nil, err
	}
	return &wrap, nil
}

// Unwrap opens a gift wrap addressed to the codec's identity and returns the
// inner rumor.
func (c *Codec) Unwrap(ev *nostr.Event) (*Rumor, error) {
	if ev == nil || ev.Kind != KindGiftWrap {
		return nil, fmt.Errorf("%w: not a gift wrap", ErrMalformed)
	}
	if recipientTag(ev.Tags) != string(c.public) {
		return nil, ErrWrongRecipient
	}

	outerKey, err := crypto.ConversationKey(c.secret, domain.PubKey(ev.PubKey))
	if err != nil {
		return nil, fmt.Errorf("%w: bad ephemeral key: %v", ErrMalformed, err)
	}
	sealRaw, err := crypto.Decrypt(ev.Content, outerKey)
	if err != nil {
		return nil, fmt.Errorf("%w: outer layer: %v", ErrMalformed, err)
	}

	var seal nostr.Event
	if err := json.Unmarshal([]byte(sealRaw), &seal); err != nil {
		return nil, fmt.Errorf("%w: seal: %v", ErrMalformed, err)
	}
	if seal.Kind != KindSeal {
		return nil, fmt.Errorf("%w: inner kind %d", ErrMalformed, seal.Kind)
	}
	if ok, err := seal.CheckSignature(); err != nil || !ok {
		return nil, ErrBadSignature
	}

	innerKey, err := crypto.ConversationKey(c.secret, domain.PubKey(seal.PubKey))
	if err != nil {
		return nil, fmt.Errorf("%w: bad sender key: %v", ErrMalformed, err)
	}
	rumorRaw, err := crypto.Decrypt(seal.Content, innerKey)
	if err != nil {
		return nil, fmt.Errorf("%w: inner layer: %v", ErrMalformed, err)
	}

	var rumor nostr.Event
	if err := json.Unmarshal([]byte(rumorRaw), &rumor); err != nil {
		return nil, fmt.Errorf("%w: rumor: %v", ErrMalformed, err)
	}
	// The seal attributes authorship; a rumor claiming another sender is forged.
	if rumor.PubKey != seal.PubKey {
		return nil, fmt.Errorf("%w: rumor sender differs from seal signer", ErrBadSignature)
	}
	if rumor.Kind != KindPrivateMessage {
		return nil, fmt.Errorf("%w: kind %d", ErrUnsupportedKind, rumor.Kind)
	}

	return &Rumor{
		Sender:    domain.PubKey(rumor.PubKey),
		Content:   rumor.Content,
		CreatedAt: rumor.CreatedAt.Time(),
	}, nil
}

// recipientTag returns the first "p" tag value, or "".
func recipientTag(tags nostr.Tags) string {
	for _, tag := range tags {
		if len(tag) >= 2 && tag[0] == "p" {
			return tag[1]
		}
	}
	return ""
}

// randomPast returns a timestamp shifted uniformly up to maxTimestampSkew
// into the past.
func randomPast(now time.Time) nostr.Timestamp {
	skew := rand.N(maxTimestampSkew)
	return nostr.Timestamp(now.Add(-skew).Unix())
}
