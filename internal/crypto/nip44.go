package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/bits"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"

	"nostrcord/internal/domain"
	"nostrcord/internal/util/memzero"
)

// Version 2 of the payload encryption: secp256k1 ECDH conversation key,
// HKDF-SHA256 message keys, ChaCha20 over padded plaintext, HMAC-SHA256
// with the nonce as associated data.
const payloadVersion = 2

const (
	nonceSize        = 32
	chachaNonceSize  = chacha20.NonceSize
	macSize          = sha256.Size
	minPlaintextSize = 1
	maxPlaintextSize = 65535
)

var (
	ErrShortPlaintext = errors.New("crypto: plaintext is empty")
	ErrLongPlaintext  = errors.New("crypto: plaintext exceeds 65535 bytes")
	ErrBadPayload     = errors.New("crypto: malformed payload")
	ErrBadMAC         = errors.New("crypto: payload authentication failed")
)

var conversationKeySalt = []byte("nip44-v2")

// ConversationKey derives the shared symmetric key between a local secret
// key and a remote public key. Both directions derive the same key.
func ConversationKey(secret string, pk domain.PubKey) (key [32]byte, err error) {
	skBytes, err := hex.DecodeString(secret)
	if err != nil || len(skBytes) != 32 {
		return key, ErrBadSecretKey
	}
	defer memzero.Zero(skBytes)

	pkBytes, err := hex.DecodeString(string(pk))
	if err != nil || len(pkBytes) != 32 {
		return key, ErrBadPublicKey
	}
	pub, err := schnorr.ParsePubKey(pkBytes)
	if err != nil {
		return key, fmt.Errorf("%w: %v", ErrBadPublicKey, err)
	}

	priv, _ := btcec.PrivKeyFromBytes(skBytes)
	shared := btcec.GenerateSharedSecret(priv, pub)
	defer memzero.Zero(shared)

	copy(key[:], hkdf.Extract(sha256.New, shared, conversationKeySalt))
	return key, nil
}

// Encrypt seals plaintext under a conversation key and returns the base64
// payload: version byte, nonce, ciphertext, MAC.
func Encrypt(plaintext string, key [32]byte) (string, error) {
	if len(plaintext) < minPlaintextSize {
		return "", ErrShortPlaintext
	}
	if len(plaintext) > maxPlaintextSize {
		return "", ErrLongPlaintext
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}

	enc, cnonce, auth, err := messageKeys(key, nonce)
	if err != nil {
		return "", err
	}
	defer memzero.Zero32(&enc)
	defer memzero.Zero32(&auth)

	padded := pad(plaintext)
	cipher, err := chacha20.NewUnauthenticatedCipher(enc[:], cnonce[:])
	if err != nil {
		return "", err
	}
	ct := make([]byte, len(padded))
	cipher.XORKeyStream(ct, padded)

	payload := make([]byte, 0, 1+nonceSize+len(ct)+macSize)
	payload = append(payload, payloadVersion)
	payload = append(payload, nonce[:]...)
	payload = append(payload, ct...)
	payload = append(payload, mac(auth, nonce[:], ct)...)
	return base64.StdEncoding.EncodeToString(payload), nil
}

// Decrypt opens a base64 payload produced by Encrypt with the same
// conversation key.
func Decrypt(payload string, key [32]byte) (string, error) {
	if len(payload) > 0 && payload[0] == '#' {
		return "", fmt.Errorf("%w: unsupported encryption version", ErrBadPayload)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	// version + nonce + smallest padded block + MAC
	if len(raw) < 1+nonceSize+34+macSize {
		return "", fmt.Errorf("%w: truncated", ErrBadPayload)
	}
	if raw[0] != payloadVersion {
		return "", fmt.Errorf("%w: unknown version %d", ErrBadPayload, raw[0])
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[1:1+nonceSize])
	ct := raw[1+nonceSize : len(raw)-macSize]
	tag := raw[len(raw)-macSize:]

	enc, cnonce, auth, err := messageKeys(key, nonce)
	if err != nil {
		return "", err
	}
	defer memzero.Zero32(&enc)
	defer memzero.Zero32(&auth)

	if !hmac.Equal(tag, mac(auth, nonce[:], ct)) {
		return "", ErrBadMAC
	}

	cipher, err := chacha20.NewUnauthenticatedCipher(enc[:], cnonce[:])
	if err != nil {
		return "", err
	}
	padded := make([]byte, len(ct))
	cipher.XORKeyStream(padded, ct)

	return unpad(padded)
}

// messageKeys expands the conversation key and nonce into the ChaCha20 key,
// ChaCha20 nonce and HMAC key.
func messageKeys(key [32]byte, nonce [nonceSize]byte) (enc [32]byte, cnonce [chachaNonceSize]byte, auth [32]byte, err error) {
	r := hkdf.Expand(sha256.New, key[:], nonce[:])
	if _, err = io.ReadFull(r, enc[:]); err != nil {
		return
	}
	if _, err = io.ReadFull(r, cnonce[:]); err != nil {
		return
	}
	_, err = io.ReadFull(r, auth[:])
	return
}

func mac(auth [32]byte, aad, ct []byte) []byte {
	h := hmac.New(sha256.New, auth[:])
	h.Write(aad)
	h.Write(ct)
	return h.Sum(nil)
}

// pad prefixes the plaintext with its big-endian length and zero-pads to a
// bucketed size so payload length leaks little about content length.
func pad(plaintext string) []byte {
	unpadded := []byte(plaintext)
	out := make([]byte, 2+paddedLen(len(unpadded)))
	binary.BigEndian.PutUint16(out[:2], uint16(len(unpadded)))
	copy(out[2:], unpadded)
	return out
}

func unpad(padded []byte) (string, error) {
	if len(padded) < 2 {
		return "", fmt.Errorf("%w: missing length prefix", ErrBadPayload)
	}
	n := int(binary.BigEndian.Uint16(padded[:2]))
	if n < minPlaintextSize || 2+n > len(padded) || len(padded) != 2+paddedLen(n) {
		return "", fmt.Errorf("%w: invalid padding", ErrBadPayload)
	}
	return string(padded[2 : 2+n]), nil
}

// paddedLen buckets a plaintext length: 32 bytes minimum, then chunks of an
// eighth of the next power of two.
func paddedLen(n int) int {
	if n <= 32 {
		return 32
	}
	nextPower := 1 << bits.Len(uint(n-1))
	chunk := nextPower / 8
	if chunk < 32 {
		chunk = 32
	}
	return chunk * ((n-1)/chunk + 1)
}
