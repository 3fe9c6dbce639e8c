package strategy

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/redactyl/piimask/internal/types"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the length of an encryption key in bytes.
	KeySize = chacha20poly1305.KeySize

	encPrefix = "[ENCRYPTED:"
	encSuffix = "]"
	hkdfInfo  = "piimask encryption key v1"
)

var reEncrypted = regexp.MustCompile(`\[ENCRYPTED:([A-Za-z0-9_-]+)\]`)

var ErrDecryption = errors.New("decryption failed")

// DecryptionError reports a token that could not be opened: malformed,
// tampered with, or sealed under a different key.
type DecryptionError struct {
	Reason string
}

func (e *DecryptionError) Error() string { return "decryption failed: " + e.Reason }

func (e *DecryptionError) Is(target error) bool { return target == ErrDecryption }

// Cipher seals span values with XChaCha20-Poly1305 under a session key.
type Cipher struct {
	key  []byte
	aead cipher.AEAD
}

// GenerateKey returns a random 32-byte key.
func GenerateKey() ([]byte, error) {
	k := make([]byte, KeySize)
	if _, err := rand.Read(k); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return k, nil
}

// ParseKey accepts a base64 encoded 32-byte key (standard or URL alphabet).
// Any other non-empty string is treated as a passphrase and stretched with
// HKDF-SHA256.
func ParseKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty key")
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding, base64.RawStdEncoding, base64.RawURLEncoding} {
		if k, err := enc.DecodeString(s); err == nil && len(k) == KeySize {
			return k, nil
		}
	}
	return DeriveKey(s)
}

// DeriveKey stretches a passphrase into a key.
func DeriveKey(passphrase string) ([]byte, error) {
	k := make([]byte, KeySize)
	r := hkdf.New(sha256.New, []byte(passphrase), nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(r, k); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return k, nil
}

// EncodeKey renders a key in the form ParseKey accepts.
func EncodeKey(k []byte) string {
	return base64.StdEncoding.EncodeToString(k)
}

func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	k := make([]byte, KeySize)
	copy(k, key)
	return &Cipher{key: k, aead: aead}, nil
}

// Key returns a copy of the session key.
func (c *Cipher) Key() []byte {
	k := make([]byte, len(c.key))
	copy(k, c.key)
	return k
}

func (c *Cipher) Mask(value string, _ types.Span) (string, error) {
	if value == "" {
		return "", nil
	}
	return c.Encrypt(value)
}

// Encrypt seals plaintext under a fresh random nonce.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return encPrefix + base64.RawURLEncoding.EncodeToString(sealed) + encSuffix, nil
}

// Decrypt opens a single encrypted token.
func (c *Cipher) Decrypt(token string) (string, error) {
	token = strings.TrimSpace(token)
	if !strings.HasPrefix(token, encPrefix) || !strings.HasSuffix(token, encSuffix) {
		return "", &DecryptionError{Reason: "not an encrypted token"}
	}
	body := token[len(encPrefix) : len(token)-len(encSuffix)]
	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return "", &DecryptionError{Reason: "malformed encoding"}
	}
	ns := c.aead.NonceSize()
	if len(raw) < ns+c.aead.Overhead() {
		return "", &DecryptionError{Reason: "ciphertext too short"}
	}
	plain, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", &DecryptionError{Reason: "authentication failed"}
	}
	return string(plain), nil
}

// DecryptAll replaces every embedded token in text with its plaintext and
// returns the number of tokens opened. Any token that fails to open aborts
// the whole call.
func (c *Cipher) DecryptAll(text string) (string, int, error) {
	locs := reEncrypted.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text, 0, nil
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		plain, err := c.Decrypt(text[loc[0]:loc[1]])
		if err != nil {
			return "", 0, err
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(plain)
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String(), len(locs), nil
}

// ContainsToken reports whether text holds at least one encrypted token.
func ContainsToken(text string) bool {
	return reEncrypted.MatchString(text)
}

// FindTokens returns the encrypted tokens in text as spans so that they can
// be fed through the same walk as detections.
func FindTokens(text string) []types.Span {
	var out []types.Span
	for _, loc := range reEncrypted.FindAllStringIndex(text, -1) {
		out = append(out, types.Span{Start: loc[0], End: loc[1], Rule: "encrypted_token", Value: text[loc[0]:loc[1]]})
	}
	return out
}
