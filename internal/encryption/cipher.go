// Package encryption protects journal content at rest. Raw journal text
// is personal data; when an encryption key is configured, the pipeline
// encrypts entry content before it reaches the store.
package encryption

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"

	"golang.org/x/crypto/chacha20poly1305"
)

// Cipher seals and opens journal text with XChaCha20-Poly1305.
type Cipher struct {
	key []byte
}

// NewCipher reads a 32-byte hex key from JOURNAL_ENCRYPTION_KEY.
func NewCipher() (*Cipher, error) {
	raw := os.Getenv("JOURNAL_ENCRYPTION_KEY")
	if raw == "" {
		return nil, fmt.Errorf("JOURNAL_ENCRYPTION_KEY environment variable is required")
	}

	key, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("journal encryption key is not valid hex: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("journal encryption key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}

	return &Cipher{key: key}, nil
}

// Enabled reports whether an encryption key is configured.
func Enabled() bool {
	return os.Getenv("JOURNAL_ENCRYPTION_KEY") != ""
}

// Encrypt seals plaintext and returns base64 ciphertext with the nonce
// prepended. Empty input stays empty.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to build cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Empty input stays empty.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to build cipher: %w", err)
	}
	if len(sealed) < aead.NonceSize() {
		return "", fmt.Errorf("ciphertext shorter than nonce")
	}

	nonce, body := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, body, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt content: %w", err)
	}
	return string(plaintext), nil
}
