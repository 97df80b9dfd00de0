// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// tokenSalt domain-separates the token-encryption key from any other key
// material derived from the same application secret.
const tokenSalt = "labsync.remote-host-token.v1"

var ErrTokenCipherText = errors.New("malformed token ciphertext")

// tokenCipher is the AES-256-GCM implementation of [TokenCipher]. The key
// is derived once, at construction time, from the application secret using
// Argon2id (1 iteration, 64 MiB, 4 threads).
type tokenCipher struct {
	key []byte
}

// NewTokenCipher derives the encryption key from secret and returns a ready
// [TokenCipher]. Returns an error if secret is empty.
func NewTokenCipher(secret string) (TokenCipher, error) {
	if secret == "" {
		return nil, errors.New("token cipher: empty secret")
	}

	key := argon2.IDKey([]byte(secret), []byte(tokenSalt), 1, 64*1024, 4, 32)
	return &tokenCipher{key: key}, nil
}

// Encrypt implements [TokenCipher]. The random 12-byte nonce is prepended
// to the ciphertext: blob = nonce ‖ ciphertext.
func (c *tokenCipher) Encrypt(token string) ([]byte, error) {
	gcm, err := c.gcm()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("token cipher nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(token), nil)
	return append(nonce, sealed...), nil
}

// Decrypt implements [TokenCipher]. It splits the nonce prefix off blob and
// opens the remainder. Returns [ErrTokenCipherText] for blobs too short to
// contain a nonce and for failed authentication.
func (c *tokenCipher) Decrypt(blob []byte) (string, error) {
	gcm, err := c.gcm()
	if err != nil {
		return "", err
	}

	if len(blob) < gcm.NonceSize() {
		return "", ErrTokenCipherText
	}

	nonce, sealed := blob[:gcm.NonceSize()], blob[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenCipherText, err)
	}

	return string(plain), nil
}

func (c *tokenCipher) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("token cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
