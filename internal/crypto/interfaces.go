// SPDX-License-Identifier: Apache-2.0

// Package crypto protects peer bearer tokens at rest. Tokens are stored as
// AES-256-GCM blobs and decrypted only transiently inside the peer client
// for the duration of a request.
package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/token_cipher_mock.go -package=mock

// TokenCipher encrypts and decrypts peer bearer tokens. One cipher instance
// is bound to one application secret; rotating the secret invalidates every
// stored token.
type TokenCipher interface {
	// Encrypt seals the plaintext token into a nonce-prefixed AES-GCM blob
	// safe to persist. Returns an error if sealing fails.
	Encrypt(token string) ([]byte, error)

	// Decrypt opens a blob produced by Encrypt and returns the plaintext
	// token. Returns an error for truncated or tampered blobs, or for blobs
	// sealed under a different secret.
	Decrypt(blob []byte) (string, error)
}
