// Package cryptox implements the cryptographic core of Relay: P-256 device
// key pairs, per-document data-encryption keys (DEKs), AES-256-GCM content
// encryption bound to a document identity, ECIES-style DEK wrapping for
// recipient devices, and the password-hardened backup key derivation.
//
// All randomness comes from crypto/rand. Keys are handled as raw byte
// slices at the package boundary; callers are expected to wipe DEKs and
// private keys with common.WipeByteArray when done.
package cryptox

import (
	"crypto/ecdh"
	"crypto/rand"
	"fmt"
)

const (
	// DEKSize is the length of a data-encryption key (AES-256).
	DEKSize = 32
	// NonceSize is the AES-GCM nonce length (96 bits).
	NonceSize = 12
	// PublicKeySize is the raw uncompressed P-256 point length
	// (0x04 || X || Y).
	PublicKeySize = 65
	// PrivateKeySize is the raw P-256 scalar length.
	PrivateKeySize = 32
)

// GenerateKeyPair creates a fresh P-256 key pair suitable for ECDH key
// agreement. This is the long-lived device identity key.
func GenerateKeyPair() (*ecdh.PrivateKey, error) {
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("keypair generation error: %w", err)
	}
	return key, nil
}

// ImportPublicKey parses a raw uncompressed P-256 public key
// (65 bytes, 0x04-prefixed).
func ImportPublicKey(raw []byte) (*ecdh.PublicKey, error) {
	key, err := ecdh.P256().NewPublicKey(raw)
	if err != nil {
		return nil, fmt.Errorf("public key import error: %w", err)
	}
	return key, nil
}

// ImportPrivateKey parses a raw P-256 private scalar (32 bytes).
func ImportPrivateKey(raw []byte) (*ecdh.PrivateKey, error) {
	key, err := ecdh.P256().NewPrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("private key import error: %w", err)
	}
	return key, nil
}
