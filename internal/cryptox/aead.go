package cryptox

import (
	"crypto/aes"
	"crypto/cipher"

	"relay/internal/common"
)

// documentAADTag is the domain separation prefix for content AAD.
// Binding the AAD to both group and document id prevents a ciphertext
// from one document or group being replayed as another.
const documentAADTag = "relay-doc"

// DocumentAAD builds the associated data for document content encryption:
// "relay-doc:<groupID>:<documentID>".
func DocumentAAD(groupID, documentID string) []byte {
	return []byte(documentAADTag + ":" + groupID + ":" + documentID)
}

// GenerateDEK returns a fresh random 256-bit data-encryption key.
// A DEK exists only in volatile memory and is never serialized in the
// clear; it crosses machine boundaries only inside a wrap payload.
func GenerateDEK() []byte {
	return common.GenerateRandByteArray(DEKSize)
}

// Encrypt seals plaintext under key with AES-256-GCM and the given
// associated data. A new random 12-byte nonce is generated for each call;
// nonce reuse with the same key breaks GCM catastrophically, so the nonce
// is never a caller input.
func Encrypt(key, plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = common.GenerateRandByteArray(NonceSize)
	ciphertext = aesgcm.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt opens an AES-256-GCM ciphertext produced by Encrypt. A tag
// mismatch (corrupted blob, wrong key, or AAD mismatch) is reported as
// common.ErrAuthenticationFailure and must be treated as fatal for that
// object, not retried with the same inputs.
func Decrypt(key, ciphertext, nonce, aad []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, common.ErrAuthenticationFailure
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
