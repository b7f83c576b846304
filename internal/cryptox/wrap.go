package cryptox

import (
	"crypto/ecdh"
	"fmt"

	"relay/internal/common"
)

// WrapDEK encrypts a DEK for a recipient device, ECIES-style:
//
//  1. generate a fresh ephemeral P-256 pair (discarded after use);
//  2. derive the ECDH shared secret between the ephemeral private key and
//     the recipient's static public key, and use it directly as an
//     AES-256-GCM key (a KDF step over the secret is a hardening
//     candidate, not required for correctness);
//  3. seal the raw DEK bytes under that key with a fresh nonce, no AAD;
//  4. return ephemeralPub(65) || gcmCiphertext as the wrap payload, with
//     the nonce carried alongside.
//
// The ephemeral sender key means wrapping needs no private key from the
// sharer, so pre-existing documents can be re-shared by anyone holding
// the DEK.
func WrapDEK(dek []byte, recipientPub *ecdh.PublicKey) (payload, nonce []byte, err error) {
	eph, err := GenerateKeyPair()
	if err != nil {
		return nil, nil, err
	}

	secret, err := eph.ECDH(recipientPub)
	if err != nil {
		return nil, nil, fmt.Errorf("shared secret derivation error: %w", err)
	}
	defer common.WipeByteArray(secret)

	ciphertext, nonce, err := Encrypt(secret, dek, nil)
	if err != nil {
		return nil, nil, err
	}

	ephPub := eph.PublicKey().Bytes()
	payload = make([]byte, 0, len(ephPub)+len(ciphertext))
	payload = append(payload, ephPub...)
	payload = append(payload, ciphertext...)
	return payload, nonce, nil
}

// UnwrapDEK recovers a DEK from a wrap payload using the recipient's
// static private key. The payload is split at the fixed P-256 public key
// length; a payload too short to contain an ephemeral key and a GCM tag
// fails with common.ErrInvalidWrapFormat, and an authentication failure
// (wrong key, tampering, or corruption) fails with common.ErrUnwrapFailed.
func UnwrapDEK(payload, nonce []byte, priv *ecdh.PrivateKey) ([]byte, error) {
	if len(payload) <= PublicKeySize {
		return nil, common.ErrInvalidWrapFormat
	}

	ephPub, err := ImportPublicKey(payload[:PublicKeySize])
	if err != nil {
		return nil, common.ErrInvalidWrapFormat
	}

	secret, err := priv.ECDH(ephPub)
	if err != nil {
		return nil, fmt.Errorf("shared secret derivation error: %w", err)
	}
	defer common.WipeByteArray(secret)

	dek, err := Decrypt(secret, payload[PublicKeySize:], nonce, nil)
	if err != nil {
		return nil, common.ErrUnwrapFailed
	}
	return dek, nil
}
