package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relay/internal/common"
)

func TestWrapUnwrapDEK_Identity(t *testing.T) {
	recipient, err := GenerateKeyPair()
	require.NoError(t, err)

	dek := GenerateDEK()

	payload, nonce, err := WrapDEK(dek, recipient.PublicKey())
	require.NoError(t, err)
	require.Greater(t, len(payload), PublicKeySize)

	recovered, err := UnwrapDEK(payload, nonce, recipient)
	require.NoError(t, err)
	assert.Equal(t, dek, recovered)
}

func TestWrapDEK_PayloadCarriesEphemeralKey(t *testing.T) {
	recipient, err := GenerateKeyPair()
	require.NoError(t, err)

	payload, _, err := WrapDEK(GenerateDEK(), recipient.PublicKey())
	require.NoError(t, err)

	// The prefix must be an importable uncompressed P-256 point.
	_, err = ImportPublicKey(payload[:PublicKeySize])
	require.NoError(t, err)
	assert.Equal(t, byte(0x04), payload[0])
}

func TestWrapDEK_DistinctPayloadsPerCall(t *testing.T) {
	recipient, err := GenerateKeyPair()
	require.NoError(t, err)

	dek := GenerateDEK()
	p1, _, err := WrapDEK(dek, recipient.PublicKey())
	require.NoError(t, err)
	p2, _, err := WrapDEK(dek, recipient.PublicKey())
	require.NoError(t, err)

	// Fresh ephemeral key per wrap: identical DEKs never produce
	// identical payloads.
	assert.NotEqual(t, p1, p2)
}

func TestUnwrapDEK_WrongRecipient(t *testing.T) {
	recipient, err := GenerateKeyPair()
	require.NoError(t, err)
	other, err := GenerateKeyPair()
	require.NoError(t, err)

	payload, nonce, err := WrapDEK(GenerateDEK(), recipient.PublicKey())
	require.NoError(t, err)

	_, err = UnwrapDEK(payload, nonce, other)
	assert.ErrorIs(t, err, common.ErrUnwrapFailed)
}

func TestUnwrapDEK_TamperDetection(t *testing.T) {
	recipient, err := GenerateKeyPair()
	require.NoError(t, err)

	payload, nonce, err := WrapDEK(GenerateDEK(), recipient.PublicKey())
	require.NoError(t, err)

	// Flip one bit in the ciphertext portion of the payload.
	mutated := make([]byte, len(payload))
	copy(mutated, payload)
	mutated[PublicKeySize] ^= 0x01

	_, err = UnwrapDEK(mutated, nonce, recipient)
	assert.ErrorIs(t, err, common.ErrUnwrapFailed)
}

func TestUnwrapDEK_MalformedPayload(t *testing.T) {
	recipient, err := GenerateKeyPair()
	require.NoError(t, err)

	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "empty", payload: nil},
		{name: "short", payload: common.GenerateRandByteArray(PublicKeySize)},
		{name: "not a curve point", payload: common.GenerateRandByteArray(PublicKeySize + 48)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnwrapDEK(tt.payload, common.GenerateRandByteArray(NonceSize), recipient)
			assert.ErrorIs(t, err, common.ErrInvalidWrapFormat)
		})
	}
}

func TestImportKeys_RoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	pub, err := ImportPublicKey(kp.PublicKey().Bytes())
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey().Bytes(), pub.Bytes())

	priv, err := ImportPrivateKey(kp.Bytes())
	require.NoError(t, err)
	assert.Equal(t, kp.Bytes(), priv.Bytes())
	assert.Equal(t, kp.PublicKey().Bytes(), priv.PublicKey().Bytes())
}
