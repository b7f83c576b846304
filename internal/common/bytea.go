package common

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Binary payloads cross the directory boundary as bytea-style hex strings
// with a fixed `\x` prefix. The encoding must round-trip exactly: the
// wrapped-key and nonce bytes stored in the directory are fed back into
// AEAD decryption verbatim.

// EncodeBytea encodes raw bytes as a `\x`-prefixed lowercase hex string.
func EncodeBytea(b []byte) string {
	return `\x` + hex.EncodeToString(b)
}

// DecodeBytea decodes a `\x`-prefixed hex string produced by EncodeBytea.
// Doubled backslashes (over-escaped values from earlier storage layers)
// are tolerated.
func DecodeBytea(s string) ([]byte, error) {
	for strings.HasPrefix(s, `\\`) {
		s = s[1:]
	}
	if !strings.HasPrefix(s, `\x`) {
		return nil, fmt.Errorf("bytea value missing \\x prefix")
	}
	b, err := hex.DecodeString(s[2:])
	if err != nil {
		return nil, fmt.Errorf("invalid bytea hex: %w", err)
	}
	return b, nil
}
