package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"

	"relay/internal/common"
)

const saltSize = 32

// NewSalt returns a fresh random per-user salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(saltSize)
}

// HashPassword derives the stored verifier for a password and salt.
func HashPassword(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
}

// VerifyPassword compares a candidate password against the stored
// verifier in constant time.
func VerifyPassword(password string, salt, verifier []byte) bool {
	candidate := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(candidate, verifier) == 1
}
