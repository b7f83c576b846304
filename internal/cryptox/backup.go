package cryptox

import (
	"golang.org/x/crypto/argon2"
)

// BackupSaltSize is the random salt length for backup key derivation.
const BackupSaltSize = 16

// DeriveBackupKey derives a 256-bit symmetric key from a backup password
// using Argon2id. The parameters trade interactive latency for brute-force
// cost; the security of an exported identity rests entirely on password
// strength and this derivation cost.
func DeriveBackupKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}
