package models

// BackupPayloadVersion is the current backup format version tag.
const BackupPayloadVersion = 1

// BackupPayload is a password-encrypted export of a device identity key
// pair. This is the only path that ever serializes a private key outside
// the originating device's local store; its security rests entirely on
// password strength and KDF cost.
type BackupPayload struct {
	Version    int    `json:"version"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// BackupKeys is the serialized form inside the backup ciphertext.
type BackupKeys struct {
	PublicKey  []byte `json:"public_key"`
	PrivateKey []byte `json:"private_key"`
}
