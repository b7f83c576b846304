// Package models defines the client-side data model: device identities,
// documents, wrapped-key rows, groups, and backup payloads.
package models

// DeviceKeyPair is the long-lived identity key pair of one (user, device).
// PrivateKey is the raw P-256 scalar and is exclusively owned by the device
// that generated it: it never leaves local storage or process memory except
// through a password-encrypted backup export.
type DeviceKeyPair struct {
	DeviceID   string
	UserID     string
	PublicKey  []byte
	PrivateKey []byte
}

// DirectoryDevice is the public projection of a device as recorded by the
// directory: id, owner, raw public key bytes, and a display name.
type DirectoryDevice struct {
	ID        string
	UserID    string
	PublicKey []byte
	Name      string
}
