// Package models defines the directory service's persistent records.
// The directory stores public keys, ciphertext metadata and wrapped key
// rows only; nothing here can decrypt a document.
package models

// User is an account. Verifier is an argon2id hash of the password under
// Salt; the password itself is never stored.
type User struct {
	ID       string
	Login    string
	Salt     []byte
	Verifier []byte
}

// Device is one registered device of a user with its published public key.
type Device struct {
	ID        string
	UserID    string
	PublicKey []byte
	Name      string
}

// Group is a sharing scope.
type Group struct {
	ID   string
	Name string
}

// GroupMember links a user to a group with a role.
type GroupMember struct {
	GroupID string
	UserID  string
	Role    string
}

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Document is the metadata row for one encrypted document. Immutable
// after creation.
type Document struct {
	ID            string
	GroupID       string
	StorageBucket string
	StoragePath   string
	ContentNonce  []byte
	ContentAAD    []byte
	ContentAlg    string
	CreatedBy     string
	Name          string
}

// DocumentKey grants one device access to one document. (DocumentID,
// DeviceID) is unique; rows are inserted once and never updated.
type DocumentKey struct {
	DocumentID   string
	DeviceID     string
	WrappedDEK   []byte
	WrappedNonce []byte
	WrapAlg      string
}
