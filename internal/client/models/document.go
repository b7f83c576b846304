package models

// ContentAlgAESGCM is the only content/wrap algorithm currently produced.
const ContentAlgAESGCM = "aes-256-gcm"

// Document is the metadata row for one encrypted document. Created once at
// upload time and immutable thereafter; a changed file is a new document.
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

// WrappedKeyEntry grants one device the ability to decrypt one document.
// The set of rows for a document is its access-control list, expressed as
// ciphertexts rather than permission flags. Rows are created once per
// (document, device), never mutated, and deleted only with the document.
type WrappedKeyEntry struct {
	DocumentID   string
	DeviceID     string
	WrappedDEK   []byte
	WrappedNonce []byte
	WrapAlg      string
}

// EncryptedDocument is the in-memory result of content encryption. DEK
// lives only in volatile memory; callers wipe it after the fan-out.
type EncryptedDocument struct {
	DEK        []byte
	Nonce      []byte
	AAD        []byte
	Ciphertext []byte
}
