package cryptox

import (
	"bytes"
	"testing"
)

func TestDeriveBackupKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt-16byt")

	key1 := DeriveBackupKey(password, salt)
	key2 := DeriveBackupKey(password, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
	if len(key1) != DEKSize {
		t.Errorf("expected %d-byte key, got %d", DEKSize, len(key1))
	}
}

func TestDeriveBackupKey_DifferentInputs(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveBackupKey(password, []byte("salt-1"))
	key2 := DeriveBackupKey(password, []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}

	key3 := DeriveBackupKey([]byte("other-password"), []byte("salt-1"))
	if bytes.Equal(key1, key3) {
		t.Errorf("expected different results for different passwords, got same")
	}
}
