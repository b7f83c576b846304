// Package common defines shared constants, sentinel errors, and small
// byte-level utilities used across client and server layers of Relay.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")

	// Identity / provisioning errors.
	ErrIdentityMissing   = errors.New("no local identity key pair")
	ErrDirectoryMismatch = errors.New("local and directory public keys differ")

	// Content and key-wrap crypto errors.
	ErrAuthenticationFailure = errors.New("authentication failure")
	ErrInvalidWrapFormat     = errors.New("invalid wrapped key format")
	ErrUnwrapFailed          = errors.New("unwrap failed")

	// Sharing errors.
	ErrNoValidRecipients = errors.New("no valid recipient devices")

	// Backup import errors.
	ErrUnknownBackupVersion   = errors.New("unknown backup version")
	ErrWrongPasswordOrCorrupt = errors.New("wrong password or corrupt backup")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
