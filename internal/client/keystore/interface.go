// Package keystore persists device identity key pairs in a local SQLite
// database keyed by user id. It is the only durable home of a device's
// private key.
package keystore

import (
	"context"

	"relay/internal/client/models"
)

// Repository is the local identity store. Load returns (nil, nil) when no
// usable pair exists for the user; absence or a corrupt row both mean
// "device not yet provisioned" to the caller.
//
// Access is single-writer, single-reader per user id; callers must not
// interleave writes for the same id.
type Repository interface {
	Save(ctx context.Context, kp *models.DeviceKeyPair) error
	Load(ctx context.Context, userID string) (*models.DeviceKeyPair, error)
	Delete(ctx context.Context, userID string) error
}
