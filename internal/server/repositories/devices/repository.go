// Package devices persists registered devices and their public keys.
package devices

import (
	"context"

	"relay/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, device *models.Device) (*models.Device, error)
	GetByID(ctx context.Context, id string) (*models.Device, error)
	UpdatePublicKey(ctx context.Context, id string, publicKey []byte) error
	ListByUserIDs(ctx context.Context, userIDs []string) ([]*models.Device, error)
}
