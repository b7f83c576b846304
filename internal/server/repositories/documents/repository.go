// Package documents persists encrypted document metadata.
package documents

import (
	"context"

	"relay/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	ListByGroupID(ctx context.Context, groupID string) ([]*models.Document, error)
}
