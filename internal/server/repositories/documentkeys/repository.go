// Package documentkeys persists wrapped key rows, the per-device access
// grants of a document.
package documentkeys

import (
	"context"

	"relay/internal/server/models"
)

type Repository interface {
	// InsertBatch inserts rows atomically. With ignoreDuplicates,
	// existing (document, device) rows are left untouched; otherwise a
	// duplicate fails the whole batch.
	InsertBatch(ctx context.Context, keys []*models.DocumentKey, ignoreDuplicates bool) error
	Get(ctx context.Context, documentID, deviceID string) (*models.DocumentKey, error)
}
