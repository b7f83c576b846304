// Package groups persists sharing groups and their membership.
package groups

import (
	"context"

	"relay/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, group *models.Group) (*models.Group, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.Group, error)
	ListMembers(ctx context.Context, groupID string) ([]*models.GroupMember, error)
	AddMember(ctx context.Context, member *models.GroupMember) error
	GetMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error)
}
