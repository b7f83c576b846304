package groups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"relay/internal/common"
	"relay/internal/dbx"
	"relay/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, group *models.Group) (*models.Group, error) {
	query :=
		`INSERT INTO groups (name)
		 VALUES ($1)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, group.Name).Scan(&group.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return group, nil
}

func (r *PostgresRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Group, error) {
	query :=
		`SELECT g.id, g.name FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = $1
		 ORDER BY g.name
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return groups, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, groupID string) ([]*models.GroupMember, error) {
	query :=
		`SELECT group_id, user_id, role FROM group_members
		 WHERE group_id = $1
		 ORDER BY user_id
		 `

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var members []*models.GroupMember
	for rows.Next() {
		member := &models.GroupMember{}
		if err := rows.Scan(&member.GroupID, &member.UserID, &member.Role); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return members, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *models.GroupMember) error {
	query :=
		`INSERT INTO group_members (group_id, user_id, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (group_id, user_id) DO NOTHING
		 `

	_, err := r.db.ExecContext(ctx, query, member.GroupID, member.UserID, member.Role)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	query :=
		`SELECT group_id, user_id, role FROM group_members
		 WHERE group_id = $1 AND user_id = $2
		 `

	member := &models.GroupMember{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(&member.GroupID, &member.UserID, &member.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return member, nil
}
