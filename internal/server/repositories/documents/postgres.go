package documents

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

func (r *PostgresRepository) Create(ctx context.Context, doc *models.Document) error {
	query :=
		`INSERT INTO documents (id, group_id, storage_bucket, storage_path,
		                        content_nonce, content_aad, content_alg, created_by, name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 `

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.GroupID, doc.StorageBucket, doc.StoragePath,
		doc.ContentNonce, doc.ContentAAD, doc.ContentAlg, doc.CreatedBy, doc.Name)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query :=
		`SELECT id, group_id, storage_bucket, storage_path,
		        content_nonce, content_aad, content_alg, created_by, name
		 FROM documents
		 WHERE id = $1
		 `

	doc := &models.Document{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &doc.GroupID, &doc.StorageBucket, &doc.StoragePath,
		&doc.ContentNonce, &doc.ContentAAD, &doc.ContentAlg, &doc.CreatedBy, &doc.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return doc, nil
}

func (r *PostgresRepository) ListByGroupID(ctx context.Context, groupID string) ([]*models.Document, error) {
	query :=
		`SELECT id, group_id, storage_bucket, storage_path,
		        content_nonce, content_aad, content_alg, created_by, name
		 FROM documents
		 WHERE group_id = $1
		 ORDER BY name
		 `

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc := &models.Document{}
		if err := rows.Scan(
			&doc.ID, &doc.GroupID, &doc.StorageBucket, &doc.StoragePath,
			&doc.ContentNonce, &doc.ContentAAD, &doc.ContentAlg, &doc.CreatedBy, &doc.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return docs, nil
}
