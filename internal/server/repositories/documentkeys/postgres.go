package documentkeys

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
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// InsertBatch writes all rows in one transaction so a multi-device grant
// is all-or-nothing. Existing rows are never updated.
func (r *PostgresRepository) InsertBatch(ctx context.Context, keys []*models.DocumentKey, ignoreDuplicates bool) error {
	if len(keys) == 0 {
		return nil
	}

	query :=
		`INSERT INTO document_keys (document_id, device_id, wrapped_dek, wrapped_nonce, wrap_alg)
		 VALUES ($1, $2, $3, $4, $5)
		 `
	if ignoreDuplicates {
		query += `ON CONFLICT (document_id, device_id) DO NOTHING`
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, key := range keys {
			_, err := tx.ExecContext(ctx, query,
				key.DocumentID, key.DeviceID, key.WrappedDEK, key.WrappedNonce, key.WrapAlg)
			if err != nil {
				return fmt.Errorf("db error: %w", err)
			}
		}
		return nil
	})
}

func (r *PostgresRepository) Get(ctx context.Context, documentID, deviceID string) (*models.DocumentKey, error) {
	query :=
		`SELECT document_id, device_id, wrapped_dek, wrapped_nonce, wrap_alg
		 FROM document_keys
		 WHERE document_id = $1 AND device_id = $2
		 `

	key := &models.DocumentKey{}
	err := r.db.QueryRowContext(ctx, query, documentID, deviceID).Scan(
		&key.DocumentID, &key.DeviceID, &key.WrappedDEK, &key.WrappedNonce, &key.WrapAlg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return key, nil
}
