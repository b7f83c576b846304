package devices

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

func (r *PostgresRepository) Create(ctx context.Context, device *models.Device) (*models.Device, error) {
	query :=
		`INSERT INTO devices (user_id, public_key, name)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		device.UserID, device.PublicKey, device.Name).Scan(&device.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return device, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Device, error) {
	query :=
		`SELECT id, user_id, public_key, name FROM devices
		 WHERE id = $1
		 `

	device := &models.Device{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&device.ID, &device.UserID, &device.PublicKey, &device.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return device, nil
}

func (r *PostgresRepository) UpdatePublicKey(ctx context.Context, id string, publicKey []byte) error {
	query :=
		`UPDATE devices SET public_key = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, publicKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByUserIDs(ctx context.Context, userIDs []string) ([]*models.Device, error) {
	query :=
		`SELECT id, user_id, public_key, name FROM devices
		 WHERE user_id = ANY($1::uuid[])
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var devices []*models.Device
	for rows.Next() {
		device := &models.Device{}
		if err := rows.Scan(&device.ID, &device.UserID, &device.PublicKey, &device.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		devices = append(devices, device)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return devices, nil
}
