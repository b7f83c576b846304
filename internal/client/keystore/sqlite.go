package keystore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"relay/internal/client/models"
	"relay/internal/cryptox"
	"relay/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save stores the identity pair for kp.UserID, replacing any previous one.
// Exactly one active key pair per (user, device) at a time.
func (r *SQLiteRepository) Save(ctx context.Context, kp *models.DeviceKeyPair) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO identity_keys (user_id, device_id, public_key, private_key)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			device_id = excluded.device_id,
			public_key = excluded.public_key,
			private_key = excluded.private_key
	`, kp.UserID, kp.DeviceID, kp.PublicKey, kp.PrivateKey)
	if err != nil {
		return fmt.Errorf("failed to save identity for user %s: %w", kp.UserID, err)
	}
	return nil
}

// Load retrieves the identity pair for userID. Missing or corrupt rows
// yield (nil, nil): the caller treats both as "not provisioned" and
// provisions a fresh identity.
func (r *SQLiteRepository) Load(ctx context.Context, userID string) (*models.DeviceKeyPair, error) {
	kp := &models.DeviceKeyPair{UserID: userID}
	err := r.db.QueryRowContext(ctx, `
		SELECT device_id, public_key, private_key FROM identity_keys WHERE user_id = ?
	`, userID).Scan(&kp.DeviceID, &kp.PublicKey, &kp.PrivateKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load identity for user %s: %w", userID, err)
	}

	if !validKeyPair(kp) {
		return nil, nil
	}
	return kp, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM identity_keys WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete identity for user %s: %w", userID, err)
	}
	return nil
}

// validKeyPair rejects rows whose key material does not parse as a P-256
// pair, or whose halves do not match.
func validKeyPair(kp *models.DeviceKeyPair) bool {
	if kp.DeviceID == "" {
		return false
	}
	priv, err := cryptox.ImportPrivateKey(kp.PrivateKey)
	if err != nil {
		return false
	}
	pub, err := cryptox.ImportPublicKey(kp.PublicKey)
	if err != nil {
		return false
	}
	return pub.Equal(priv.PublicKey())
}
