package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"relay/internal/client/keystore"
	"relay/internal/client/models"
	"relay/internal/common"
	"relay/internal/cryptox"
	"relay/internal/logging"
)

// IdentityService manages the device identity key pair: generation,
// registration with the directory and reconciliation of the published
// public key. A device is either Unprovisioned or Provisioned; the only
// transition here is forward.
type IdentityService struct {
	dir  Directory
	keys keystore.Repository
	log  logging.Logger
}

func NewIdentityService(dir Directory, keys keystore.Repository, log logging.Logger) *IdentityService {
	return &IdentityService{dir: dir, keys: keys, log: log}
}

// LoadIdentity returns the locally stored identity for userID, or nil
// when the device is not provisioned.
func (s *IdentityService) LoadIdentity(ctx context.Context, userID string) (*models.DeviceKeyPair, error) {
	return s.keys.Load(ctx, userID)
}

// SaveIdentity persists kp as the active identity for its user,
// replacing any previous one. Used by backup restore.
func (s *IdentityService) SaveIdentity(ctx context.Context, kp *models.DeviceKeyPair) error {
	return s.keys.Save(ctx, kp)
}

// CreateIdentity generates a fresh P-256 pair, registers the device in
// the directory and persists the pair locally. The private key never
// leaves the local store.
func (s *IdentityService) CreateIdentity(ctx context.Context, sess *Session) (*models.DeviceKeyPair, error) {
	key, err := cryptox.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("failed to generate identity key: %w", err)
	}

	deviceID, err := s.dir.CreateDevice(ctx, sess, deviceName(), key.PublicKey().Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}

	kp := &models.DeviceKeyPair{
		DeviceID:   deviceID,
		UserID:     sess.UserID,
		PublicKey:  key.PublicKey().Bytes(),
		PrivateKey: key.Bytes(),
	}
	if err := s.keys.Save(ctx, kp); err != nil {
		return nil, fmt.Errorf("failed to persist identity: %w", err)
	}

	s.log.Info(ctx, "provisioned new device identity", "device_id", deviceID)
	return kp, nil
}

// EnsureDeviceReady returns a usable identity for the session user. A
// stored identity whose device the directory still confirms is reconciled
// and reused; anything else (no local identity, unknown device, device
// owned by another user) provisions a fresh one.
func (s *IdentityService) EnsureDeviceReady(ctx context.Context, sess *Session) (*models.DeviceKeyPair, error) {
	kp, err := s.keys.Load(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if kp == nil {
		return s.CreateIdentity(ctx, sess)
	}

	remote, err := s.dir.GetDeviceByID(ctx, sess, kp.DeviceID)
	if errors.Is(err, common.ErrorNotFound) {
		s.log.Warn(ctx, "stored device unknown to directory, reprovisioning", "device_id", kp.DeviceID)
		return s.CreateIdentity(ctx, sess)
	}
	if err != nil {
		return nil, err
	}
	if remote.UserID != sess.UserID {
		s.log.Warn(ctx, "stored device belongs to another user, reprovisioning", "device_id", kp.DeviceID)
		return s.CreateIdentity(ctx, sess)
	}

	if err := s.reconcilePublicKey(ctx, sess, kp, remote); err != nil {
		return nil, err
	}
	return kp, nil
}

// reconcilePublicKey heals directory drift: when the published public key
// differs from the local one, the local key wins and the directory is
// patched. The private key on this device is the source of truth.
func (s *IdentityService) reconcilePublicKey(ctx context.Context, sess *Session, local *models.DeviceKeyPair, remote *models.DirectoryDevice) error {
	if bytes.Equal(local.PublicKey, remote.PublicKey) {
		return nil
	}

	s.log.Warn(ctx, "correcting directory public key",
		"device_id", local.DeviceID, "reason", common.ErrDirectoryMismatch.Error())

	if err := s.dir.PatchDevicePublicKey(ctx, sess, local.DeviceID, local.PublicKey); err != nil {
		return fmt.Errorf("failed to correct directory public key: %w", err)
	}
	return nil
}

func deviceName() string {
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return "device"
}
