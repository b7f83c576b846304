package services

import (
	"encoding/json"
	"fmt"

	"relay/internal/client/models"
	"relay/internal/common"
	"relay/internal/cryptox"
)

// BackupService exports and restores a device identity under a password.
// This is the only path a private key ever takes off the device, and it
// leaves encrypted.
type BackupService struct{}

func NewBackupService() *BackupService {
	return &BackupService{}
}

// ExportIdentity encrypts kp's key pair with a password-derived key and a
// fresh random salt.
func (s *BackupService) ExportIdentity(kp *models.DeviceKeyPair, password string) (*models.BackupPayload, error) {
	if kp == nil {
		return nil, common.ErrIdentityMissing
	}

	salt := common.GenerateRandByteArray(cryptox.BackupSaltSize)
	key := cryptox.DeriveBackupKey([]byte(password), salt)
	defer common.WipeByteArray(key)

	plaintext, err := json.Marshal(&models.BackupKeys{
		PublicKey:  kp.PublicKey,
		PrivateKey: kp.PrivateKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup keys: %w", err)
	}
	defer common.WipeByteArray(plaintext)

	ciphertext, nonce, err := cryptox.Encrypt(key, plaintext, nil)
	if err != nil {
		return nil, err
	}

	return &models.BackupPayload{
		Version:    models.BackupPayloadVersion,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}, nil
}

// ImportIdentity decrypts a backup payload. A wrong password and a
// corrupted payload are indistinguishable by construction; both surface
// as ErrWrongPasswordOrCorrupt. The caller persists the returned pair as
// the active identity.
func (s *BackupService) ImportIdentity(payload *models.BackupPayload, password string) (*models.DeviceKeyPair, error) {
	if payload.Version != models.BackupPayloadVersion {
		return nil, fmt.Errorf("%w: version %d", common.ErrUnknownBackupVersion, payload.Version)
	}

	key := cryptox.DeriveBackupKey([]byte(password), payload.Salt)
	defer common.WipeByteArray(key)

	plaintext, err := cryptox.Decrypt(key, payload.Ciphertext, payload.Nonce, nil)
	if err != nil {
		return nil, common.ErrWrongPasswordOrCorrupt
	}
	defer common.WipeByteArray(plaintext)

	var keys models.BackupKeys
	if err := json.Unmarshal(plaintext, &keys); err != nil {
		return nil, common.ErrWrongPasswordOrCorrupt
	}

	priv, err := cryptox.ImportPrivateKey(keys.PrivateKey)
	if err != nil {
		return nil, common.ErrWrongPasswordOrCorrupt
	}
	pub, err := cryptox.ImportPublicKey(keys.PublicKey)
	if err != nil || !pub.Equal(priv.PublicKey()) {
		return nil, common.ErrWrongPasswordOrCorrupt
	}

	return &models.DeviceKeyPair{PublicKey: keys.PublicKey, PrivateKey: keys.PrivateKey}, nil
}
