package services

import (
	"context"
	"errors"
	"fmt"

	"relay/internal/client/models"
	"relay/internal/common"
	"relay/internal/cryptox"
	"relay/internal/logging"
)

// SharingService fans document keys out to group member devices. Fan-out
// is sequential and failure-isolated: one bad device never blocks the
// rest, and existing wrapped rows are never overwritten.
type SharingService struct {
	dir Directory
	log logging.Logger
}

func NewSharingService(dir Directory, log logging.Logger) *SharingService {
	return &SharingService{dir: dir, log: log}
}

// ShareDocumentKey wraps dek once per device. Devices whose public key is
// missing, malformed or not a curve point end up in Failed; wrapping for
// the remaining devices proceeds regardless.
func (s *SharingService) ShareDocumentKey(documentID string, dek []byte, devices []*models.DirectoryDevice) *models.ShareReport {
	report := &models.ShareReport{}

	for _, dev := range devices {
		pub, err := cryptox.ImportPublicKey(dev.PublicKey)
		if err != nil {
			report.Failed = append(report.Failed, dev.ID)
			continue
		}

		payload, nonce, err := cryptox.WrapDEK(dek, pub)
		if err != nil {
			report.Failed = append(report.Failed, dev.ID)
			continue
		}

		report.Wrapped = append(report.Wrapped, models.WrappedKeyEntry{
			DocumentID:   documentID,
			DeviceID:     dev.ID,
			WrappedDEK:   payload,
			WrappedNonce: nonce,
			WrapAlg:      models.ContentAlgAESGCM,
		})
	}

	return report
}

// OnMemberAdded re-shares every document of groupID with the devices of a
// newly added member. For each document the caller's own wrapped entry is
// fetched and unwrapped; documents the caller cannot recover the key for
// are counted and skipped, never fatal. Inserts ignore duplicates so the
// operation is safely repeatable.
func (s *SharingService) OnMemberAdded(ctx context.Context, sess *Session, kp *models.DeviceKeyPair, groupID, userID string) (*models.ReshareReport, error) {
	priv, err := cryptox.ImportPrivateKey(kp.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: stored private key does not parse", common.ErrIdentityMissing)
	}

	devices, err := s.dir.ListDevicesForUsers(ctx, sess, []string{userID})
	if err != nil {
		return nil, err
	}

	docs, err := s.dir.ListDocuments(ctx, sess, groupID)
	if err != nil {
		return nil, err
	}

	report := &models.ReshareReport{}

	for _, doc := range docs {
		own, err := s.dir.GetWrappedKey(ctx, sess, doc.ID, kp.DeviceID)
		if errors.Is(err, common.ErrorNotFound) {
			report.SkippedMissingOwnKey++
			continue
		}
		if err != nil {
			return report, err
		}

		dek, err := cryptox.UnwrapDEK(own.WrappedDEK, own.WrappedNonce, priv)
		if err != nil {
			s.log.Warn(ctx, "cannot recover document key, skipping", "document_id", doc.ID)
			report.SkippedMissingOwnKey++
			continue
		}

		entries := make([]models.WrappedKeyEntry, 0, len(devices))
		for _, dev := range devices {
			pub, err := cryptox.ImportPublicKey(dev.PublicKey)
			if err != nil {
				report.SkippedBadDeviceKey++
				continue
			}
			payload, nonce, err := cryptox.WrapDEK(dek, pub)
			if err != nil {
				report.SkippedBadDeviceKey++
				continue
			}
			entries = append(entries, models.WrappedKeyEntry{
				DocumentID:   doc.ID,
				DeviceID:     dev.ID,
				WrappedDEK:   payload,
				WrappedNonce: nonce,
				WrapAlg:      models.ContentAlgAESGCM,
			})
		}
		common.WipeByteArray(dek)

		if len(entries) == 0 {
			continue
		}
		if err := s.dir.InsertWrappedKeys(ctx, sess, entries, true); err != nil {
			return report, err
		}
		report.Shared += len(entries)
	}

	return report, nil
}
