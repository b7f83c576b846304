package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"relay/internal/client/models"
	"relay/internal/common"
	"relay/internal/cryptox"
	"relay/internal/logging"
)

// DocumentService encrypts documents for storage and runs the full
// upload/download flows against the directory and the object store.
type DocumentService struct {
	dir     Directory
	store   ObjectStore
	sharing *SharingService
	bucket  string
	log     logging.Logger
}

func NewDocumentService(dir Directory, store ObjectStore, sharing *SharingService, bucket string, log logging.Logger) *DocumentService {
	return &DocumentService{dir: dir, store: store, sharing: sharing, bucket: bucket, log: log}
}

// EncryptForStorage encrypts plaintext under a fresh DEK, bound to its
// group and document via AAD. The returned DEK exists only in memory;
// the caller wipes it after fan-out.
func (s *DocumentService) EncryptForStorage(plaintext []byte, groupID, documentID string) (*models.EncryptedDocument, error) {
	dek := cryptox.GenerateDEK()

	aad := cryptox.DocumentAAD(groupID, documentID)
	ciphertext, nonce, err := cryptox.Encrypt(dek, plaintext, aad)
	if err != nil {
		common.WipeByteArray(dek)
		return nil, err
	}

	return &models.EncryptedDocument{DEK: dek, Nonce: nonce, AAD: aad, Ciphertext: ciphertext}, nil
}

// DecryptFromStorage authenticates and decrypts a stored blob. An
// authentication failure is terminal for this document: there is no
// variant of the inputs worth retrying.
func (s *DocumentService) DecryptFromStorage(dek, nonce, ciphertext, aad []byte) ([]byte, error) {
	return cryptox.Decrypt(dek, ciphertext, nonce, aad)
}

// Upload encrypts plaintext, records the document in the directory, puts
// the ciphertext to storage and fans the DEK out to every device of every
// group member. Per-device wrap failures are tolerated; zero successful
// wraps would strand the ciphertext and aborts the upload with
// ErrNoValidRecipients before anything is written.
func (s *DocumentService) Upload(ctx context.Context, sess *Session, groupID, name string, plaintext []byte) (*models.Document, *models.ShareReport, error) {
	documentID := uuid.NewString()

	enc, err := s.EncryptForStorage(plaintext, groupID, documentID)
	if err != nil {
		return nil, nil, err
	}
	defer common.WipeByteArray(enc.DEK)

	members, err := s.dir.ListGroupMembers(ctx, sess, groupID)
	if err != nil {
		return nil, nil, err
	}
	userIDs := make([]string, 0, len(members))
	for _, m := range members {
		userIDs = append(userIDs, m.UserID)
	}

	devices, err := s.dir.ListDevicesForUsers(ctx, sess, userIDs)
	if err != nil {
		return nil, nil, err
	}

	report := s.sharing.ShareDocumentKey(documentID, enc.DEK, devices)
	if len(report.Failed) > 0 {
		s.log.Warn(ctx, "some devices excluded from upload",
			"document_id", documentID, "failed_devices", len(report.Failed))
	}
	if len(report.Wrapped) == 0 {
		return nil, report, common.ErrNoValidRecipients
	}

	doc := &models.Document{
		ID:            documentID,
		GroupID:       groupID,
		StorageBucket: s.bucket,
		StoragePath:   groupID + "/" + documentID,
		ContentNonce:  enc.Nonce,
		ContentAAD:    enc.AAD,
		ContentAlg:    models.ContentAlgAESGCM,
		CreatedBy:     sess.UserID,
		Name:          name,
	}

	if err := s.dir.InsertDocument(ctx, sess, doc); err != nil {
		return nil, report, err
	}
	if err := s.store.PutObject(ctx, doc.StorageBucket, doc.StoragePath, enc.Ciphertext); err != nil {
		return nil, report, err
	}
	if err := s.dir.InsertWrappedKeys(ctx, sess, report.Wrapped, false); err != nil {
		return nil, report, err
	}

	s.log.Info(ctx, "document uploaded",
		"document_id", documentID, "recipients", len(report.Wrapped))
	return doc, report, nil
}

// Download fetches this device's wrapped entry for doc, unwraps the DEK
// and decrypts the stored blob.
func (s *DocumentService) Download(ctx context.Context, sess *Session, kp *models.DeviceKeyPair, doc *models.Document) ([]byte, error) {
	entry, err := s.dir.GetWrappedKey(ctx, sess, doc.ID, kp.DeviceID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: no key for device %s on document %s", common.ErrorNotFound, kp.DeviceID, doc.ID)
	}
	if err != nil {
		return nil, err
	}

	priv, err := cryptox.ImportPrivateKey(kp.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: stored private key does not parse", common.ErrIdentityMissing)
	}

	dek, err := cryptox.UnwrapDEK(entry.WrappedDEK, entry.WrappedNonce, priv)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(dek)

	blob, err := s.store.GetObject(ctx, doc.StorageBucket, doc.StoragePath)
	if err != nil {
		return nil, err
	}

	return s.DecryptFromStorage(dek, doc.ContentNonce, blob, doc.ContentAAD)
}
