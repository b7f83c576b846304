// Package services implements the client-side engine: device identity
// lifecycle, document encryption and upload, group key distribution and
// identity backup. All key material handled here lives in volatile memory
// only and is wiped when no longer needed.
package services

import (
	"context"

	"relay/internal/client/directory"
	"relay/internal/client/models"
)

// Session aliases the directory session; it is passed explicitly through
// every operation.
type Session = directory.Session

// Directory is the subset of the directory client the services depend on.
type Directory interface {
	GetDeviceByID(ctx context.Context, sess *Session, deviceID string) (*models.DirectoryDevice, error)
	CreateDevice(ctx context.Context, sess *Session, name string, publicKey []byte) (string, error)
	PatchDevicePublicKey(ctx context.Context, sess *Session, deviceID string, publicKey []byte) error
	ListDevicesForUsers(ctx context.Context, sess *Session, userIDs []string) ([]*models.DirectoryDevice, error)
	InsertDocument(ctx context.Context, sess *Session, doc *models.Document) error
	ListDocuments(ctx context.Context, sess *Session, groupID string) ([]*models.Document, error)
	InsertWrappedKeys(ctx context.Context, sess *Session, entries []models.WrappedKeyEntry, ignoreDuplicates bool) error
	GetWrappedKey(ctx context.Context, sess *Session, documentID, deviceID string) (*models.WrappedKeyEntry, error)
	ListGroupMembers(ctx context.Context, sess *Session, groupID string) ([]*models.GroupMember, error)
}

// ObjectStore is the blob storage the document service reads and writes.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, path string, data []byte) error
	GetObject(ctx context.Context, bucket, path string) ([]byte, error)
}
