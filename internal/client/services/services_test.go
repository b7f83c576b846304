package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"relay/internal/client/directory"
	"relay/internal/client/models"
	"relay/internal/cryptox"
	"relay/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testSession(userID string) *Session {
	return &Session{AccessToken: "test-token", UserID: userID}
}

// fakeDirectory is an in-memory directory service honoring the same
// conflict and not-found semantics as the real one.
type fakeDirectory struct {
	devices     map[string]*models.DirectoryDevice
	docs        map[string]*models.Document
	keys        map[string]*models.WrappedKeyEntry
	members     map[string][]*models.GroupMember
	patched     map[string][]byte
	nextID      int
	insertCalls int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		devices: make(map[string]*models.DirectoryDevice),
		docs:    make(map[string]*models.Document),
		keys:    make(map[string]*models.WrappedKeyEntry),
		members: make(map[string][]*models.GroupMember),
		patched: make(map[string][]byte),
	}
}

func notFound(msg string) error {
	return &directory.DirectoryError{Status: http.StatusNotFound, Message: msg}
}

func keyID(documentID, deviceID string) string {
	return documentID + "/" + deviceID
}

func (f *fakeDirectory) GetDeviceByID(_ context.Context, _ *Session, deviceID string) (*models.DirectoryDevice, error) {
	dev, ok := f.devices[deviceID]
	if !ok {
		return nil, notFound("no such device")
	}
	return dev, nil
}

func (f *fakeDirectory) CreateDevice(_ context.Context, sess *Session, name string, publicKey []byte) (string, error) {
	f.nextID++
	id := fmt.Sprintf("dev-%d", f.nextID)
	f.devices[id] = &models.DirectoryDevice{ID: id, UserID: sess.UserID, PublicKey: publicKey, Name: name}
	return id, nil
}

func (f *fakeDirectory) PatchDevicePublicKey(_ context.Context, _ *Session, deviceID string, publicKey []byte) error {
	dev, ok := f.devices[deviceID]
	if !ok {
		return notFound("no such device")
	}
	dev.PublicKey = publicKey
	f.patched[deviceID] = publicKey
	return nil
}

func (f *fakeDirectory) ListDevicesForUsers(_ context.Context, _ *Session, userIDs []string) ([]*models.DirectoryDevice, error) {
	var out []*models.DirectoryDevice
	for _, dev := range f.devices {
		for _, uid := range userIDs {
			if dev.UserID == uid {
				out = append(out, dev)
			}
		}
	}
	return out, nil
}

func (f *fakeDirectory) InsertDocument(_ context.Context, _ *Session, doc *models.Document) error {
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeDirectory) ListDocuments(_ context.Context, _ *Session, groupID string) ([]*models.Document, error) {
	var out []*models.Document
	for _, doc := range f.docs {
		if doc.GroupID == groupID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (f *fakeDirectory) InsertWrappedKeys(_ context.Context, _ *Session, entries []models.WrappedKeyEntry, ignoreDuplicates bool) error {
	f.insertCalls++
	for i := range entries {
		e := entries[i]
		id := keyID(e.DocumentID, e.DeviceID)
		if _, exists := f.keys[id]; exists {
			if ignoreDuplicates {
				continue
			}
			return &directory.DirectoryError{Status: http.StatusConflict, Message: "duplicate key row"}
		}
		f.keys[id] = &e
	}
	return nil
}

func (f *fakeDirectory) GetWrappedKey(_ context.Context, _ *Session, documentID, deviceID string) (*models.WrappedKeyEntry, error) {
	entry, ok := f.keys[keyID(documentID, deviceID)]
	if !ok {
		return nil, notFound("no such key row")
	}
	return entry, nil
}

func (f *fakeDirectory) ListGroupMembers(_ context.Context, _ *Session, groupID string) ([]*models.GroupMember, error) {
	return f.members[groupID], nil
}

// fakeObjectStore keeps blobs in a map keyed by bucket/path.
type fakeObjectStore struct {
	blobs map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{blobs: make(map[string][]byte)}
}

func (f *fakeObjectStore) PutObject(_ context.Context, bucket, path string, data []byte) error {
	f.blobs[bucket+"/"+path] = data
	return nil
}

func (f *fakeObjectStore) GetObject(_ context.Context, bucket, path string) ([]byte, error) {
	data, ok := f.blobs[bucket+"/"+path]
	if !ok {
		return nil, notFound("no such object")
	}
	return data, nil
}

// memKeystore is an in-memory keystore.Repository.
type memKeystore struct {
	pairs map[string]*models.DeviceKeyPair
}

func newMemKeystore() *memKeystore {
	return &memKeystore{pairs: make(map[string]*models.DeviceKeyPair)}
}

func (m *memKeystore) Save(_ context.Context, kp *models.DeviceKeyPair) error {
	m.pairs[kp.UserID] = kp
	return nil
}

func (m *memKeystore) Load(_ context.Context, userID string) (*models.DeviceKeyPair, error) {
	return m.pairs[userID], nil
}

func (m *memKeystore) Delete(_ context.Context, userID string) error {
	delete(m.pairs, userID)
	return nil
}

// registerDevice creates a fresh key pair and a matching directory record
// for userID, returning both halves.
func registerDevice(t *testing.T, dir *fakeDirectory, userID string) *models.DeviceKeyPair {
	t.Helper()
	key, err := cryptox.GenerateKeyPair()
	require.NoError(t, err)

	id, err := dir.CreateDevice(context.Background(), testSession(userID), "test-device", key.PublicKey().Bytes())
	require.NoError(t, err)

	return &models.DeviceKeyPair{
		DeviceID:   id,
		UserID:     userID,
		PublicKey:  key.PublicKey().Bytes(),
		PrivateKey: key.Bytes(),
	}
}
