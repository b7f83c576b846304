package httpapi

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"

	"relay/internal/common"
	"relay/internal/server/models"
	"relay/internal/server/repositories/devices"
	"relay/internal/server/repositories/documentkeys"
	"relay/internal/server/repositories/documents"
	"relay/internal/server/repositories/groups"
	"relay/internal/server/repositories/users"
)

// memRepos is an in-memory RepositoryManager mirroring the Postgres
// semantics the handlers rely on: not-found sentinels, unique key rows,
// duplicate-safe membership inserts.
type memRepos struct {
	mu        sync.Mutex
	nextID    int
	users     map[string]*models.User
	devices   map[string]*models.Device
	groups    map[string]*models.Group
	members   map[string]*models.GroupMember
	documents map[string]*models.Document
	keys      map[string]*models.DocumentKey
}

func newMemRepos() *memRepos {
	return &memRepos{
		users:     make(map[string]*models.User),
		devices:   make(map[string]*models.Device),
		groups:    make(map[string]*models.Group),
		members:   make(map[string]*models.GroupMember),
		documents: make(map[string]*models.Document),
		keys:      make(map[string]*models.DocumentKey),
	}
}

func (m *memRepos) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memRepos) Conn() *sql.DB                         { return nil }
func (m *memRepos) Users() users.Repository               { return (*memUsers)(m) }
func (m *memRepos) Devices() devices.Repository           { return (*memDevices)(m) }
func (m *memRepos) Groups() groups.Repository             { return (*memGroups)(m) }
func (m *memRepos) Documents() documents.Repository       { return (*memDocuments)(m) }
func (m *memRepos) DocumentKeys() documentkeys.Repository { return (*memKeys)(m) }

type memUsers memRepos

func (m *memUsers) Create(_ context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = (*memRepos)(m).id("user")
	m.users[user.ID] = user
	return user, nil
}

func (m *memUsers) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Login == login {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type memDevices memRepos

func (m *memDevices) Create(_ context.Context, device *models.Device) (*models.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	device.ID = (*memRepos)(m).id("dev")
	m.devices[device.ID] = device
	return device, nil
}

func (m *memDevices) GetByID(_ context.Context, id string) (*models.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	device, ok := m.devices[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return device, nil
}

func (m *memDevices) UpdatePublicKey(_ context.Context, id string, publicKey []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	device, ok := m.devices[id]
	if !ok {
		return common.ErrorNotFound
	}
	device.PublicKey = publicKey
	return nil
}

func (m *memDevices) ListByUserIDs(_ context.Context, userIDs []string) ([]*models.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Device
	for _, device := range m.devices {
		for _, uid := range userIDs {
			if device.UserID == uid {
				out = append(out, device)
			}
		}
	}
	return out, nil
}

type memGroups memRepos

func memberKey(groupID, userID string) string {
	return groupID + "/" + userID
}

func (m *memGroups) Create(_ context.Context, group *models.Group) (*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	group.ID = (*memRepos)(m).id("group")
	m.groups[group.ID] = group
	return group, nil
}

func (m *memGroups) ListByUserID(_ context.Context, userID string) ([]*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Group
	for _, member := range m.members {
		if member.UserID == userID {
			out = append(out, m.groups[member.GroupID])
		}
	}
	return out, nil
}

func (m *memGroups) ListMembers(_ context.Context, groupID string) ([]*models.GroupMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.GroupMember
	for _, member := range m.members {
		if member.GroupID == groupID {
			out = append(out, member)
		}
	}
	return out, nil
}

func (m *memGroups) AddMember(_ context.Context, member *models.GroupMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memberKey(member.GroupID, member.UserID)
	if _, exists := m.members[key]; exists {
		return nil
	}
	m.members[key] = member
	return nil
}

func (m *memGroups) GetMember(_ context.Context, groupID, userID string) (*models.GroupMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	member, ok := m.members[memberKey(groupID, userID)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return member, nil
}

type memDocuments memRepos

func (m *memDocuments) Create(_ context.Context, doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[doc.ID] = doc
	return nil
}

func (m *memDocuments) GetByID(_ context.Context, id string) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return doc, nil
}

func (m *memDocuments) ListByGroupID(_ context.Context, groupID string) ([]*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Document
	for _, doc := range m.documents {
		if doc.GroupID == groupID {
			out = append(out, doc)
		}
	}
	return out, nil
}

type memKeys memRepos

func docKeyID(documentID, deviceID string) string {
	return documentID + "/" + deviceID
}

func (m *memKeys) InsertBatch(_ context.Context, keys []*models.DocumentKey, ignoreDuplicates bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// All-or-nothing, like the transactional Postgres implementation.
	for _, key := range keys {
		if _, exists := m.keys[docKeyID(key.DocumentID, key.DeviceID)]; exists && !ignoreDuplicates {
			return fmt.Errorf("db error: %w", &pgconn.PgError{Code: "23505"})
		}
	}
	for _, key := range keys {
		id := docKeyID(key.DocumentID, key.DeviceID)
		if _, exists := m.keys[id]; exists {
			continue
		}
		m.keys[id] = key
	}
	return nil
}

func (m *memKeys) Get(_ context.Context, documentID, deviceID string) (*models.DocumentKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.keys[docKeyID(documentID, deviceID)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return key, nil
}
