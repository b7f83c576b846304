// Package repomanager aggregates the directory's repositories behind one
// handle and owns database setup and migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"relay/internal/server/migrations"
	"relay/internal/server/repositories/devices"
	"relay/internal/server/repositories/documentkeys"
	"relay/internal/server/repositories/documents"
	"relay/internal/server/repositories/groups"
	"relay/internal/server/repositories/users"
)

type RepositoryManager interface {
	Conn() *sql.DB
	Users() users.Repository
	Devices() devices.Repository
	Groups() groups.Repository
	Documents() documents.Repository
	DocumentKeys() documentkeys.Repository
}

type PostgresRepositoryManager struct {
	db           *sql.DB
	users        users.Repository
	devices      devices.Repository
	groups       groups.Repository
	documents    documents.Repository
	documentKeys documentkeys.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Devices() devices.Repository {
	return m.devices
}

func (m *PostgresRepositoryManager) Groups() groups.Repository {
	return m.groups
}

func (m *PostgresRepositoryManager) Documents() documents.Repository {
	return m.documents
}

func (m *PostgresRepositoryManager) DocumentKeys() documentkeys.Repository {
	return m.documentKeys
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, m.db, ".")
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:           db,
		users:        users.NewPostgresRepository(db),
		devices:      devices.NewPostgresRepository(db),
		groups:       groups.NewPostgresRepository(db),
		documents:    documents.NewPostgresRepository(db),
		documentKeys: documentkeys.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
