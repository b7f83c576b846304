package users

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

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (login, salt, verifier)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Login, user.Salt, user.Verifier).Scan(&user.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	query :=
		`SELECT id, login, salt, verifier FROM users
		 WHERE login = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, login).Scan(&user.ID, &user.Login, &user.Salt, &user.Verifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
