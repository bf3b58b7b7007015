package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AKupriichuk/CV-on-the-Go/internal/common"
	"github.com/AKupriichuk/CV-on-the-Go/internal/dbx"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.LastActiveAt = now

	query :=
		`INSERT INTO users (id, external_id, first_name, last_name, username, created_at, last_active_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.ExternalID, user.FirstName, user.LastName, user.Username,
		user.CreatedAt, user.LastActiveAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByExternalID(ctx context.Context, externalID int64) (*models.User, error) {
	query :=
		`SELECT id, external_id, first_name, last_name, username, created_at, last_active_at
		 FROM users
		 WHERE external_id = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, externalID).Scan(
		&user.ID, &user.ExternalID, &user.FirstName, &user.LastName, &user.Username,
		&user.CreatedAt, &user.LastActiveAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) TouchLastActive(ctx context.Context, id string) error {
	query :=
		`UPDATE users SET last_active_at = $1
		 WHERE id = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
