package documents

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

func (r *PostgresRepository) Create(ctx context.Context, document *models.Document) (*models.Document, error) {

	if document.ID == "" {
		document.ID = uuid.NewString()
	}
	document.CreatedAt = time.Now().UTC()

	query :=
		`INSERT INTO documents (id, user_id, file_name, storage_key, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		document.ID, document.UserID, document.FileName, document.StorageKey, document.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return document, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query :=
		`SELECT id, user_id, file_name, storage_key, created_at
		 FROM documents
		 WHERE id = $1
		 `

	document := &models.Document{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&document.ID, &document.UserID, &document.FileName, &document.StorageKey, &document.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return document, nil
}
