package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AKupriichuk/CV-on-the-Go/internal/common"
	"github.com/AKupriichuk/CV-on-the-Go/internal/dbx"
	"github.com/AKupriichuk/CV-on-the-Go/internal/mapx"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/dialog"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.Context == nil {
		session.Context = mapx.Map{}
	}
	session.UpdatedAt = time.Now().UTC()

	blob, err := json.Marshal(session.Context)
	if err != nil {
		return nil, fmt.Errorf("context marshal error: %w", err)
	}

	query :=
		`INSERT INTO sessions (id, user_id, current_step, context, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err = r.db.ExecContext(ctx, query,
		session.ID, session.UserID, string(session.CurrentStep), string(blob), session.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Session, error) {
	query :=
		`SELECT id, user_id, current_step, context, updated_at
		 FROM sessions
		 WHERE user_id = $1
		 `

	session := &models.Session{}
	var step string
	var blob []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&session.ID, &session.UserID, &step, &blob, &session.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	session.CurrentStep = dialog.Step(step)
	if err := json.Unmarshal(blob, &session.Context); err != nil {
		return nil, fmt.Errorf("context unmarshal error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) Update(ctx context.Context, session *models.Session) error {

	session.UpdatedAt = time.Now().UTC()

	blob, err := json.Marshal(session.Context)
	if err != nil {
		return fmt.Errorf("context marshal error: %w", err)
	}

	query :=
		`UPDATE sessions SET current_step = $1, context = $2, updated_at = $3
		 WHERE id = $4
		 `

	res, err := r.db.ExecContext(ctx, query,
		string(session.CurrentStep), string(blob), session.UpdatedAt, session.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
